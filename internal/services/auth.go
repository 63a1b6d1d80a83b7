package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/quintans/faults"
	"golang.org/x/crypto/bcrypt"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
	"digital-banking/internal/utils"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"

	tokenIssuer = "digital-banking"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	users         repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, expiration time.Duration) *AuthService {
	utils.LogSuccess("AuthService", "auth service initialised (TTL: %v)", expiration)
	return &AuthService{
		users:         users,
		jwtSecret:     secret,
		jwtExpiration: expiration,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError("AuthService", "password hashing failed", err)
		return "", err
	}
	return string(hashedPassword), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Claims carries the granted roles space-separated in "scope".
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func (c *Claims) HasScope(scope string) bool {
	for _, granted := range strings.Fields(c.Scope) {
		if granted == scope {
			return true
		}
	}
	return false
}

func (s *AuthService) GenerateToken(username string, roles []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Scope: strings.Join(roles, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		utils.LogError("AuthService", "token signing failed", err)
		return "", err
	}
	return signedToken, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	user, err := s.users.GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.LogWarning("AuthService", "unknown user %s", username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.CheckPasswordHash(password, user.PasswordHash); err != nil {
		utils.LogWarning("AuthService", "wrong password for %s", username)
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.Username, user.Roles)
	if err != nil {
		return nil, err
	}

	utils.LogSuccess("AuthService", "user %s logged in", username)
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtExpiration.Seconds()),
		Scope:       strings.Join(user.Roles, " "),
	}, nil
}

// EnsureUser creates the user unless one with the same name already exists.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string, roles ...string) error {
	if _, err := s.users.GetByName(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{Username: username, PasswordHash: hash, Roles: roles}
	if err := s.users.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrConflict) {
		return faults.Errorf("create user %s: %w", username, err)
	}

	utils.LogSuccess("AuthService", "user %s ensured with roles %v", username, roles)
	return nil
}

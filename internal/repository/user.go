package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/quintans/faults"

	"digital-banking/internal/models"
	"digital-banking/internal/utils"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, password_hash, roles) VALUES ($1, $2, $3) RETURNING id, created_at`

	utils.LogDB("CREATE USER", fmt.Sprintf("username=%s", user.Username))

	err := r.db.QueryRow(ctx, query, user.Username, user.PasswordHash, strings.Join(user.Roles, " ")).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		return faults.Errorf("create user %s: %w", user.Username, err)
	}
	return nil
}

func (r *UserRepo) GetByName(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, roles, created_at FROM users WHERE username = $1`

	utils.LogDB("GET USER", fmt.Sprintf("username=%s", username))

	var (
		user  models.User
		roles string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &roles, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, faults.Errorf("get user %s: %w", username, err)
	}
	user.Roles = strings.Fields(roles)
	return &user, nil
}

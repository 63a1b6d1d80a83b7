package memory

import (
	"context"
	"time"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
)

type userRepo struct {
	s *Store
}

func (r userRepo) Create(_ context.Context, user *models.User) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.users[user.Username]; ok {
			return repository.ErrConflict
		}
		st.nextUserID++
		user.ID = st.nextUserID
		user.CreatedAt = time.Now().UTC()
		stored := *user
		stored.Roles = append([]string(nil), user.Roles...)
		st.users[user.Username] = stored
		return nil
	})
}

func (r userRepo) GetByName(_ context.Context, username string) (*models.User, error) {
	var found models.User
	err := r.s.view(func(st *state) error {
		user, ok := st.users[username]
		if !ok {
			return repository.ErrNotFound
		}
		found = user
		found.Roles = append([]string(nil), user.Roles...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

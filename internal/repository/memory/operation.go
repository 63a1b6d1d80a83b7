package memory

import (
	"context"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
)

type operationRepo struct {
	s *Store
}

func (r operationRepo) Append(_ context.Context, op *models.AccountOperation) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.accounts[op.AccountID]; !ok {
			return repository.ErrConflict
		}
		st.nextOpID++
		op.ID = st.nextOpID
		st.operations = append(st.operations, *op)
		return nil
	})
}

func (r operationRepo) ListByAccount(_ context.Context, accountID models.AccountID) ([]models.AccountOperation, error) {
	operations := []models.AccountOperation{}
	err := r.s.view(func(st *state) error {
		for _, op := range st.operations {
			if op.AccountID == accountID {
				operations = append(operations, op)
			}
		}
		return nil
	})
	return operations, err
}

func (r operationRepo) PageByAccount(ctx context.Context, accountID models.AccountID, page, size int) ([]models.AccountOperation, int, error) {
	all, err := r.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	if page < 0 || size <= 0 || page > len(all)/size {
		return []models.AccountOperation{}, len(all), nil
	}

	start := page * size
	end := len(all)
	if size < end-start {
		end = start + size
	}
	return all[start:end], len(all), nil
}

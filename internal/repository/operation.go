package repository

import (
	"context"
	"fmt"

	"github.com/quintans/faults"

	"digital-banking/internal/models"
	"digital-banking/internal/utils"
)

const operationColumns = `id, operation_date, amount, type, description, bank_account_id`

type OperationRepo struct {
	db DBTX
}

func NewOperationRepository(db DBTX) *OperationRepo {
	return &OperationRepo{db: db}
}

func (r *OperationRepo) Append(ctx context.Context, op *models.AccountOperation) error {
	query := `
		INSERT INTO account_operations (operation_date, amount, type, description, bank_account_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	utils.LogDB("APPEND OPERATION", fmt.Sprintf("%s %s on %s", op.Type, op.Amount, op.AccountID))

	err := r.db.QueryRow(ctx, query,
		op.OperationDate,
		op.Amount,
		op.Type,
		op.Description,
		op.AccountID,
	).Scan(&op.ID)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		return faults.Errorf("append operation on %s: %w", op.AccountID, err)
	}
	return nil
}

func (r *OperationRepo) ListByAccount(ctx context.Context, accountID models.AccountID) ([]models.AccountOperation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM account_operations
		WHERE bank_account_id = $1
		ORDER BY id
	`
	return r.query(ctx, query, accountID)
}

func (r *OperationRepo) PageByAccount(ctx context.Context, accountID models.AccountID, page, size int) ([]models.AccountOperation, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM account_operations WHERE bank_account_id = $1`,
		accountID,
	).Scan(&total)
	if err != nil {
		return nil, 0, faults.Errorf("count operations of %s: %w", accountID, err)
	}
	if page < 0 || size <= 0 || page > total/size {
		return []models.AccountOperation{}, total, nil
	}

	query := `
		SELECT ` + operationColumns + `
		FROM account_operations
		WHERE bank_account_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	operations, err := r.query(ctx, query, accountID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	return operations, total, nil
}

func (r *OperationRepo) query(ctx context.Context, query string, args ...any) ([]models.AccountOperation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, faults.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	operations := []models.AccountOperation{}
	for rows.Next() {
		var op models.AccountOperation
		err := rows.Scan(
			&op.ID,
			&op.OperationDate,
			&op.Amount,
			&op.Type,
			&op.Description,
			&op.AccountID,
		)
		if err != nil {
			return nil, faults.Errorf("scan operation: %w", err)
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Errorf("iterate operations: %w", err)
	}
	return operations, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/quintans/faults"

	"digital-banking/internal/models"
	"digital-banking/internal/utils"
)

type CustomerRepo struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `INSERT INTO customers (name, email) VALUES ($1, $2) RETURNING id`

	utils.LogDB("CREATE CUSTOMER", fmt.Sprintf("name=%s", customer.Name))

	if err := r.db.QueryRow(ctx, query, customer.Name, customer.Email).Scan(&customer.ID); err != nil {
		return faults.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `UPDATE customers SET name = $1, email = $2 WHERE id = $3`

	utils.LogDB("UPDATE CUSTOMER", fmt.Sprintf("id=%d", customer.ID))

	result, err := r.db.Exec(ctx, query, customer.Name, customer.Email, customer.ID)
	if err != nil {
		return faults.Errorf("update customer %d: %w", customer.ID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id models.CustomerID) (*models.Customer, error) {
	query := `SELECT id, name, email FROM customers WHERE id = $1`

	var customer models.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(&customer.ID, &customer.Name, &customer.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, faults.Errorf("get customer %d: %w", id, err)
	}
	return &customer, nil
}

func (r *CustomerRepo) List(ctx context.Context) ([]models.Customer, error) {
	return r.list(ctx, `SELECT id, name, email FROM customers ORDER BY id`)
}

// SearchByName matches keyword as a case-insensitive substring of the name.
func (r *CustomerRepo) SearchByName(ctx context.Context, keyword string) ([]models.Customer, error) {
	return r.list(ctx,
		`SELECT id, name, email FROM customers WHERE strpos(lower(name), lower($1)) > 0 ORDER BY id`,
		keyword,
	)
}

func (r *CustomerRepo) list(ctx context.Context, query string, args ...any) ([]models.Customer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, faults.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Email); err != nil {
			return nil, faults.Errorf("scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

// Delete is a no-op for unknown ids. Customers that still own accounts are
// protected by a foreign key and yield ErrConflict.
func (r *CustomerRepo) Delete(ctx context.Context, id models.CustomerID) error {
	utils.LogDB("DELETE CUSTOMER", fmt.Sprintf("id=%d", id))

	if _, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		return faults.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}

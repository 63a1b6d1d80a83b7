package memory

import (
	"context"
	"strings"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
)

type customerRepo struct {
	s *Store
}

func (r customerRepo) Create(_ context.Context, customer *models.Customer) error {
	return r.s.view(func(st *state) error {
		st.nextCustomerID++
		customer.ID = st.nextCustomerID
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r customerRepo) Update(_ context.Context, customer *models.Customer) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.customers[customer.ID]; !ok {
			return repository.ErrNotFound
		}
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r customerRepo) GetByID(_ context.Context, id models.CustomerID) (*models.Customer, error) {
	var found models.Customer
	err := r.s.view(func(st *state) error {
		customer, ok := st.customers[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r customerRepo) List(ctx context.Context) ([]models.Customer, error) {
	return r.filter(func(models.Customer) bool { return true })
}

func (r customerRepo) SearchByName(_ context.Context, keyword string) ([]models.Customer, error) {
	needle := strings.ToLower(keyword)
	return r.filter(func(c models.Customer) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	})
}

func (r customerRepo) filter(keep func(models.Customer) bool) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := r.s.view(func(st *state) error {
		for id := models.CustomerID(1); id <= st.nextCustomerID; id++ {
			if c, ok := st.customers[id]; ok && keep(c) {
				customers = append(customers, c)
			}
		}
		return nil
	})
	return customers, err
}

func (r customerRepo) Delete(_ context.Context, id models.CustomerID) error {
	return r.s.view(func(st *state) error {
		for _, rec := range st.accounts {
			if rec.base.CustomerID == id {
				return repository.ErrConflict
			}
		}
		delete(st.customers, id)
		return nil
	})
}

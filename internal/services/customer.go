package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
	"digital-banking/internal/utils"
)

func (s *AccountService) CreateCustomer(ctx context.Context, req models.CustomerRequest) (*models.CustomerResponse, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}

	customer := &models.Customer{Name: req.Name, Email: req.Email}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.Customers().Create(ctx, customer)
	})
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("saving customer %q failed", req.Name), err)
		return nil, err
	}

	utils.LogSuccess("AccountService", "customer %d saved (%s)", customer.ID, customer.Name)
	response := toCustomerResponse(customer)
	return &response, nil
}

func (s *AccountService) GetCustomer(ctx context.Context, id models.CustomerID) (*models.CustomerResponse, error) {
	customer, err := s.store.Customers().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	response := toCustomerResponse(customer)
	return &response, nil
}

// UpdateCustomer replaces name and email of an existing customer.
func (s *AccountService) UpdateCustomer(ctx context.Context, id models.CustomerID, req models.CustomerRequest) (*models.CustomerResponse, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}

	customer := &models.Customer{ID: id, Name: req.Name, Email: req.Email}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.Customers().Update(ctx, customer)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		utils.LogError("AccountService", fmt.Sprintf("updating customer %d failed", id), err)
		return nil, err
	}

	utils.LogSuccess("AccountService", "customer %d updated", id)
	response := toCustomerResponse(customer)
	return &response, nil
}

// DeleteCustomer succeeds for unknown ids. Customers owning accounts are kept.
func (s *AccountService) DeleteCustomer(ctx context.Context, id models.CustomerID) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.Customers().Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrCustomerHasAccounts
		}
		utils.LogError("AccountService", fmt.Sprintf("deleting customer %d failed", id), err)
		return err
	}

	utils.LogSuccess("AccountService", "customer %d deleted", id)
	return nil
}

func (s *AccountService) ListCustomers(ctx context.Context) ([]models.CustomerResponse, error) {
	customers, err := s.store.Customers().List(ctx)
	if err != nil {
		return nil, err
	}
	return toCustomerResponses(customers), nil
}

// SearchCustomers matches keyword case-insensitively anywhere in the name.
func (s *AccountService) SearchCustomers(ctx context.Context, keyword string) ([]models.CustomerResponse, error) {
	customers, err := s.store.Customers().SearchByName(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toCustomerResponses(customers), nil
}

func validateCustomer(req models.CustomerRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return ErrInvalidCustomer
	}
	return nil
}

func toCustomerResponse(customer *models.Customer) models.CustomerResponse {
	return models.CustomerResponse{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
	}
}

func toCustomerResponses(customers []models.Customer) []models.CustomerResponse {
	responses := make([]models.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, toCustomerResponse(&customers[i]))
	}
	return responses
}

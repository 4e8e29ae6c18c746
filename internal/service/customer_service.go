package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CustomerService manages the customer directory.
type CustomerService struct {
	repos repository.Repositories
}

// NewCustomerService constructs the service.
func NewCustomerService(repos repository.Repositories) *CustomerService {
	return &CustomerService{repos: repos}
}

// Register creates a customer. Registration is rejected entirely when the
// email is already taken.
func (s *CustomerService) Register(ctx context.Context, name, email string) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	exists, err := s.repos.Customers.EmailExists(ctx, email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("customer email already registered", map[string]any{"email": email})
	}

	customer := &domain.Customer{Name: name, Email: email}
	if err := s.repos.Customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// Get fetches a customer by id.
func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.repos.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// List returns all customers ordered by name.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.repos.Customers.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// Update edits a customer's name and email.
func (s *CustomerService) Update(ctx context.Context, id int64, name, email string) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = name
	customer.Email = email
	if err := s.repos.Customers.Update(ctx, customer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// Delete removes a customer. Customers still owning tickets cannot be
// removed; the operation is a no-op then.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repos.Tickets.CountByCustomer(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewPreconditionFailed("customer has existing tickets",
			map[string]any{"customer_id": id, "ticket_count": count})
	}
	if err := s.repos.Customers.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hoocms/customers/internal/cache"
	apperrors "github.com/hoocms/customers/internal/errors"
	"github.com/hoocms/customers/internal/model"
	"github.com/hoocms/customers/internal/repository"
	"github.com/sirupsen/logrus"
)

const msgEmailAlreadyExists = "Email already exists"
const msgCustomerNotFound = "Customer not found"

// CustomerService represents customer record operations.
//
// Email uniqueness is enforced check-then-act: the email index is read
// right before the write, so two concurrent writers with the same email
// can both pass the check. The unique index on email makes the store
// reject the second write in that case, and the rejection surfaces as
// the same "Email already exists" failure
type CustomerService interface {
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindAll(ctx context.Context, search string, limit int64) ([]*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) (*model.Customer, error)
	DeleteByID(ctx context.Context, id string) error
}

type customerService struct {
	customerRps   repository.CustomerRepository
	customerCache cache.CustomerCacheRepository
}

// NewCustomerService builds customer service over provided repository and cache
func NewCustomerService(customerRps repository.CustomerRepository, customerCache cache.CustomerCacheRepository) CustomerService {
	return &customerService{
		customerRps:   customerRps,
		customerCache: customerCache,
	}
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if err := s.checkEmailIsAvailable(ctx, c.Email, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.RegistrationDate = now
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.customerRps.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperrors.NewBusinessErr("email", msgEmailAlreadyExists)
		}
		return nil, err
	}

	// the record is persisted, a failed cache write must not fail the operation
	if err := s.customerCache.Create(ctx, c); err != nil {
		logrus.Errorf("failed to cache customer %s - %v", c.ID, err)
	}
	return c, nil
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c != nil {
		return c, nil
	}

	c, err = s.customerRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, apperrors.NewEntryNotFoundErr(msgCustomerNotFound)
	}

	if err := s.customerCache.Create(ctx, c); err != nil {
		logrus.Errorf("failed to cache customer %s - %v", c.ID, err)
	}
	return c, nil
}

// FindAll reads a single bounded page from the store and filters it in
// memory. Search never spans the full collection, only the fetched page
func (s *customerService) FindAll(ctx context.Context, search string, limit int64) ([]*model.Customer, error) {
	page, err := s.customerRps.FindPage(ctx, limit)
	if err != nil {
		return nil, err
	}
	return model.Filter(page, search), nil
}

func (s *customerService) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	existing, err := s.customerRps.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, apperrors.NewEntryNotFoundErr(msgCustomerNotFound)
	}

	if c.Email != existing.Email {
		if err := s.checkEmailIsAvailable(ctx, c.Email, c.ID); err != nil {
			return nil, err
		}
	}

	// id, created_at and registration_date are immutable
	c.RegistrationDate = existing.RegistrationDate
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	if err := s.customerRps.Replace(ctx, c); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperrors.NewBusinessErr("email", msgEmailAlreadyExists)
		}
		return nil, err
	}

	if err := s.customerCache.DeleteByID(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	existing, err := s.customerRps.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if existing == nil {
		return apperrors.NewEntryNotFoundErr(msgCustomerNotFound)
	}

	if err := s.customerCache.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := s.customerRps.DeleteByID(ctx, id); err != nil {
		return err
	}
	return nil
}

func (s *customerService) checkEmailIsAvailable(ctx context.Context, email string, excludeID string) error {
	existing, err := s.customerRps.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if existing != nil && existing.ID != excludeID {
		return apperrors.NewBusinessErr("email", msgEmailAlreadyExists)
	}
	return nil
}

package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository is the persistence port for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// CompanyRepository is the persistence port for companies
type CompanyRepository interface {
	Save(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Company, error)
}

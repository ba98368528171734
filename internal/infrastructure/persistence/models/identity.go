package models

import (
	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/identity"
	"github.com/buildpay/backend/internal/domain/shared"
)

// CompanyModel is the persistence model for the Company aggregate root.
type CompanyModel struct {
	AggregateModel
	Name                 string                      `gorm:"type:varchar(200);not null"`
	Email                string                      `gorm:"type:varchar(200);not null"`
	StripeCustomerID     string                      `gorm:"type:varchar(100);index"`
	StripeSubscriptionID string                      `gorm:"type:varchar(100)"`
	SubscriptionStatus   identity.SubscriptionStatus `gorm:"type:varchar(20);not null;default:'none'"`
	SubscriptionPlan     string                      `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *identity.Company {
	return &identity.Company{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:                 m.Name,
		Email:                m.Email,
		StripeCustomerID:     m.StripeCustomerID,
		StripeSubscriptionID: m.StripeSubscriptionID,
		SubscriptionStatus:   m.SubscriptionStatus,
		SubscriptionPlan:     m.SubscriptionPlan,
	}
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *identity.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.StripeCustomerID = c.StripeCustomerID
	m.StripeSubscriptionID = c.StripeSubscriptionID
	m.SubscriptionStatus = c.SubscriptionStatus
	m.SubscriptionPlan = c.SubscriptionPlan
}

// CompanyModelFromDomain creates a new persistence model from a domain Company.
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	CompanyID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Email        string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string            `gorm:"type:varchar(100);not null"`
	Name         string            `gorm:"type:varchar(200);not null"`
	Role         identity.UserRole `gorm:"type:varchar(20);not null;default:'member'"`
	Active       bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		CompanyID:    m.CompanyID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         m.Role,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.CompanyID = u.CompanyID
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Role = u.Role
	m.Active = u.Active
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

package identity

import (
	"github.com/buildpay/backend/internal/domain/shared"
)

// SubscriptionStatus mirrors the billing provider's subscription state
type SubscriptionStatus string

const (
	SubscriptionStatusNone     SubscriptionStatus = "none"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Company is a tenant: a construction business using the platform.
// Subscription fields track the company's own SaaS billing state and
// are maintained from provider webhooks.
type Company struct {
	shared.BaseAggregateRoot
	Name                 string `gorm:"not null"`
	Email                string `gorm:"not null"`
	StripeCustomerID     string `gorm:"index"`
	StripeSubscriptionID string
	SubscriptionStatus   SubscriptionStatus `gorm:"not null;default:'none'"`
	SubscriptionPlan     string
}

// NewCompany creates a new company
func NewCompany(name, email string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name is required")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Company email is required")
	}

	return &Company{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		Email:              email,
		SubscriptionStatus: SubscriptionStatusNone,
	}, nil
}

// UpdateSubscription applies the latest provider subscription state
func (c *Company) UpdateSubscription(customerID, subscriptionID, plan string, status SubscriptionStatus) {
	c.StripeCustomerID = customerID
	c.StripeSubscriptionID = subscriptionID
	c.SubscriptionPlan = plan
	c.SubscriptionStatus = status
	c.IncrementVersion()
}

// MarkSubscriptionPastDue flags the subscription after a failed renewal charge
func (c *Company) MarkSubscriptionPastDue() {
	c.SubscriptionStatus = SubscriptionStatusPastDue
	c.IncrementVersion()
}

// MarkSubscriptionActive restores the subscription after a successful charge
func (c *Company) MarkSubscriptionActive() {
	c.SubscriptionStatus = SubscriptionStatusActive
	c.IncrementVersion()
}

// CancelSubscription marks the company's subscription canceled
func (c *Company) CancelSubscription() {
	c.SubscriptionStatus = SubscriptionStatusCanceled
	c.IncrementVersion()
}

// HasActiveSubscription returns true when the company can use paid features
func (c *Company) HasActiveSubscription() bool {
	return c.SubscriptionStatus == SubscriptionStatusActive ||
		c.SubscriptionStatus == SubscriptionStatusTrialing
}

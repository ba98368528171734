package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/identity"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/infrastructure/config"
)

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) Save(ctx context.Context, company *identity.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *mockCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*identity.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCompanyRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*identity.Company, error) {
	args := m.Called(ctx, customerID)
	if c := args.Get(0); c != nil {
		return c.(*identity.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func newWebhookService(repo *mockCompanyRepo) *StripeWebhookService {
	return NewStripeWebhookService(config.StripeConfig{
		SecretKey:     "sk_test_xxx",
		WebhookSecret: "whsec_test_xxx",
	}, repo, zap.NewNop())
}

func newTestCompany(t *testing.T) *identity.Company {
	t.Helper()
	company, err := identity.NewCompany("Harbor Homes LLC", "billing@harborhomes.test")
	require.NoError(t, err)
	company.StripeCustomerID = "cus_test123"
	return company
}

func subscriptionEvent(t *testing.T, eventType string, sub stripe.Subscription) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(sub)
	require.NoError(t, err)
	return stripe.Event{
		ID:   "evt_test123",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func invoiceEvent(t *testing.T, eventType string, invoice stripe.Invoice) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(invoice)
	require.NoError(t, err)
	return stripe.Event{
		ID:   "evt_test123",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestProcessWebhook_InvalidSignature(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)

	result, err := svc.ProcessWebhook(context.Background(),
		[]byte(`{"type": "customer.subscription.created"}`), "invalid_signature")

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "webhook signature verification failed")
}

func TestHandleSubscriptionChanged(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)
	ctx := context.Background()

	company := newTestCompany(t)

	event := subscriptionEvent(t, "customer.subscription.created", stripe.Subscription{
		ID:       "sub_new123",
		Customer: &stripe.Customer{ID: "cus_test123"},
		Status:   stripe.SubscriptionStatusActive,
		Metadata: map[string]string{"plan_id": "pro"},
	})

	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(company, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	err := svc.handleSubscriptionChanged(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, "sub_new123", company.StripeSubscriptionID)
	assert.Equal(t, "pro", company.SubscriptionPlan)
	assert.Equal(t, identity.SubscriptionStatusActive, company.SubscriptionStatus)
	repo.AssertExpectations(t)
}

func TestHandleSubscriptionChanged_PastDueStatus(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)
	ctx := context.Background()

	company := newTestCompany(t)

	event := subscriptionEvent(t, "customer.subscription.updated", stripe.Subscription{
		ID:       "sub_test123",
		Customer: &stripe.Customer{ID: "cus_test123"},
		Status:   stripe.SubscriptionStatusPastDue,
	})

	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(company, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	err := svc.handleSubscriptionChanged(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, identity.SubscriptionStatusPastDue, company.SubscriptionStatus)
	repo.AssertExpectations(t)
}

func TestHandleSubscriptionChanged_CompanyNotFound(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)
	ctx := context.Background()

	event := subscriptionEvent(t, "customer.subscription.created", stripe.Subscription{
		ID:       "sub_new123",
		Customer: &stripe.Customer{ID: "cus_unknown"},
		Status:   stripe.SubscriptionStatusActive,
	})

	repo.On("FindByStripeCustomerID", ctx, "cus_unknown").Return(nil, shared.ErrNotFound)

	err := svc.handleSubscriptionChanged(ctx, event)

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Save")
}

func TestHandleSubscriptionChanged_NoCustomerID(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)

	event := subscriptionEvent(t, "customer.subscription.created", stripe.Subscription{
		ID:     "sub_new123",
		Status: stripe.SubscriptionStatusActive,
	})

	err := svc.handleSubscriptionChanged(context.Background(), event)

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "FindByStripeCustomerID")
}

func TestHandleSubscriptionChanged_DatabaseError(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)
	ctx := context.Background()

	event := subscriptionEvent(t, "customer.subscription.updated", stripe.Subscription{
		ID:       "sub_test123",
		Customer: &stripe.Customer{ID: "cus_test123"},
		Status:   stripe.SubscriptionStatusActive,
	})

	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(nil, errors.New("database error"))

	err := svc.handleSubscriptionChanged(ctx, event)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find company")
}

func TestHandleSubscriptionDeleted(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)
	ctx := context.Background()

	company := newTestCompany(t)
	company.UpdateSubscription("cus_test123", "sub_test123", "pro", identity.SubscriptionStatusActive)

	event := subscriptionEvent(t, "customer.subscription.deleted", stripe.Subscription{
		ID:       "sub_test123",
		Customer: &stripe.Customer{ID: "cus_test123"},
		Status:   stripe.SubscriptionStatusCanceled,
	})

	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(company, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	err := svc.handleSubscriptionDeleted(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, identity.SubscriptionStatusCanceled, company.SubscriptionStatus)
	assert.False(t, company.HasActiveSubscription())
	repo.AssertExpectations(t)
}

func TestHandleInvoicePaid_ReactivatesPastDue(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)
	ctx := context.Background()

	company := newTestCompany(t)
	company.UpdateSubscription("cus_test123", "sub_test123", "pro", identity.SubscriptionStatusPastDue)

	event := invoiceEvent(t, "invoice.paid", stripe.Invoice{
		ID:           "in_test123",
		Customer:     &stripe.Customer{ID: "cus_test123"},
		Subscription: &stripe.Subscription{ID: "sub_test123"},
	})

	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(company, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	err := svc.handleInvoicePaid(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, identity.SubscriptionStatusActive, company.SubscriptionStatus)
	repo.AssertExpectations(t)
}

func TestHandleInvoicePaid_NonSubscriptionInvoice(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)

	event := invoiceEvent(t, "invoice.paid", stripe.Invoice{
		ID:       "in_test123",
		Customer: &stripe.Customer{ID: "cus_test123"},
	})

	err := svc.handleInvoicePaid(context.Background(), event)

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "FindByStripeCustomerID")
}

func TestHandleInvoicePaymentFailed(t *testing.T) {
	repo := new(mockCompanyRepo)
	svc := newWebhookService(repo)
	ctx := context.Background()

	company := newTestCompany(t)
	company.UpdateSubscription("cus_test123", "sub_test123", "pro", identity.SubscriptionStatusActive)

	event := invoiceEvent(t, "invoice.payment_failed", stripe.Invoice{
		ID:           "in_test123",
		Customer:     &stripe.Customer{ID: "cus_test123"},
		Subscription: &stripe.Subscription{ID: "sub_test123"},
	})

	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(company, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	err := svc.handleInvoicePaymentFailed(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, identity.SubscriptionStatusPastDue, company.SubscriptionStatus)
	repo.AssertExpectations(t)
}

func TestMapSubscriptionStatus(t *testing.T) {
	tests := []struct {
		stripeStatus stripe.SubscriptionStatus
		want         identity.SubscriptionStatus
	}{
		{stripe.SubscriptionStatusActive, identity.SubscriptionStatusActive},
		{stripe.SubscriptionStatusTrialing, identity.SubscriptionStatusTrialing},
		{stripe.SubscriptionStatusPastDue, identity.SubscriptionStatusPastDue},
		{stripe.SubscriptionStatusUnpaid, identity.SubscriptionStatusPastDue},
		{stripe.SubscriptionStatusCanceled, identity.SubscriptionStatusCanceled},
		{stripe.SubscriptionStatusIncomplete, identity.SubscriptionStatusNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.stripeStatus), func(t *testing.T) {
			assert.Equal(t, tt.want, mapSubscriptionStatus(tt.stripeStatus))
		})
	}
}

package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

func mustMoney(t *testing.T, amount string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyUSDFromString(amount)
	require.NoError(t, err)
	return m
}

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Save(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockInvoiceRepo) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if inv := args.Get(0); inv != nil {
		return inv.(*billing.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) FindByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceNumber)
	if inv := args.Get(0); inv != nil {
		return inv.(*billing.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	args := m.Called(ctx, companyID, filter)
	var invoices []*billing.Invoice
	if v := args.Get(0); v != nil {
		invoices = v.([]*billing.Invoice)
	}
	return invoices, args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceRepo) NextInvoiceNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

type mockBillRepo struct {
	mock.Mock
}

func (m *mockBillRepo) Save(ctx context.Context, bill *billing.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *mockBillRepo) SaveWithLock(ctx context.Context, bill *billing.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *mockBillRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, companyID, id)
	if b := args.Get(0); b != nil {
		return b.(*billing.Bill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBillRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.BillFilter) ([]*billing.Bill, int64, error) {
	args := m.Called(ctx, companyID, filter)
	var bills []*billing.Bill
	if v := args.Get(0); v != nil {
		bills = v.([]*billing.Bill)
	}
	return bills, args.Get(1).(int64), args.Error(2)
}

func (m *mockBillRepo) NextBillNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Save(ctx context.Context, payment *billing.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, companyID, id)
	if p := args.Get(0); p != nil {
		return p.(*billing.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepo) FindCompletedByEntity(ctx context.Context, companyID uuid.UUID, entityType billing.EntityType, entityID uuid.UUID) ([]*billing.Payment, error) {
	args := m.Called(ctx, companyID, entityType, entityID)
	if p := args.Get(0); p != nil {
		return p.([]*billing.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepo) FindByEntity(ctx context.Context, companyID uuid.UUID, entityType billing.EntityType, entityID uuid.UUID) ([]*billing.Payment, error) {
	args := m.Called(ctx, companyID, entityType, entityID)
	if p := args.Get(0); p != nil {
		return p.([]*billing.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepo) FindByProviderTransaction(ctx context.Context, provider, transactionID string) (*billing.Payment, error) {
	args := m.Called(ctx, provider, transactionID)
	if p := args.Get(0); p != nil {
		return p.(*billing.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Name() string {
	return m.Called().String(0)
}

func (m *mockGateway) CreateCharge(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*billing.ChargeResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) VerifyCallback(payload []byte, signature string) error {
	return m.Called(payload, signature).Error(0)
}

func (m *mockGateway) ParseCallback(payload []byte) (*billing.CallbackNotification, error) {
	args := m.Called(payload)
	if n := args.Get(0); n != nil {
		return n.(*billing.CallbackNotification), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRegistry struct {
	gateways map[string]billing.PaymentGateway
}

func (m *mockRegistry) Get(provider string) (billing.PaymentGateway, bool) {
	g, ok := m.gateways[provider]
	return g, ok
}

func (m *mockRegistry) ForMethod(method billing.PaymentMethod) (billing.PaymentGateway, bool) {
	for _, g := range m.gateways {
		return g, true
	}
	return nil, false
}

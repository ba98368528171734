package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/buildpay/backend/internal/domain/billing"
)

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceRepo) NextInvoiceNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindCompletedByEntity(ctx context.Context, companyID uuid.UUID, entityType billing.EntityType, entityID uuid.UUID) ([]*billing.Payment, error) {
	args := m.Called(ctx, companyID, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByEntity(ctx context.Context, companyID uuid.UUID, entityType billing.EntityType, entityID uuid.UUID) ([]*billing.Payment, error) {
	args := m.Called(ctx, companyID, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByProviderTransaction(ctx context.Context, provider, transactionID string) (*billing.Payment, error) {
	args := m.Called(ctx, provider, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *mockBillRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.BillFilter) ([]*billing.Bill, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Bill), args.Get(1).(int64), args.Error(2)
}

func (m *mockBillRepo) NextBillNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
)

func TestRecordInvoicePayment_Success(t *testing.T) {
	companyID := uuid.New()
	invoice := newTestInvoice(t, companyID, 1000.00, billing.InvoiceStatusSent)

	invoiceRepo := new(mockInvoiceRepo)
	paymentRepo := new(mockPaymentRepo)
	paymentRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *billing.Payment) bool {
		return p.Status == billing.PaymentStatusCompleted &&
			p.EntityType == billing.EntityTypeInvoice &&
			p.EntityID == invoice.ID
	})).Return(nil)
	invoiceRepo.On("FindByID", mock.Anything, companyID, invoice.ID).Return(invoice, nil)
	paymentRepo.On("FindCompletedByEntity", mock.Anything, companyID, billing.EntityTypeInvoice, invoice.ID).
		Return([]*billing.Payment{
			newCompletedPayment(t, companyID, invoice.ID, 1000.00, time.Now()),
		}, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

	aggregator := newAggregator(invoiceRepo, new(mockBillRepo), paymentRepo)
	svc := NewPaymentRecorderService(paymentRepo, aggregator, zap.NewNop())

	result, err := svc.RecordInvoicePayment(context.Background(), RecordPaymentRequest{
		CompanyID:   companyID,
		EntityID:    invoice.ID,
		Amount:      "1000.00",
		Method:      billing.PaymentMethodCheck,
		PaymentDate: time.Now(),
		PayorName:   "Jordan Smith",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.PaymentID)
	require.NotNil(t, result.Summary)
	assert.True(t, result.Summary.Summary.FullyPaid)
	paymentRepo.AssertExpectations(t)
}

func TestRecordInvoicePayment_InsertFailureSurfaces(t *testing.T) {
	companyID := uuid.New()
	invoiceID := uuid.New()

	paymentRepo := new(mockPaymentRepo)
	paymentRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	aggregator := newAggregator(new(mockInvoiceRepo), new(mockBillRepo), paymentRepo)
	svc := NewPaymentRecorderService(paymentRepo, aggregator, zap.NewNop())

	result, err := svc.RecordInvoicePayment(context.Background(), RecordPaymentRequest{
		CompanyID:   companyID,
		EntityID:    invoiceID,
		Amount:      "500.00",
		Method:      billing.PaymentMethodCash,
		PaymentDate: time.Now(),
	})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestRecordInvoicePayment_RejectsInvalidAmount(t *testing.T) {
	svc := NewPaymentRecorderService(new(mockPaymentRepo),
		newAggregator(new(mockInvoiceRepo), new(mockBillRepo), new(mockPaymentRepo)), zap.NewNop())

	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-50.00"},
		{"garbage", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordInvoicePayment(context.Background(), RecordPaymentRequest{
				CompanyID:   uuid.New(),
				EntityID:    uuid.New(),
				Amount:      tt.amount,
				Method:      billing.PaymentMethodCash,
				PaymentDate: time.Now(),
			})
			assert.Error(t, err)
		})
	}
}

func TestRecordInvoicePayment_AggregatorFailureStillReturnsPaymentID(t *testing.T) {
	companyID := uuid.New()
	invoice := newTestInvoice(t, companyID, 1000.00, billing.InvoiceStatusSent)

	invoiceRepo := new(mockInvoiceRepo)
	paymentRepo := new(mockPaymentRepo)
	paymentRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	invoiceRepo.On("FindByID", mock.Anything, companyID, invoice.ID).Return(invoice, nil)
	paymentRepo.On("FindCompletedByEntity", mock.Anything, companyID, billing.EntityTypeInvoice, invoice.ID).
		Return(nil, errors.New("connection refused"))

	aggregator := newAggregator(invoiceRepo, new(mockBillRepo), paymentRepo)
	svc := NewPaymentRecorderService(paymentRepo, aggregator, zap.NewNop())

	result, err := svc.RecordInvoicePayment(context.Background(), RecordPaymentRequest{
		CompanyID:   companyID,
		EntityID:    invoice.ID,
		Amount:      "500.00",
		Method:      billing.PaymentMethodACH,
		PaymentDate: time.Now(),
	})

	require.Error(t, err)
	require.NotNil(t, result)
	assert.NotEqual(t, uuid.Nil, result.PaymentID)
}

func TestRecordBillPayment_Success(t *testing.T) {
	companyID := uuid.New()
	bill, err := billing.NewBill(companyID, "BILL-20260901-00002", "Lumber Yard Inc",
		mustMoney(t, "750.00"), time.Now().Add(14*24*time.Hour))
	require.NoError(t, err)
	bill.Status = billing.BillStatusReceived

	billRepo := new(mockBillRepo)
	paymentRepo := new(mockPaymentRepo)
	paymentRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *billing.Payment) bool {
		return p.EntityType == billing.EntityTypeBill
	})).Return(nil)
	billRepo.On("FindByID", mock.Anything, companyID, bill.ID).Return(bill, nil)
	paymentRepo.On("FindCompletedByEntity", mock.Anything, companyID, billing.EntityTypeBill, bill.ID).
		Return([]*billing.Payment{}, nil)
	billRepo.On("SaveWithLock", mock.Anything, bill).Return(nil)

	aggregator := newAggregator(new(mockInvoiceRepo), billRepo, paymentRepo)
	svc := NewPaymentRecorderService(paymentRepo, aggregator, zap.NewNop())

	result, err := svc.RecordBillPayment(context.Background(), RecordPaymentRequest{
		CompanyID:   companyID,
		EntityID:    bill.ID,
		Amount:      "750.00",
		Method:      billing.PaymentMethodWireTransfer,
		PaymentDate: time.Now(),
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.PaymentID)
}

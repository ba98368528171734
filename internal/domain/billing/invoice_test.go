package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

func makeInvoice(t *testing.T, amount float64) *Invoice {
	t.Helper()
	inv, err := NewInvoice(
		uuid.New(), "INV-20260901-00001", "Acme Builders", "ap@acme.test",
		valueobject.NewMoneyUSDFromFloat(amount),
		time.Now().Add(30*24*time.Hour),
	)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice", func(t *testing.T) {
		inv := makeInvoice(t, 1000.00)

		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, 1, inv.GetVersion())
		assert.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInvoiceCreated, inv.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "", "Acme", "",
			valueobject.NewMoneyUSDFromFloat(100), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-1", "Acme", "",
			valueobject.ZeroUSD(), time.Now())
		assert.Error(t, err)

		_, err = NewInvoice(uuid.New(), "INV-1", "Acme", "",
			valueobject.NewMoneyUSDFromFloat(-50), time.Now())
		assert.Error(t, err)
	})
}

func TestInvoice_Send(t *testing.T) {
	t.Run("draft can be sent", func(t *testing.T) {
		inv := makeInvoice(t, 1000.00)

		require.NoError(t, inv.Send())

		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.NotNil(t, inv.SentAt)
		assert.Equal(t, 2, inv.GetVersion())
	})

	t.Run("sent cannot be sent again", func(t *testing.T) {
		inv := makeInvoice(t, 1000.00)
		require.NoError(t, inv.Send())

		assert.Error(t, inv.Send())
	})
}

func TestInvoice_MarkOverdue(t *testing.T) {
	tests := []struct {
		name    string
		status  InvoiceStatus
		wantErr bool
	}{
		{"sent becomes overdue", InvoiceStatusSent, false},
		{"partially paid becomes overdue", InvoiceStatusPartiallyPaid, false},
		{"draft cannot become overdue", InvoiceStatusDraft, true},
		{"paid cannot become overdue", InvoiceStatusPaid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := makeInvoice(t, 1000.00)
			inv.Status = tt.status

			err := inv.MarkOverdue()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, InvoiceStatusOverdue, inv.Status)
			}
		})
	}
}

func TestInvoice_ApplyPaymentState(t *testing.T) {
	fullyPaid := PaymentSummary{FullyPaid: true}
	partiallyPaid := PaymentSummary{PartiallyPaid: true}
	unpaid := PaymentSummary{}

	tests := []struct {
		name        string
		current     InvoiceStatus
		summary     PaymentSummary
		wantStatus  InvoiceStatus
		wantChanged bool
	}{
		{"fully paid marks paid", InvoiceStatusSent, fullyPaid, InvoiceStatusPaid, true},
		{"fully paid overrides overdue", InvoiceStatusOverdue, fullyPaid, InvoiceStatusPaid, true},
		{"partial marks partially paid", InvoiceStatusSent, partiallyPaid, InvoiceStatusPartiallyPaid, true},
		{"partial overrides draft", InvoiceStatusDraft, partiallyPaid, InvoiceStatusPartiallyPaid, true},
		{"no payments preserves draft", InvoiceStatusDraft, unpaid, InvoiceStatusDraft, false},
		{"no payments preserves overdue", InvoiceStatusOverdue, unpaid, InvoiceStatusOverdue, false},
		{"no payments resets partially paid to sent", InvoiceStatusPartiallyPaid, unpaid, InvoiceStatusSent, true},
		{"no payments resets paid to sent", InvoiceStatusPaid, unpaid, InvoiceStatusSent, true},
		{"steady-state partial reports no change", InvoiceStatusPartiallyPaid, partiallyPaid, InvoiceStatusPartiallyPaid, false},
		{"steady-state paid reports no change", InvoiceStatusPaid, fullyPaid, InvoiceStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := makeInvoice(t, 1000.00)
			inv.Status = tt.current

			changed := inv.ApplyPaymentState(tt.summary)

			assert.Equal(t, tt.wantStatus, inv.Status)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}

	t.Run("unchanged status does not bump version", func(t *testing.T) {
		inv := makeInvoice(t, 1000.00)
		inv.Status = InvoiceStatusSent
		before := inv.GetVersion()

		changed := inv.ApplyPaymentState(unpaid)

		assert.False(t, changed)
		assert.Equal(t, before, inv.GetVersion())
	})

	t.Run("sets paid timestamp once", func(t *testing.T) {
		inv := makeInvoice(t, 1000.00)
		inv.Status = InvoiceStatusSent

		inv.ApplyPaymentState(fullyPaid)
		require.NotNil(t, inv.PaidAt)
		first := *inv.PaidAt

		inv.Status = InvoiceStatusPartiallyPaid
		inv.ApplyPaymentState(fullyPaid)
		assert.Equal(t, first, *inv.PaidAt)
	})
}

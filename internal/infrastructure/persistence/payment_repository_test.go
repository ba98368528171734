package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared"
)

func TestGormPaymentRepository_FindCompletedByEntity(t *testing.T) {
	t.Run("returns completed payments ordered by payment date", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(gormDB)

		companyID := uuid.New()
		invoiceID := uuid.New()
		newer := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		older := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "company_id", "entity_type", "entity_id", "amount", "currency", "method", "status", "payment_date"}).
			AddRow(uuid.New(), companyID, "invoice", invoiceID, decimal.RequireFromString("1500.00"), "USD", "check", "completed", newer).
			AddRow(uuid.New(), companyID, "invoice", invoiceID, decimal.RequireFromString("1000.00"), "USD", "ach", "completed", older)

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE company_id = \$1 AND entity_type = \$2 AND entity_id = \$3 AND status = \$4 ORDER BY payment_date DESC, created_at ASC`).
			WithArgs(companyID, billing.EntityTypeInvoice, invoiceID, billing.PaymentStatusCompleted).
			WillReturnRows(rows)

		payments, err := repo.FindCompletedByEntity(context.Background(), companyID, billing.EntityTypeInvoice, invoiceID)

		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "1500.00", payments[0].Amount.StringFixed(2))
		assert.Equal(t, "1000.00", payments[1].Amount.StringFixed(2))
		assert.True(t, payments[0].PaymentDate.After(payments[1].PaymentDate))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when no payments exist", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(gormDB)

		companyID := uuid.New()
		billID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		payments, err := repo.FindCompletedByEntity(context.Background(), companyID, billing.EntityTypeBill, billID)

		require.NoError(t, err)
		assert.Empty(t, payments)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_FindByProviderTransaction(t *testing.T) {
	t.Run("finds payment by gateway provenance", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(gormDB)

		paymentID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "company_id", "entity_type", "entity_id", "amount", "currency", "method", "status", "payment_date", "provider", "provider_transaction_id"}).
			AddRow(paymentID, uuid.New(), "invoice", uuid.New(), decimal.RequireFromString("500.00"), "USD", "credit_card", "completed", time.Now(), "cardpoint", "txn_abc123")

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE provider = \$1 AND provider_transaction_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("cardpoint", "txn_abc123", 1).
			WillReturnRows(rows)

		payment, err := repo.FindByProviderTransaction(context.Background(), "cardpoint", "txn_abc123")

		require.NoError(t, err)
		assert.Equal(t, paymentID, payment.ID)
		assert.Equal(t, "cardpoint", payment.Provider)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE provider = \$1 AND provider_transaction_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("cardpoint", "txn_missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		payment, err := repo.FindByProviderTransaction(context.Background(), "cardpoint", "txn_missing")

		assert.Nil(t, payment)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

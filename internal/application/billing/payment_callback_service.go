package billing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
	"github.com/buildpay/backend/internal/infrastructure/telemetry"
)

// callbackDedupTTL bounds how long processed webhook event IDs are
// remembered. Providers stop redelivering well within this window.
const callbackDedupTTL = 72 * time.Hour

// PaymentCallbackService turns verified provider webhooks into recorded
// payments. Redeliveries are absorbed by the idempotency store plus a
// transaction-ID lookup, so a provider retrying a webhook never records
// the same payment twice.
type PaymentCallbackService struct {
	registry    billing.GatewayRegistry
	paymentRepo billing.PaymentRepository
	recorder    *PaymentRecorderService
	idempotency IdempotencyStore
	logger      *zap.Logger
}

// NewPaymentCallbackService creates a new PaymentCallbackService
func NewPaymentCallbackService(
	registry billing.GatewayRegistry,
	paymentRepo billing.PaymentRepository,
	recorder *PaymentRecorderService,
	idempotency IdempotencyStore,
	logger *zap.Logger,
) *PaymentCallbackService {
	return &PaymentCallbackService{
		registry:    registry,
		paymentRepo: paymentRepo,
		recorder:    recorder,
		idempotency: idempotency,
		logger:      logger,
	}
}

// CallbackResult tells the webhook handler how the callback was handled
type CallbackResult struct {
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate"`
	Reason    string `json:"reason,omitempty"`
}

// HandleCallback verifies, deduplicates, and records a provider webhook.
// Signature failures and unknown providers are errors; non-terminal
// payment statuses are acknowledged without recording anything.
func (s *PaymentCallbackService) HandleCallback(
	ctx context.Context,
	provider string,
	payload []byte,
	signature string,
) (*CallbackResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_callback", "handle")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrProvider, provider)

	gateway, ok := s.registry.Get(provider)
	if !ok {
		err := shared.NewDomainError("UNSUPPORTED_PROVIDER", fmt.Sprintf("Unknown payment provider: %s", provider))
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := gateway.VerifyCallback(payload, signature); err != nil {
		s.logger.Warn("Payment callback signature verification failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, shared.NewDomainError("INVALID_SIGNATURE", "Callback signature verification failed")
	}

	notification, err := gateway.ParseCallback(payload)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to parse callback: %w", err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntityType, string(notification.EntityType),
		telemetry.SpanAttrAmount, notification.Amount.StringFixed(2),
	)

	if notification.Status != billing.PaymentStatusCompleted {
		s.logger.Info("Ignoring non-completed payment callback",
			zap.String("provider", provider),
			zap.String("event_id", notification.EventID),
			zap.String("status", string(notification.Status)),
		)
		return &CallbackResult{Processed: false, Reason: "non-terminal status"}, nil
	}

	if currency := notification.Amount.Currency(); currency != valueobject.DefaultCurrency {
		err := shared.NewDomainError("INVALID_CURRENCY",
			fmt.Sprintf("Callback currency %s is not supported, expected %s", currency, valueobject.DefaultCurrency))
		telemetry.RecordError(span, err)
		return nil, err
	}

	dedupKey := fmt.Sprintf("payment_callback:%s:%s", provider, notification.EventID)
	claimed := false
	fresh, err := s.idempotency.MarkProcessed(ctx, dedupKey, callbackDedupTTL)
	if err != nil {
		// Fall through to the transaction-ID check rather than dropping
		// the callback when the dedup store is unreachable.
		s.logger.Warn("Idempotency store unavailable, relying on transaction lookup",
			zap.String("provider", provider),
			zap.Error(err),
		)
	} else if !fresh {
		s.logger.Info("Duplicate payment callback ignored",
			zap.String("provider", provider),
			zap.String("event_id", notification.EventID),
		)
		return &CallbackResult{Processed: false, Duplicate: true}, nil
	} else {
		claimed = true
	}

	if existing, err := s.paymentRepo.FindByProviderTransaction(ctx, provider, notification.TransactionID); err == nil && existing != nil {
		s.logger.Info("Payment already recorded for transaction",
			zap.String("provider", provider),
			zap.String("transaction_id", notification.TransactionID),
		)
		return &CallbackResult{Processed: false, Duplicate: true}, nil
	}

	req := RecordPaymentRequest{
		CompanyID:     notification.CompanyID,
		EntityType:    notification.EntityType,
		EntityID:      notification.EntityID,
		Amount:        notification.Amount.Amount().String(),
		Method:        notification.Method,
		PaymentDate:   notification.PaidAt,
		Provider:      provider,
		TransactionID: notification.TransactionID,
	}

	switch notification.EntityType {
	case billing.EntityTypeInvoice:
		_, err = s.recorder.RecordInvoicePayment(ctx, req)
	case billing.EntityTypeBill:
		_, err = s.recorder.RecordBillPayment(ctx, req)
	default:
		err = shared.NewDomainError("INVALID_ENTITY_TYPE", "Callback references an unknown entity type")
	}
	if err != nil {
		// Give the claim back so the provider's retry of this delivery
		// is not swallowed as a duplicate of a payment we never stored.
		if claimed {
			if relErr := s.idempotency.Release(ctx, dedupKey); relErr != nil {
				s.logger.Warn("Failed to release idempotency claim after recording failure",
					zap.String("provider", provider),
					zap.String("event_id", notification.EventID),
					zap.Error(relErr),
				)
			}
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record callback payment: %w", err)
	}

	s.logger.Info("Payment callback processed",
		zap.String("provider", provider),
		zap.String("event_id", notification.EventID),
		zap.String("transaction_id", notification.TransactionID),
		zap.String("amount", notification.Amount.StringFixed(2)),
	)

	return &CallbackResult{Processed: true}, nil
}

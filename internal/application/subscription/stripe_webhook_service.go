package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/identity"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/infrastructure/config"
)

// StripeWebhookService maintains a company's subscription record from
// Stripe webhook events. Unknown customers are acknowledged without error
// so Stripe does not retry events for companies outside our system.
type StripeWebhookService struct {
	webhookSecret string
	companyRepo   identity.CompanyRepository
	logger        *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg config.StripeConfig, companyRepo identity.CompanyRepository, logger *zap.Logger) *StripeWebhookService {
	return &StripeWebhookService{
		webhookSecret: cfg.WebhookSecret,
		companyRepo:   companyRepo,
		logger:        logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the event signature and dispatches by event type
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		err = s.handleSubscriptionChanged(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	case "invoice.paid":
		err = s.handleInvoicePaid(ctx, event)
	case "invoice.payment_failed":
		err = s.handleInvoicePaymentFailed(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// handleSubscriptionChanged handles customer.subscription.created and
// customer.subscription.updated events
func (s *StripeWebhookService) handleSubscriptionChanged(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Subscription has no customer ID, skipping",
			zap.String("subscription_id", sub.ID))
		return nil
	}

	company, err := s.findCompany(ctx, customerID)
	if err != nil || company == nil {
		return err
	}

	plan := company.SubscriptionPlan
	if planID, ok := sub.Metadata["plan_id"]; ok {
		plan = planID
	}

	company.UpdateSubscription(customerID, sub.ID, plan, mapSubscriptionStatus(sub.Status))

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}

	s.logger.Info("Subscription state updated",
		zap.String("company_id", company.ID.String()),
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(company.SubscriptionStatus)))

	return nil
}

// handleSubscriptionDeleted handles customer.subscription.deleted events
func (s *StripeWebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Subscription has no customer ID, skipping",
			zap.String("subscription_id", sub.ID))
		return nil
	}

	company, err := s.findCompany(ctx, customerID)
	if err != nil || company == nil {
		return err
	}

	company.CancelSubscription()

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}

	s.logger.Info("Subscription canceled",
		zap.String("company_id", company.ID.String()),
		zap.String("subscription_id", sub.ID))

	return nil
}

// handleInvoicePaid handles invoice.paid events for subscription renewals
func (s *StripeWebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Invoice has no customer ID, skipping",
			zap.String("invoice_id", invoice.ID))
		return nil
	}

	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	company, err := s.findCompany(ctx, customerID)
	if err != nil || company == nil {
		return err
	}

	if !company.HasActiveSubscription() {
		company.MarkSubscriptionActive()
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}

	s.logger.Info("Subscription invoice paid",
		zap.String("company_id", company.ID.String()),
		zap.String("invoice_id", invoice.ID))

	return nil
}

// handleInvoicePaymentFailed handles invoice.payment_failed events
func (s *StripeWebhookService) handleInvoicePaymentFailed(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Invoice has no customer ID, skipping",
			zap.String("invoice_id", invoice.ID))
		return nil
	}

	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	company, err := s.findCompany(ctx, customerID)
	if err != nil || company == nil {
		return err
	}

	company.MarkSubscriptionPastDue()

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}

	s.logger.Warn("Subscription payment failed",
		zap.String("company_id", company.ID.String()),
		zap.String("invoice_id", invoice.ID))

	return nil
}

// findCompany looks up a company by Stripe customer ID. Not-found is
// swallowed: webhooks may arrive before company setup completes, and we
// acknowledge receipt to stop Stripe retries.
func (s *StripeWebhookService) findCompany(ctx context.Context, customerID string) (*identity.Company, error) {
	company, err := s.companyRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Company not found for Stripe customer",
				zap.String("customer_id", customerID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return company, nil
}

func mapSubscriptionStatus(status stripe.SubscriptionStatus) identity.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return identity.SubscriptionStatusActive
	case stripe.SubscriptionStatusTrialing:
		return identity.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return identity.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return identity.SubscriptionStatusCanceled
	default:
		return identity.SubscriptionStatusNone
	}
}

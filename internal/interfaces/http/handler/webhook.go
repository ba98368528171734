package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/application/subscription"
	"github.com/buildpay/backend/internal/interfaces/http/dto"
	"github.com/buildpay/backend/internal/interfaces/http/middleware"
)

// maxWebhookBody caps webhook payload size at 1 MiB
const maxWebhookBody = 1 << 20

// WebhookHandler handles inbound payment provider and Stripe webhooks.
// These routes are unauthenticated; each payload is verified against
// the provider's signing secret instead.
type WebhookHandler struct {
	BaseHandler
	callbackService *appbilling.PaymentCallbackService
	stripeService   *subscription.StripeWebhookService
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(
	callbackService *appbilling.PaymentCallbackService,
	stripeService *subscription.StripeWebhookService,
) *WebhookHandler {
	return &WebhookHandler{
		callbackService: callbackService,
		stripeService:   stripeService,
	}
}

// PaymentCallback processes a payment provider notification
// POST /api/v1/webhooks/payments/:provider
func (h *WebhookHandler) PaymentCallback(c *gin.Context) {
	provider := c.Param("provider")

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponse("INVALID_SIGNATURE", "missing signature header", middleware.GetRequestID(c)))
		return
	}

	result, err := h.callbackService.HandleCallback(c.Request.Context(), provider, payload, signature)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// StripeWebhook processes a Stripe subscription event
// POST /api/v1/webhooks/stripe
func (h *WebhookHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponse("INVALID_SIGNATURE", "missing Stripe-Signature header", middleware.GetRequestID(c)))
		return
	}

	result, err := h.stripeService.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

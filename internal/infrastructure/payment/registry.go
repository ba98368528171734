package payment

import (
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/infrastructure/config"
)

// Registry holds the configured payment gateways and routes payment
// methods to the provider that handles them.
type Registry struct {
	gateways map[string]billing.PaymentGateway
	byMethod map[billing.PaymentMethod]billing.PaymentGateway
}

// NewRegistry builds a gateway registry from the payment configuration.
// Disabled providers are left out, so lookups for them fail cleanly.
func NewRegistry(cfg config.PaymentConfig, logger *zap.Logger) *Registry {
	r := &Registry{
		gateways: make(map[string]billing.PaymentGateway),
		byMethod: make(map[billing.PaymentMethod]billing.PaymentGateway),
	}

	if cfg.Cardpoint.Enabled {
		cardpoint := NewCardpointAdapter(cfg.Cardpoint, logger)
		r.register(cardpoint, billing.PaymentMethodCreditCard)
	}
	if cfg.Checkflow.Enabled {
		checkflow := NewCheckflowAdapter(cfg.Checkflow, logger)
		r.register(checkflow, billing.PaymentMethodACH, billing.PaymentMethodCheck, billing.PaymentMethodBankTransfer)
	}

	return r
}

func (r *Registry) register(gateway billing.PaymentGateway, methods ...billing.PaymentMethod) {
	r.gateways[gateway.Name()] = gateway
	for _, method := range methods {
		r.byMethod[method] = gateway
	}
}

// Get resolves a gateway by provider name
func (r *Registry) Get(provider string) (billing.PaymentGateway, bool) {
	gateway, ok := r.gateways[provider]
	return gateway, ok
}

// ForMethod resolves the gateway that collects a given payment method
func (r *Registry) ForMethod(method billing.PaymentMethod) (billing.PaymentGateway, bool) {
	gateway, ok := r.byMethod[method]
	return gateway, ok
}

// Ensure Registry implements GatewayRegistry
var _ billing.GatewayRegistry = (*Registry)(nil)

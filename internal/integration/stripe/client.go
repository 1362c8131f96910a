package stripe

import (
	"github.com/salmanahmad08/payment-service/internal/config"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// Provider implements integration.PaymentProvider against the Stripe API.
// It is constructed once with its credentials and injected wherever needed.
type Provider struct {
	client *stripe.Client
	cfg    config.StripeConfig
	logger *logger.Logger
}

var _ integration.PaymentProvider = (*Provider)(nil)

// NewProvider creates a new Stripe-backed payment provider
func NewProvider(cfg *config.Configuration, logger *logger.Logger) *Provider {
	return &Provider{
		client: stripe.NewClient(cfg.Stripe.SecretKey, nil),
		cfg:    cfg.Stripe,
		logger: logger,
	}
}

// Name returns the provider identifier recorded on ledger rows
func (p *Provider) Name() types.PaymentProvider {
	return types.PaymentProviderStripe
}

// rawResponse extracts the raw response body kept as the audit snapshot
func rawResponse(resp *stripe.APIResponse) []byte {
	if resp == nil {
		return nil
	}
	return resp.RawJSON
}

// errorMessage pulls the human-readable message out of a Stripe API error
func errorMessage(err error) string {
	if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}

package testutil

import (
	"context"
	"sync"

	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/types"
)

// MockPaymentProvider implements integration.PaymentProvider with scripted
// results. Each call path has a result slot, an error slot and a counter;
// tests assert on the counters to prove the provider was or was not reached.
type MockPaymentProvider struct {
	mu sync.Mutex

	ChargeResult       *integration.ChargeResult
	ChargeErr          error
	RefundResult       *integration.RefundResult
	RefundErr          error
	SubscriptionResult *integration.SubscriptionResult
	SubscriptionErr    error
	ParsedEvent        *integration.WebhookEvent
	ParseErr           error

	ChargeCalls       int
	RefundCalls       int
	SubscriptionCalls int
	ParseCalls        int

	// LastChargeParams captures the params of the most recent charge call
	LastChargeParams integration.ChargeParams
	// LastRefundParams captures the params of the most recent refund call
	LastRefundParams integration.RefundParams
	// LastSubscriptionParams captures the params of the most recent subscribe call
	LastSubscriptionParams integration.SubscriptionParams

	// OnCharge runs during CreateCharge before the scripted result is
	// returned. Tests use it to interleave competing writes.
	OnCharge func(ctx context.Context)
}

// NewMockPaymentProvider creates a provider whose calls fail until scripted
func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) Name() types.PaymentProvider {
	return types.PaymentProviderStripe
}

func (m *MockPaymentProvider) CreateCharge(ctx context.Context, params integration.ChargeParams) (*integration.ChargeResult, error) {
	m.mu.Lock()
	m.ChargeCalls++
	m.LastChargeParams = params
	hook := m.OnCharge
	m.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if m.ChargeErr != nil {
		return nil, m.ChargeErr
	}
	if m.ChargeResult == nil {
		return nil, m.unscripted("charge")
	}
	return m.ChargeResult, nil
}

func (m *MockPaymentProvider) RefundCharge(ctx context.Context, params integration.RefundParams) (*integration.RefundResult, error) {
	m.mu.Lock()
	m.RefundCalls++
	m.LastRefundParams = params
	m.mu.Unlock()

	if m.RefundErr != nil {
		return nil, m.RefundErr
	}
	if m.RefundResult == nil {
		return nil, m.unscripted("refund")
	}
	return m.RefundResult, nil
}

func (m *MockPaymentProvider) CreateSubscription(ctx context.Context, params integration.SubscriptionParams) (*integration.SubscriptionResult, error) {
	m.mu.Lock()
	m.SubscriptionCalls++
	m.LastSubscriptionParams = params
	m.mu.Unlock()

	if m.SubscriptionErr != nil {
		return nil, m.SubscriptionErr
	}
	if m.SubscriptionResult == nil {
		return nil, m.unscripted("subscription")
	}
	return m.SubscriptionResult, nil
}

func (m *MockPaymentProvider) ParseWebhookEvent(payload []byte, signature string) (*integration.WebhookEvent, error) {
	m.mu.Lock()
	m.ParseCalls++
	m.mu.Unlock()

	if m.ParseErr != nil {
		return nil, m.ParseErr
	}
	if m.ParsedEvent == nil {
		return nil, m.unscripted("webhook parse")
	}
	return m.ParsedEvent, nil
}

func (m *MockPaymentProvider) unscripted(call string) error {
	return ierr.NewError("no scripted result for " + call).
		WithHint("Script the mock provider before exercising this path").
		Mark(ierr.ErrProvider)
}

package idempotency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyIsDeterministic(t *testing.T) {
	g := NewGenerator()

	a := g.GenerateKey(ScopeInvoicePlaceholder, map[string]interface{}{
		"invoice_id": "in_123",
	})
	b := g.GenerateKey(ScopeInvoicePlaceholder, map[string]interface{}{
		"invoice_id": "in_123",
	})
	assert.Equal(t, a, b)
	assert.Contains(t, a, string(ScopeInvoicePlaceholder))

	// Param order must not matter.
	c := g.GenerateKey(ScopeFailedInvoice, map[string]interface{}{
		"payment_intent_id": "pi_1",
		"subscription_id":   "sub_1",
	})
	d := g.GenerateKey(ScopeFailedInvoice, map[string]interface{}{
		"subscription_id":   "sub_1",
		"payment_intent_id": "pi_1",
	})
	assert.Equal(t, c, d)
}

func TestGenerateKeySeparatesScopesAndParams(t *testing.T) {
	g := NewGenerator()
	params := map[string]interface{}{"invoice_id": "in_123"}

	assert.NotEqual(t,
		g.GenerateKey(ScopeInvoicePlaceholder, params),
		g.GenerateKey(ScopeFailedInvoice, params))

	assert.NotEqual(t,
		g.GenerateKey(ScopeInvoicePlaceholder, map[string]interface{}{"invoice_id": "in_123"}),
		g.GenerateKey(ScopeInvoicePlaceholder, map[string]interface{}{"invoice_id": "in_456"}))
}

func TestValidateKey(t *testing.T) {
	g := NewGenerator()
	params := map[string]interface{}{"invoice_id": "in_123"}
	key := g.GenerateKey(ScopeInvoicePlaceholder, params)

	assert.True(t, g.ValidateKey(ScopeInvoicePlaceholder, params, key))
	assert.False(t, g.ValidateKey(ScopeFailedInvoice, params, key))
	assert.False(t, g.ValidateKey(ScopeInvoicePlaceholder, map[string]interface{}{"invoice_id": "in_456"}, key))
}

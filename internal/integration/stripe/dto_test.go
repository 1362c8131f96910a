package stripe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscriptionPayloadPlanAmount(t *testing.T) {
	var p subscriptionPayload
	require.NoError(t, decodeJSON([]byte(`{
		"id": "sub_plan",
		"currency": "usd",
		"plan": {"amount": 999, "currency": "usd"}
	}`), &p))
	amount, currency := p.planAmount()
	require.Equal(t, int64(999), amount)
	require.Equal(t, "usd", currency)

	// Without a plan object the price on the first item applies.
	p = subscriptionPayload{}
	require.NoError(t, decodeJSON([]byte(`{
		"id": "sub_items",
		"currency": "eur",
		"items": {"data": [{"price": {"unit_amount": 2500, "currency": "eur"}}]}
	}`), &p))
	amount, currency = p.planAmount()
	require.Equal(t, int64(2500), amount)
	require.Equal(t, "eur", currency)

	// Nothing priced: amount is unknown and reported as zero.
	p = subscriptionPayload{}
	require.NoError(t, decodeJSON([]byte(`{"id": "sub_bare", "currency": "usd"}`), &p))
	amount, _ = p.planAmount()
	require.Equal(t, int64(0), amount)
}

package stripe

import (
	"encoding/json"
	"time"
)

// subscriptionPayload is the subset of a Stripe subscription object the ledger
// cares about, decoded from the raw payload of API responses and webhook
// events alike.
type subscriptionPayload struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	BillingCycleAnchor int64  `json:"billing_cycle_anchor"`
	LatestInvoice      idRef  `json:"latest_invoice"`
	Currency           string `json:"currency"`
	Plan               struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"plan"`
	Items struct {
		Data []struct {
			Price struct {
				UnitAmount int64  `json:"unit_amount"`
				Currency   string `json:"currency"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// periodStart returns the current period start, or nil if absent
func (p subscriptionPayload) periodStart() *time.Time {
	return unixPtr(p.CurrentPeriodStart)
}

// periodEnd returns the current period end, falling back to the billing cycle
// anchor when the provider omits it. Nil means neither was present.
func (p subscriptionPayload) periodEnd() *time.Time {
	if ts := unixPtr(p.CurrentPeriodEnd); ts != nil {
		return ts
	}
	return unixPtr(p.BillingCycleAnchor)
}

// planAmount returns the first billing amount the payload carries, in minor
// units, with its currency. Zero when the provider did not echo one.
func (p subscriptionPayload) planAmount() (int64, string) {
	if p.Plan.Amount > 0 {
		currency := p.Plan.Currency
		if currency == "" {
			currency = p.Currency
		}
		return p.Plan.Amount, currency
	}
	if len(p.Items.Data) > 0 && p.Items.Data[0].Price.UnitAmount > 0 {
		currency := p.Items.Data[0].Price.Currency
		if currency == "" {
			currency = p.Currency
		}
		return p.Items.Data[0].Price.UnitAmount, currency
	}
	return 0, p.Currency
}

// invoicePayload is the subset of a Stripe invoice object carried by
// invoice.* webhook events.
type invoicePayload struct {
	Subscription  idRef  `json:"subscription"`
	PaymentIntent idRef  `json:"payment_intent"`
	AmountDue     int64  `json:"amount_due"`
	Currency      string `json:"currency"`
}

// idRef decodes a provider reference that arrives either as a bare id string
// or as an expanded object with an id field.
type idRef string

func (r *idRef) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*r = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = idRef(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*r = idRef(obj.ID)
	return nil
}

func (r idRef) String() string {
	return string(r)
}

func unixPtr(v int64) *time.Time {
	if v == 0 {
		return nil
	}
	t := time.Unix(v, 0).UTC()
	return &t
}

func decodeJSON(raw []byte, dst any) error {
	return json.Unmarshal(raw, dst)
}

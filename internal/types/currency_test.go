package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayAmount(t *testing.T) {
	assert.Equal(t, "50", DisplayAmount(5000, "usd").String())
	assert.Equal(t, "19.99", DisplayAmount(1999, "usd").String())
	assert.Equal(t, "0.01", DisplayAmount(1, "eur").String())

	// Zero-decimal currencies have no minor unit to divide by.
	assert.Equal(t, "5000", DisplayAmount(5000, "jpy").String())
	assert.Equal(t, "1200", DisplayAmount(1200, "krw").String())
}

func TestIsMatchingCurrency(t *testing.T) {
	assert.True(t, IsMatchingCurrency("USD", "usd"))
	assert.True(t, IsMatchingCurrency("eur", "EUR"))
	assert.False(t, IsMatchingCurrency("usd", "eur"))
}

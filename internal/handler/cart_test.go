package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/santhokumarp/salonhub/internal/repository"
)

func TestCartTotalsMatchCheckoutBilling(t *testing.T) {
	lines := []repository.CartLine{
		{ServiceID: 1, ServiceName: "Haircut", PricePaise: 50000, DurationMin: 30, Quantity: 2},
		{ServiceID: 2, ServiceName: "Shave", PricePaise: 10000, DurationMin: 15, Quantity: 1},
	}
	totals := cartTotals(lines, 18)
	assert.Equal(t, int64(110000), totals.BasePaise)
	assert.Equal(t, 18, totals.TaxPercent)
	assert.Equal(t, int64(19800), totals.TaxPaise)
	assert.Equal(t, int64(129800), totals.GrandPaise)
}

func TestCartTotalsEmptyCart(t *testing.T) {
	totals := cartTotals(nil, 18)
	assert.Zero(t, totals.BasePaise)
	assert.Zero(t, totals.TaxPaise)
	assert.Zero(t, totals.GrandPaise)
}

package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/santhokumarp/salonhub/internal/model"
)

func TestComputeTotals(t *testing.T) {
	lines := []model.BookingLine{
		{ServiceName: "Haircut", PricePaise: 50000, DurationMin: 30, Quantity: 1},
		{ServiceName: "Beard Trim", PricePaise: 30000, DurationMin: 15, Quantity: 2},
	}
	totals := ComputeTotals(lines, 18)
	assert.Equal(t, int64(110000), totals.BasePaise)
	assert.Equal(t, int64(19800), totals.TaxPaise)
	assert.Equal(t, int64(129800), totals.GrandPaise)
	assert.Equal(t, 18, totals.TaxPercent)
}

func TestComputeTotalsZeroTax(t *testing.T) {
	lines := []model.BookingLine{{PricePaise: 25000, Quantity: 1}}
	totals := ComputeTotals(lines, 0)
	assert.Equal(t, int64(25000), totals.BasePaise)
	assert.Equal(t, int64(0), totals.TaxPaise)
	assert.Equal(t, int64(25000), totals.GrandPaise)
}

func TestComputeTotalsTruncatesTax(t *testing.T) {
	// 333 * 18 / 100 = 59.94, stored as 59 paise.
	lines := []model.BookingLine{{PricePaise: 333, Quantity: 1}}
	totals := ComputeTotals(lines, 18)
	assert.Equal(t, int64(59), totals.TaxPaise)
	assert.Equal(t, int64(392), totals.GrandPaise)
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil, 18)
	assert.Equal(t, int64(0), totals.BasePaise)
	assert.Equal(t, int64(0), totals.GrandPaise)
}

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldServicesCollapsesDuplicates(t *testing.T) {
	ids, quantities := foldServices([]checkoutService{
		{ServiceID: 3, Quantity: 2},
		{ServiceID: 5},
		{ServiceID: 3, Quantity: 1},
	})
	assert.Equal(t, []uint64{3, 5}, ids)
	assert.Equal(t, 3, quantities[3])
	assert.Equal(t, 1, quantities[5], "missing quantity counts as one")
}

func TestFoldServicesDropsZeroIDsAndClampsQuantity(t *testing.T) {
	ids, quantities := foldServices([]checkoutService{
		{ServiceID: 0, Quantity: 4},
		{ServiceID: 9, Quantity: -2},
	})
	assert.Equal(t, []uint64{9}, ids)
	assert.Equal(t, 1, quantities[9])
}

func TestFoldServicesEmptyMeansCart(t *testing.T) {
	ids, _ := foldServices(nil)
	assert.Empty(t, ids)
}

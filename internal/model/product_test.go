package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryAllocate(t *testing.T) {
	inv := SampleInventory()

	keys, err := inv.Allocate("key_1day", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1D-AAAA-0001", "1D-AAAA-0002"}, keys)
	assert.Equal(t, []string{"1D-AAAA-0003"}, inv["key_1day"].Keys)

	keys, err = inv.Allocate("key_1day", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"1D-AAAA-0003"}, keys)
	assert.Equal(t, 0, inv["key_1day"].Stock())
}

func TestInventoryAllocateFailuresLeaveStockUntouched(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		qty       int
		wantErr   error
	}{
		{name: "insufficient stock", productID: "key_lifetime", qty: 2, wantErr: ErrInsufficientStock},
		{name: "unknown product", productID: "key_forever", qty: 1, wantErr: ErrUnknownProduct},
		{name: "zero qty", productID: "key_3day", qty: 0, wantErr: ErrValidation},
		{name: "negative qty", productID: "key_3day", qty: -1, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := SampleInventory()
			before := SampleInventory()

			keys, err := inv.Allocate(tt.productID, tt.qty)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, keys)
			assert.Equal(t, before, inv)
		})
	}
}

func TestInventoryAllocatedKeysDoNotAlias(t *testing.T) {
	inv := SampleInventory()

	keys, err := inv.Allocate("key_3day", 1)
	require.NoError(t, err)

	keys[0] = "mutated"
	assert.Equal(t, []string{"3D-BBBB-1002"}, inv["key_3day"].Keys)
}

func TestInventoryRestore(t *testing.T) {
	inv := SampleInventory()

	keys, err := inv.Allocate("key_1day", 2)
	require.NoError(t, err)

	require.NoError(t, inv.Restore("key_1day", keys))
	assert.Equal(t, SampleInventory()["key_1day"].Keys, inv["key_1day"].Keys)

	assert.ErrorIs(t, inv.Restore("missing", keys), ErrUnknownProduct)
}

func TestInventorySorted(t *testing.T) {
	products := SampleInventory().Sorted()

	require.Len(t, products, 3)
	assert.Equal(t, "key_1day", products[0].ID)
	assert.Equal(t, "key_3day", products[1].ID)
	assert.Equal(t, "key_lifetime", products[2].ID)
}

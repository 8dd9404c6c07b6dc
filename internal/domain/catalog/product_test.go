package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates a product with defaults", func(t *testing.T) {
		product, err := NewProduct("WIDGET-001", "Widget", "")
		require.NoError(t, err)
		assert.Equal(t, "WIDGET-001", product.SKU)
		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, "unit", product.Unit)
		assert.True(t, product.Cost.IsZero())
		assert.True(t, product.ReorderLevel.IsZero())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewProduct("", "Widget", "pcs")
		assert.Error(t, err)
		_, err = NewProduct("WIDGET-001", "", "pcs")
		assert.Error(t, err)
	})
}

func TestProduct_SetPricing(t *testing.T) {
	product, err := NewProduct("WIDGET-001", "Widget", "pcs")
	require.NoError(t, err)

	t.Run("sets cost and price", func(t *testing.T) {
		err := product.SetPricing(decimal.NewFromFloat(2.5), decimal.NewFromFloat(4.0))
		require.NoError(t, err)
		assert.True(t, product.Cost.Equal(decimal.NewFromFloat(2.5)))
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(4.0)))
	})

	t.Run("rejects negative values", func(t *testing.T) {
		assert.Error(t, product.SetPricing(decimal.NewFromInt(-1), decimal.Zero))
		assert.Error(t, product.SetPricing(decimal.Zero, decimal.NewFromInt(-1)))
	})
}

func TestProduct_ReorderLevel(t *testing.T) {
	product, err := NewProduct("WIDGET-001", "Widget", "pcs")
	require.NoError(t, err)

	t.Run("zero level never triggers", func(t *testing.T) {
		assert.False(t, product.IsBelowReorderLevel(decimal.Zero))
		assert.False(t, product.IsBelowReorderLevel(decimal.NewFromInt(-5)))
	})

	t.Run("triggers strictly below the level", func(t *testing.T) {
		require.NoError(t, product.SetReorderLevel(decimal.NewFromInt(10)))
		assert.True(t, product.IsBelowReorderLevel(decimal.NewFromInt(9)))
		assert.True(t, product.IsBelowReorderLevel(decimal.NewFromInt(3)))
		assert.False(t, product.IsBelowReorderLevel(decimal.NewFromInt(10)))
		assert.False(t, product.IsBelowReorderLevel(decimal.NewFromInt(11)))
	})

	t.Run("rejects negative level", func(t *testing.T) {
		assert.Error(t, product.SetReorderLevel(decimal.NewFromInt(-1)))
	})
}

func TestProduct_Rename(t *testing.T) {
	product, err := NewProduct("WIDGET-001", "Widget", "pcs")
	require.NoError(t, err)

	require.NoError(t, product.Rename("Widget v2"))
	assert.Equal(t, "Widget v2", product.Name)
	assert.Error(t, product.Rename(""))
}

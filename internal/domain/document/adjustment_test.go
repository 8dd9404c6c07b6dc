package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse/backend/internal/domain/inventory"
)

func createTestAdjustment(t *testing.T) *Adjustment {
	adjustment, err := NewAdjustment("WH/ADJ/0001", uuid.New(), "cycle count")
	require.NoError(t, err)
	return adjustment
}

func TestNewAdjustment(t *testing.T) {
	t.Run("creates a draft adjustment", func(t *testing.T) {
		locationID := uuid.New()
		adjustment, err := NewAdjustment("WH/ADJ/0001", locationID, "cycle count")
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, adjustment.Status)
		assert.Equal(t, locationID, adjustment.LocationID)
		assert.Equal(t, "cycle count", adjustment.Reason)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewAdjustment("", uuid.New(), "cycle count")
		assert.Error(t, err)
		_, err = NewAdjustment("WH/ADJ/0001", uuid.Nil, "cycle count")
		assert.Error(t, err)
	})
}

func TestAdjustment_AddLine(t *testing.T) {
	t.Run("counted zero is a valid count", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		err := adjustment.AddLine(uuid.New(), decimal.Zero, decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, adjustment.Lines[0].Delta().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("rejects negative counted quantity", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		err := adjustment.AddLine(uuid.New(), decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects a second line for the same product", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		productID := uuid.New()
		require.NoError(t, adjustment.AddLine(productID, decimal.NewFromInt(5), decimal.NewFromInt(5)))
		err := adjustment.AddLine(productID, decimal.NewFromInt(6), decimal.NewFromInt(5))
		assert.Error(t, err)
	})
}

func TestAdjustment_Lifecycle(t *testing.T) {
	t.Run("done requires at least one line", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		assert.Error(t, adjustment.MarkDone())
	})

	t.Run("draft straight to done", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		require.NoError(t, adjustment.AddLine(uuid.New(), decimal.NewFromInt(22), decimal.NewFromInt(25)))

		require.NoError(t, adjustment.MarkDone())
		assert.Equal(t, StatusDone, adjustment.Status)
		require.NotNil(t, adjustment.DoneAt)
	})

	t.Run("done is terminal", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		require.NoError(t, adjustment.AddLine(uuid.New(), decimal.NewFromInt(22), decimal.NewFromInt(25)))
		require.NoError(t, adjustment.MarkDone())

		assert.Error(t, adjustment.MarkDone())
		assert.Error(t, adjustment.Cancel("too late"))
		assert.Error(t, adjustment.UpdateLine(adjustment.Lines[0].ID, decimal.NewFromInt(1)))
	})

	t.Run("cancel from draft", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		require.NoError(t, adjustment.Cancel("count discarded"))
		assert.Equal(t, StatusCancelled, adjustment.Status)
	})
}

func TestAdjustment_EffectLines(t *testing.T) {
	t.Run("delta is counted minus current", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		// Counted 22 against a system quantity of 25
		require.NoError(t, adjustment.AddLine(uuid.New(), decimal.NewFromInt(22), decimal.NewFromInt(25)))

		effects, err := adjustment.EffectLines()
		require.NoError(t, err)
		require.Len(t, effects, 1)
		assert.True(t, effects[0].Delta.Equal(decimal.NewFromInt(-3)))
		assert.Equal(t, adjustment.LocationID, effects[0].LocationID)
		assert.Equal(t, inventory.MovementKindAdjustment, effects[0].Kind)
	})

	t.Run("matching count produces no movement", func(t *testing.T) {
		adjustment := createTestAdjustment(t)
		require.NoError(t, adjustment.AddLine(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(5)))
		require.NoError(t, adjustment.AddLine(uuid.New(), decimal.NewFromInt(8), decimal.NewFromInt(6)))

		effects, err := adjustment.EffectLines()
		require.NoError(t, err)
		require.Len(t, effects, 1)
		assert.True(t, effects[0].Delta.Equal(decimal.NewFromInt(2)))
	})

	assert.Equal(t, inventory.SourceTypeAdjustment, createTestAdjustment(t).EffectSourceType())
}

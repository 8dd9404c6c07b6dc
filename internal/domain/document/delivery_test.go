package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse/backend/internal/domain/inventory"
)

func createTestDelivery(t *testing.T) *Delivery {
	delivery, err := NewDelivery("WH/OUT/0001", "Globex Corp", uuid.New())
	require.NoError(t, err)
	return delivery
}

func TestNewDelivery(t *testing.T) {
	t.Run("creates a draft delivery", func(t *testing.T) {
		locationID := uuid.New()
		delivery, err := NewDelivery("WH/OUT/0001", "Globex Corp", locationID)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, delivery.Status)
		assert.Equal(t, "Globex Corp", delivery.CustomerName)
		assert.Equal(t, locationID, delivery.LocationID)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewDelivery("", "Globex Corp", uuid.New())
		assert.Error(t, err)
		_, err = NewDelivery("WH/OUT/0001", "", uuid.New())
		assert.Error(t, err)
		_, err = NewDelivery("WH/OUT/0001", "Globex Corp", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestDelivery_WaitingFlow(t *testing.T) {
	t.Run("draft parks in waiting on failed stock check", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.Zero))

		require.NoError(t, delivery.MarkWaiting())
		assert.Equal(t, StatusWaiting, delivery.Status)
		assert.False(t, delivery.CanProcess())
	})

	t.Run("waiting can be re-checked and stay waiting", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.Zero))
		require.NoError(t, delivery.MarkWaiting())

		require.NoError(t, delivery.MarkWaiting())
		assert.Equal(t, StatusWaiting, delivery.Status)
	})

	t.Run("waiting releases to ready", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.Zero))
		require.NoError(t, delivery.MarkWaiting())

		require.NoError(t, delivery.MarkReady())
		assert.Equal(t, StatusReady, delivery.Status)
		assert.True(t, delivery.CanProcess())
	})

	t.Run("waiting cannot go straight to done", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.Zero))
		require.NoError(t, delivery.MarkWaiting())
		assert.Error(t, delivery.MarkDone())
	})

	t.Run("waiting can be cancelled", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.Zero))
		require.NoError(t, delivery.MarkWaiting())
		require.NoError(t, delivery.Cancel("order withdrawn"))
		assert.Equal(t, StatusCancelled, delivery.Status)
	})
}

func TestDelivery_Lifecycle(t *testing.T) {
	t.Run("ready requires at least one line", func(t *testing.T) {
		delivery := createTestDelivery(t)
		assert.Error(t, delivery.MarkReady())
		assert.Error(t, delivery.MarkWaiting())
	})

	t.Run("draft to ready to done", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(4), decimal.Zero))

		require.NoError(t, delivery.MarkReady())
		require.NoError(t, delivery.MarkDone())
		assert.Equal(t, StatusDone, delivery.Status)
		require.NotNil(t, delivery.DoneAt)
	})

	t.Run("done is terminal", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(4), decimal.Zero))
		require.NoError(t, delivery.MarkReady())
		require.NoError(t, delivery.MarkDone())

		assert.Error(t, delivery.MarkReady())
		assert.Error(t, delivery.MarkWaiting())
		assert.Error(t, delivery.MarkDone())
		assert.Error(t, delivery.Cancel("too late"))
		assert.Error(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.Zero))
	})

	t.Run("ready cannot be cancelled", func(t *testing.T) {
		delivery := createTestDelivery(t)
		require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(4), decimal.Zero))
		require.NoError(t, delivery.MarkReady())
		assert.Error(t, delivery.Cancel("changed mind"))
	})
}

func TestDelivery_EffectLines(t *testing.T) {
	delivery := createTestDelivery(t)
	require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(4), decimal.Zero))
	require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(2), decimal.Zero))

	effects, err := delivery.EffectLines()
	require.NoError(t, err)
	require.Len(t, effects, 2)

	for _, e := range effects {
		assert.Equal(t, delivery.LocationID, e.LocationID)
		assert.Equal(t, inventory.MovementKindDeliveryOut, e.Kind)
		assert.True(t, e.Delta.IsNegative())
	}
	assert.Equal(t, inventory.SourceTypeDelivery, delivery.EffectSourceType())
}

func TestDelivery_TotalPrice(t *testing.T) {
	delivery := createTestDelivery(t)
	require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(4), decimal.NewFromInt(10)))
	require.NoError(t, delivery.AddLine(uuid.New(), decimal.NewFromInt(2), decimal.NewFromFloat(1.5)))
	assert.True(t, delivery.TotalPrice().Equal(decimal.NewFromInt(43)))
}

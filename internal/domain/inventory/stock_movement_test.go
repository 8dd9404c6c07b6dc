package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementKind_IsValid(t *testing.T) {
	tests := []struct {
		kind    MovementKind
		isValid bool
	}{
		{MovementKindReceiptIn, true},
		{MovementKindDeliveryOut, true},
		{MovementKindTransferOut, true},
		{MovementKindTransferIn, true},
		{MovementKindAdjustment, true},
		{MovementKind("INVALID"), false},
		{MovementKind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.kind.IsValid())
		})
	}
}

func TestSourceType_IsValid(t *testing.T) {
	assert.True(t, SourceTypeReceipt.IsValid())
	assert.True(t, SourceTypeDelivery.IsValid())
	assert.True(t, SourceTypeTransfer.IsValid())
	assert.True(t, SourceTypeAdjustment.IsValid())
	assert.False(t, SourceType("INVALID").IsValid())
}

func TestNewStockMovement(t *testing.T) {
	productID, locationID, sourceID := uuid.New(), uuid.New(), uuid.New()

	t.Run("creates a signed movement", func(t *testing.T) {
		m, err := NewStockMovement(productID, locationID, decimal.NewFromInt(5), "pcs",
			MovementKindReceiptIn, SourceTypeReceipt, sourceID)
		require.NoError(t, err)
		assert.True(t, m.Delta.Equal(decimal.NewFromInt(5)))
		assert.True(t, m.IsInbound())
		assert.False(t, m.IsOutbound())
		assert.False(t, m.OccurredAt.IsZero())
	})

	t.Run("negative delta is outbound", func(t *testing.T) {
		m, err := NewStockMovement(productID, locationID, decimal.NewFromInt(-4), "pcs",
			MovementKindDeliveryOut, SourceTypeDelivery, sourceID)
		require.NoError(t, err)
		assert.True(t, m.IsOutbound())
	})

	t.Run("defaults unit", func(t *testing.T) {
		m, err := NewStockMovement(productID, locationID, decimal.NewFromInt(1), "",
			MovementKindReceiptIn, SourceTypeReceipt, sourceID)
		require.NoError(t, err)
		assert.Equal(t, "unit", m.Unit)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewStockMovement(uuid.Nil, locationID, decimal.NewFromInt(1), "pcs",
			MovementKindReceiptIn, SourceTypeReceipt, sourceID)
		assert.Error(t, err)

		_, err = NewStockMovement(productID, uuid.Nil, decimal.NewFromInt(1), "pcs",
			MovementKindReceiptIn, SourceTypeReceipt, sourceID)
		assert.Error(t, err)

		_, err = NewStockMovement(productID, locationID, decimal.Zero, "pcs",
			MovementKindReceiptIn, SourceTypeReceipt, sourceID)
		assert.Error(t, err)

		_, err = NewStockMovement(productID, locationID, decimal.NewFromInt(1), "pcs",
			MovementKind("BAD"), SourceTypeReceipt, sourceID)
		assert.Error(t, err)

		_, err = NewStockMovement(productID, locationID, decimal.NewFromInt(1), "pcs",
			MovementKindReceiptIn, SourceType("BAD"), sourceID)
		assert.Error(t, err)

		_, err = NewStockMovement(productID, locationID, decimal.NewFromInt(1), "pcs",
			MovementKindReceiptIn, SourceTypeReceipt, uuid.Nil)
		assert.Error(t, err)
	})
}

func TestStockMovement_Builders(t *testing.T) {
	m, err := NewStockMovement(uuid.New(), uuid.New(), decimal.NewFromInt(5), "pcs",
		MovementKindReceiptIn, SourceTypeReceipt, uuid.New())
	require.NoError(t, err)

	lineID, actorID := uuid.New(), uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.WithSourceLineID(lineID).WithActorID(actorID).WithNote("putaway").WithOccurredAt(at)

	require.NotNil(t, m.SourceLineID)
	assert.Equal(t, lineID, *m.SourceLineID)
	require.NotNil(t, m.ActorID)
	assert.Equal(t, actorID, *m.ActorID)
	assert.Equal(t, "putaway", m.Note)
	assert.Equal(t, at, m.OccurredAt)
}

func TestStockLevel(t *testing.T) {
	t.Run("starts at zero", func(t *testing.T) {
		level, err := NewStockLevel(uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.True(t, level.Quantity.IsZero())
		assert.True(t, level.IsEmpty())
	})

	t.Run("rejects nil keys", func(t *testing.T) {
		_, err := NewStockLevel(uuid.Nil, uuid.New())
		assert.Error(t, err)
		_, err = NewStockLevel(uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})

	t.Run("can fulfill up to on-hand quantity", func(t *testing.T) {
		level, err := NewStockLevel(uuid.New(), uuid.New())
		require.NoError(t, err)
		level.Quantity = decimal.NewFromInt(10)

		assert.True(t, level.CanFulfill(decimal.NewFromInt(10)))
		assert.True(t, level.CanFulfill(decimal.NewFromInt(3)))
		assert.False(t, level.CanFulfill(decimal.NewFromInt(11)))
	})
}

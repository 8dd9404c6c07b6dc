package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		docType Type
		isValid bool
	}{
		{TypeReceipt, true},
		{TypeDelivery, true},
		{TypeTransfer, true},
		{TypeAdjustment, true},
		{Type("INVALID"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.docType.IsValid())
		})
	}
}

func TestType_Code(t *testing.T) {
	assert.Equal(t, "IN", TypeReceipt.Code())
	assert.Equal(t, "OUT", TypeDelivery.Code())
	assert.Equal(t, "INT", TypeTransfer.Code())
	assert.Equal(t, "ADJ", TypeAdjustment.Code())
	assert.Equal(t, "", Type("INVALID").Code())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		docType  Type
		sequence int64
		want     string
	}{
		{TypeReceipt, 1, "WH/IN/0001"},
		{TypeDelivery, 7, "WH/OUT/0007"},
		{TypeTransfer, 42, "WH/INT/0042"},
		{TypeAdjustment, 9999, "WH/ADJ/9999"},
		// Width grows past 9999 instead of wrapping
		{TypeReceipt, 10000, "WH/IN/10000"},
		{TypeReceipt, 123456, "WH/IN/123456"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.docType, tt.sequence))
		})
	}
}

func TestParseNumber(t *testing.T) {
	t.Run("valid numbers round-trip", func(t *testing.T) {
		code, seq, ok := ParseNumber("WH/IN/0007")
		assert.True(t, ok)
		assert.Equal(t, "IN", code)
		assert.Equal(t, int64(7), seq)

		code, seq, ok = ParseNumber("WH/ADJ/12345")
		assert.True(t, ok)
		assert.Equal(t, "ADJ", code)
		assert.Equal(t, int64(12345), seq)
	})

	t.Run("malformed numbers are rejected", func(t *testing.T) {
		for _, bad := range []string{"", "WH/IN/1", "WH/IN/01", "IN/0001", "WH/in/0001", "WH/IN/0001/extra", "PO-2024-001"} {
			_, _, ok := ParseNumber(bad)
			assert.False(t, ok, "expected %q to be rejected", bad)
		}
	})
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusDraft, true},
		{StatusReady, true},
		{StatusWaiting, true},
		{StatusDone, true},
		{StatusCancelled, true},
		{Status("INVALID"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusDone.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
	assert.False(t, StatusWaiting.IsTerminal())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		docType  Type
		from     Status
		to       Status
		canTrans bool
	}{
		// Receipt: Draft -> Ready -> Done
		{TypeReceipt, StatusDraft, StatusReady, true},
		{TypeReceipt, StatusDraft, StatusCancelled, true},
		{TypeReceipt, StatusDraft, StatusDone, false},
		{TypeReceipt, StatusDraft, StatusWaiting, false},
		{TypeReceipt, StatusReady, StatusDone, true},
		{TypeReceipt, StatusReady, StatusCancelled, false},
		// Delivery: Waiting detour, re-check allowed
		{TypeDelivery, StatusDraft, StatusReady, true},
		{TypeDelivery, StatusDraft, StatusWaiting, true},
		{TypeDelivery, StatusWaiting, StatusReady, true},
		{TypeDelivery, StatusWaiting, StatusWaiting, true},
		{TypeDelivery, StatusWaiting, StatusCancelled, true},
		{TypeDelivery, StatusWaiting, StatusDone, false},
		{TypeDelivery, StatusReady, StatusDone, true},
		{TypeDelivery, StatusReady, StatusDraft, false},
		// Transfer and adjustment: single step
		{TypeTransfer, StatusDraft, StatusDone, true},
		{TypeTransfer, StatusDraft, StatusReady, false},
		{TypeAdjustment, StatusDraft, StatusDone, true},
		{TypeAdjustment, StatusDraft, StatusWaiting, false},
		// Done is terminal for every type
		{TypeReceipt, StatusDone, StatusDraft, false},
		{TypeDelivery, StatusDone, StatusReady, false},
		{TypeTransfer, StatusDone, StatusCancelled, false},
		{TypeAdjustment, StatusDone, StatusDone, false},
		// Cancelled is terminal for every type
		{TypeReceipt, StatusCancelled, StatusDraft, false},
		{TypeDelivery, StatusCancelled, StatusReady, false},
	}

	for _, tt := range tests {
		name := string(tt.docType) + "_" + string(tt.from) + "_" + string(tt.to)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.canTrans, CanTransition(tt.docType, tt.from, tt.to))
		})
	}
}

func TestDeficientLine_Shortfall(t *testing.T) {
	line := DeficientLine{
		LineID:     uuid.New(),
		ProductID:  uuid.New(),
		LocationID: uuid.New(),
		Requested:  decimal.NewFromInt(10),
		Available:  decimal.NewFromInt(3),
	}
	assert.True(t, line.Shortfall().Equal(decimal.NewFromInt(7)))
}

package document

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/inventory"
)

// Type identifies one of the four inventory document types
type Type string

const (
	TypeReceipt    Type = "RECEIPT"
	TypeDelivery   Type = "DELIVERY"
	TypeTransfer   Type = "TRANSFER"
	TypeAdjustment Type = "ADJUSTMENT"
)

// IsValid returns true if the document type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeReceipt, TypeDelivery, TypeTransfer, TypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Code returns the short code used inside document numbers
func (t Type) Code() string {
	switch t {
	case TypeReceipt:
		return "IN"
	case TypeDelivery:
		return "OUT"
	case TypeTransfer:
		return "INT"
	case TypeAdjustment:
		return "ADJ"
	}
	return ""
}

// numberPattern matches well-formed document numbers such as WH/IN/0007
var numberPattern = regexp.MustCompile(`^WH/([A-Z]+)/(\d{4,})$`)

// FormatNumber renders a document number from a type and a sequence value.
// Sequences are zero-padded to 4 digits and grow past 9999 without wrapping.
func FormatNumber(t Type, sequence int64) string {
	return fmt.Sprintf("WH/%s/%04d", t.Code(), sequence)
}

// ParseNumber extracts the type code and sequence from a document number
func ParseNumber(number string) (code string, sequence int64, ok bool) {
	m := numberPattern.FindStringSubmatch(number)
	if m == nil {
		return "", 0, false
	}
	seq, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return m[1], seq, true
}

// Status is the lifecycle state shared by all document types.
// Done is terminal: it is the point at which the document's inventory
// effect has been applied, and nothing may change the document afterwards.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusReady     Status = "READY"
	StatusWaiting   Status = "WAITING"
	StatusDone      Status = "DONE"
	StatusCancelled Status = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusWaiting, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states that permit no further transition
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// transitions maps each document type to its allowed status transitions.
// Receipts take a two-step path (validate then process); deliveries may
// detour through Waiting when stock is short; transfers and adjustments
// go straight from Draft to Done on a single validation.
var transitions = map[Type]map[Status][]Status{
	TypeReceipt: {
		StatusDraft: {StatusReady, StatusCancelled},
		StatusReady: {StatusDone},
	},
	TypeDelivery: {
		StatusDraft:   {StatusReady, StatusWaiting, StatusCancelled},
		StatusWaiting: {StatusReady, StatusWaiting, StatusCancelled},
		StatusReady:   {StatusDone},
	},
	TypeTransfer: {
		StatusDraft: {StatusDone, StatusCancelled},
	},
	TypeAdjustment: {
		StatusDraft: {StatusDone, StatusCancelled},
	},
}

// CanTransition reports whether a document of the given type may move from
// one status to another
func CanTransition(t Type, from, to Status) bool {
	for _, allowed := range transitions[t][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Document is the behavior every document type shares with the stock
// application engine: it carries an inventory effect, exposes its lifecycle
// position, and can be flipped to Done exactly once.
type Document interface {
	inventory.StockEffect
	GetVersion() int
	CurrentStatus() Status
	CanProcess() bool
	MarkDone() error
}

// DeficientLine describes one line whose requested quantity exceeds the
// available stock at validation time. Callers receive the full list so they
// can correct only the offending entries.
type DeficientLine struct {
	LineID     uuid.UUID       `json:"line_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Requested  decimal.Decimal `json:"requested"`
	Available  decimal.Decimal `json:"available"`
}

// Shortfall returns the missing quantity for the line
func (d DeficientLine) Shortfall() decimal.Decimal {
	return d.Requested.Sub(d.Available)
}

package document

import (
	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

const (
	// EventTypeDocumentCreated fires when a document enters the system in Draft
	EventTypeDocumentCreated = "document.created"
	// EventTypeDocumentValidated fires when a document passes its stock check
	EventTypeDocumentValidated = "document.validated"
	// EventTypeDocumentDone fires once the document's stock effect is applied
	EventTypeDocumentDone = "document.done"
	// EventTypeDocumentCancelled fires when a document is aborted before processing
	EventTypeDocumentCancelled = "document.cancelled"
)

// DocumentCreatedEvent signals a new document in Draft
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentType Type   `json:"document_type"`
	Number       string `json:"number"`
}

// NewDocumentCreatedEvent creates a DocumentCreatedEvent
func NewDocumentCreatedEvent(t Type, documentID uuid.UUID, number string) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, t.String(), documentID),
		DocumentType:    t,
		Number:          number,
	}
}

// DocumentValidatedEvent signals a document moving out of Draft toward processing
type DocumentValidatedEvent struct {
	shared.BaseDomainEvent
	DocumentType Type   `json:"document_type"`
	Number       string `json:"number"`
}

// NewDocumentValidatedEvent creates a DocumentValidatedEvent
func NewDocumentValidatedEvent(t Type, documentID uuid.UUID, number string) *DocumentValidatedEvent {
	return &DocumentValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentValidated, t.String(), documentID),
		DocumentType:    t,
		Number:          number,
	}
}

// DocumentDoneEvent signals a document reaching its terminal Done state
type DocumentDoneEvent struct {
	shared.BaseDomainEvent
	DocumentType Type   `json:"document_type"`
	Number       string `json:"number"`
}

// NewDocumentDoneEvent creates a DocumentDoneEvent
func NewDocumentDoneEvent(t Type, documentID uuid.UUID, number string) *DocumentDoneEvent {
	return &DocumentDoneEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentDone, t.String(), documentID),
		DocumentType:    t,
		Number:          number,
	}
}

// DocumentCancelledEvent signals a document aborted before processing
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DocumentType Type   `json:"document_type"`
	Number       string `json:"number"`
	Reason       string `json:"reason"`
}

// NewDocumentCancelledEvent creates a DocumentCancelledEvent
func NewDocumentCancelledEvent(t Type, documentID uuid.UUID, number, reason string) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCancelled, t.String(), documentID),
		DocumentType:    t,
		Number:          number,
		Reason:          reason,
	}
}

package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/warehouse/backend/internal/application/inventory"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/shared"
)

// ReceiptService handles goods receipt business operations
type ReceiptService struct {
	receiptRepo    document.ReceiptRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  catalog.WarehouseRepository
	scope          appinv.TransactionScope
	engine         *appinv.StockApplicationEngine
	eventPublisher shared.EventPublisher
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo document.ReceiptRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo catalog.WarehouseRepository,
	scope appinv.TransactionScope,
	engine *appinv.StockApplicationEngine,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:   receiptRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		scope:         scope,
		engine:        engine,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new receipt in Draft. The document number is drawn and
// the header saved in one transaction, so a failed create never consumes a
// number.
func (s *ReceiptService) Create(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	if _, err := s.warehouseRepo.FindLocationByID(ctx, req.LocationID); err != nil {
		return nil, err
	}
	if err := s.checkProductsExist(ctx, req.Lines); err != nil {
		return nil, err
	}

	var receipt *document.Receipt
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		sequence, err := repos.SequenceRepo().Next(ctx, document.TypeReceipt)
		if err != nil {
			return err
		}
		number := document.FormatNumber(document.TypeReceipt, sequence)

		r, err := document.NewReceipt(number, req.SupplierName, req.LocationID)
		if err != nil {
			return err
		}
		r.SupplierRef = req.SupplierRef
		r.Note = req.Note
		for _, line := range req.Lines {
			if err := r.AddLine(line.ProductID, line.Quantity, line.UnitCost); err != nil {
				return err
			}
		}

		if err := repos.ReceiptRepo().Save(ctx, r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, document.NewDocumentCreatedEvent(document.TypeReceipt, receipt.ID, receipt.Number))
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByID retrieves a receipt by ID
func (s *ReceiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByNumber retrieves a receipt by document number
func (s *ReceiptService) GetByNumber(ctx context.Context, number string) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List retrieves receipts with filtering and pagination
func (s *ReceiptService) List(ctx context.Context, filter ListFilter) ([]ReceiptResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	receipts, err := s.receiptRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ReceiptResponse, len(receipts))
	for i, r := range receipts {
		responses[i] = ToReceiptResponse(r)
	}
	return responses, total, nil
}

// AddLine adds a product line to a draft receipt
func (s *ReceiptService) AddLine(ctx context.Context, receiptID uuid.UUID, req ReceiptLineRequest) (*ReceiptResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.AddLine(req.ProductID, req.Quantity, req.UnitCost); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// UpdateLine changes quantity and unit cost on a draft receipt line
func (s *ReceiptService) UpdateLine(ctx context.Context, receiptID, lineID uuid.UUID, quantity, unitCost decimal.Decimal) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.UpdateLine(lineID, quantity, unitCost); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// RemoveLine removes a line from a draft receipt
func (s *ReceiptService) RemoveLine(ctx context.Context, receiptID, lineID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Validate moves a draft receipt to Ready. Receipts carry no availability
// check, goods arriving only add stock.
func (s *ReceiptService) Validate(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Validate(); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, receipt)
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Process drives a Ready receipt to Done and applies its stock effect
func (s *ReceiptService) Process(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	load := func(ctx context.Context, repos appinv.TransactionalRepositories) (document.Document, error) {
		return repos.ReceiptRepo().FindByID(ctx, receiptID)
	}
	save := func(ctx context.Context, repos appinv.TransactionalRepositories, doc document.Document, expectedStatus document.Status, expectedVersion int) error {
		return repos.ReceiptRepo().SaveWithStatusGate(ctx, doc.(*document.Receipt), expectedStatus, expectedVersion)
	}
	if err := s.engine.Process(ctx, load, save); err != nil {
		return nil, err
	}

	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, document.NewDocumentDoneEvent(document.TypeReceipt, receipt.ID, receipt.Number))
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Cancel cancels a draft receipt
func (s *ReceiptService) Cancel(ctx context.Context, receiptID uuid.UUID, req CancelRequest) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, receipt)
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Delete removes a draft receipt entirely
func (s *ReceiptService) Delete(ctx context.Context, receiptID uuid.UUID) error {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return err
	}
	if receipt.Status != document.StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Only draft documents can be deleted")
	}
	return s.receiptRepo.Delete(ctx, receiptID)
}

func (s *ReceiptService) checkProductsExist(ctx context.Context, lines []ReceiptLineRequest) error {
	seen := make(map[uuid.UUID]bool)
	for _, line := range lines {
		if seen[line.ProductID] {
			continue
		}
		if _, err := s.productRepo.FindByID(ctx, line.ProductID); err != nil {
			return err
		}
		seen[line.ProductID] = true
	}
	return nil
}

func (s *ReceiptService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *ReceiptService) publishAggregateEvents(ctx context.Context, receipt *document.Receipt) {
	if s.eventPublisher == nil {
		return
	}
	events := receipt.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	receipt.ClearDomainEvents()
}

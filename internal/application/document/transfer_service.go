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

// TransferService handles internal transfer business operations
type TransferService struct {
	transferRepo   document.TransferRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  catalog.WarehouseRepository
	scope          appinv.TransactionScope
	engine         *appinv.StockApplicationEngine
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo document.TransferRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo catalog.WarehouseRepository,
	scope appinv.TransactionScope,
	engine *appinv.StockApplicationEngine,
) *TransferService {
	return &TransferService{
		transferRepo:  transferRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		scope:         scope,
		engine:        engine,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new transfer in Draft. The document number is drawn and
// the header saved in one transaction.
func (s *TransferService) Create(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	if _, err := s.warehouseRepo.FindLocationByID(ctx, req.FromLocationID); err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if _, err := s.productRepo.FindByID(ctx, line.ProductID); err != nil {
			return nil, err
		}
		if _, err := s.warehouseRepo.FindLocationByID(ctx, line.ToLocationID); err != nil {
			return nil, err
		}
	}

	var transfer *document.InternalTransfer
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		sequence, err := repos.SequenceRepo().Next(ctx, document.TypeTransfer)
		if err != nil {
			return err
		}
		number := document.FormatNumber(document.TypeTransfer, sequence)

		t, err := document.NewInternalTransfer(number, req.FromLocationID)
		if err != nil {
			return err
		}
		t.Note = req.Note
		for _, line := range req.Lines {
			if err := t.AddLine(line.ProductID, line.ToLocationID, line.Quantity); err != nil {
				return err
			}
		}

		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, document.NewDocumentCreatedEvent(document.TypeTransfer, transfer.ID, transfer.Number))
	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetByID retrieves a transfer by ID
func (s *TransferService) GetByID(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetByNumber retrieves a transfer by document number
func (s *TransferService) GetByNumber(ctx context.Context, number string) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// List retrieves transfers with filtering and pagination
func (s *TransferService) List(ctx context.Context, filter ListFilter) ([]TransferResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	// transfers key their header on the source location
	if locationID, ok := domainFilter.Filters["location_id"]; ok {
		delete(domainFilter.Filters, "location_id")
		domainFilter.Filters["from_location_id"] = locationID
	}
	transfers, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		responses[i] = ToTransferResponse(t)
	}
	return responses, total, nil
}

// AddLine adds a product line to a draft transfer
func (s *TransferService) AddLine(ctx context.Context, transferID uuid.UUID, req TransferLineRequest) (*TransferResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.warehouseRepo.FindLocationByID(ctx, req.ToLocationID); err != nil {
		return nil, err
	}
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if err := transfer.AddLine(req.ProductID, req.ToLocationID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// UpdateLine changes the quantity on a draft transfer line
func (s *TransferService) UpdateLine(ctx context.Context, transferID, lineID uuid.UUID, quantity decimal.Decimal) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if err := transfer.UpdateLine(lineID, quantity); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// RemoveLine removes a line from a draft transfer
func (s *TransferService) RemoveLine(ctx context.Context, transferID, lineID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if err := transfer.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// Process drives a draft transfer straight to Done. Each line produces a
// matched outbound and inbound movement, so a transfer never changes the
// product's total on hand.
func (s *TransferService) Process(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	load := func(ctx context.Context, repos appinv.TransactionalRepositories) (document.Document, error) {
		return repos.TransferRepo().FindByID(ctx, transferID)
	}
	save := func(ctx context.Context, repos appinv.TransactionalRepositories, doc document.Document, expectedStatus document.Status, expectedVersion int) error {
		return repos.TransferRepo().SaveWithStatusGate(ctx, doc.(*document.InternalTransfer), expectedStatus, expectedVersion)
	}
	if err := s.engine.Process(ctx, load, save); err != nil {
		return nil, err
	}

	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, document.NewDocumentDoneEvent(document.TypeTransfer, transfer.ID, transfer.Number))
	response := ToTransferResponse(transfer)
	return &response, nil
}

// Cancel cancels a draft transfer
func (s *TransferService) Cancel(ctx context.Context, transferID uuid.UUID, req CancelRequest) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if err := transfer.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, transfer)
	response := ToTransferResponse(transfer)
	return &response, nil
}

// Delete removes a draft transfer entirely
func (s *TransferService) Delete(ctx context.Context, transferID uuid.UUID) error {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return err
	}
	if transfer.Status != document.StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Only draft documents can be deleted")
	}
	return s.transferRepo.Delete(ctx, transferID)
}

func (s *TransferService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *TransferService) publishAggregateEvents(ctx context.Context, transfer *document.InternalTransfer) {
	if s.eventPublisher == nil {
		return
	}
	events := transfer.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	transfer.ClearDomainEvents()
}

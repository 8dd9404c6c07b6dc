package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// StockQueryService answers read-only questions about on-hand quantities
// and the movement ledger. All writes go through the application engine.
type StockQueryService struct {
	levelRepo    inventory.StockLevelRepository
	movementRepo inventory.StockMovementRepository
	cache        StockCache
	logger       *zap.Logger
}

// NewStockQueryService creates a new StockQueryService
func NewStockQueryService(
	levelRepo inventory.StockLevelRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *StockQueryService {
	return &StockQueryService{
		levelRepo:    levelRepo,
		movementRepo: movementRepo,
		cache:        NoOpStockCache{},
		logger:       logger,
	}
}

// SetCache enables read-through caching of point quantity queries
func (s *StockQueryService) SetCache(cache StockCache) {
	if cache != nil {
		s.cache = cache
	}
}

// GetQuantity returns the on-hand quantity for a product at a location.
// A key with no stored row reads as zero.
func (s *StockQueryService) GetQuantity(ctx context.Context, productID, locationID uuid.UUID) (*StockQuantityResponse, error) {
	if productID == uuid.Nil || locationID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}

	key := StockKey{ProductID: productID, LocationID: locationID}
	if qty, ok, err := s.cache.GetQuantity(ctx, key); err == nil && ok {
		return &StockQuantityResponse{ProductID: productID, LocationID: locationID, Quantity: qty}, nil
	} else if err != nil {
		s.logger.Warn("stock cache read failed, falling back to database", zap.Error(err))
	}

	qty, err := s.levelRepo.QuantityByKey(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetQuantity(ctx, key, qty); err != nil {
		s.logger.Warn("stock cache write failed", zap.Error(err))
	}
	return &StockQuantityResponse{ProductID: productID, LocationID: locationID, Quantity: qty}, nil
}

// GetProductTotal returns the on-hand total for a product across all locations
func (s *StockQueryService) GetProductTotal(ctx context.Context, productID uuid.UUID) (*ProductTotalResponse, error) {
	if productID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	total, err := s.levelRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductTotalResponse{ProductID: productID, Total: total}, nil
}

// ListStockLevels retrieves stock level rows with filtering and pagination
func (s *StockQueryService) ListStockLevels(ctx context.Context, filter StockListFilter) ([]StockLevelResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}
	if filter.NonEmpty != nil && *filter.NonEmpty {
		domainFilter.Filters["non_empty"] = true
	}

	levels, err := s.levelRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.levelRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockLevelResponse, len(levels))
	for i := range levels {
		responses[i] = ToStockLevelResponse(&levels[i])
	}
	return responses, total, nil
}

// ListMovements retrieves ledger entries with filtering and pagination,
// newest first
func (s *StockQueryService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter, err := toMovementFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	movements, err := s.movementRepo.Find(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountMovements(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses, total, nil
}

// GetMovementsBySource returns every ledger entry one document produced
func (s *StockQueryService) GetMovementsBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]MovementResponse, error) {
	st := inventory.SourceType(sourceType)
	if !st.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if sourceID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}

	movements, err := s.movementRepo.FindBySource(ctx, st, sourceID)
	if err != nil {
		return nil, err
	}
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses, nil
}

// Reconcile compares every stored stock level against its ledger sum and
// reports the keys that drifted apart. An empty drift list means the two
// records agree key by key.
func (s *StockQueryService) Reconcile(ctx context.Context) (*ReconciliationResponse, error) {
	rows, err := s.movementRepo.Reconcile(ctx)
	if err != nil {
		return nil, err
	}

	drifted := make([]inventory.ReconciliationRow, 0)
	for _, row := range rows {
		if !row.InBalance() {
			drifted = append(drifted, row)
		}
	}
	if len(drifted) > 0 {
		s.logger.Error("stock reconciliation found drifted keys",
			zap.Int("checked_keys", len(rows)),
			zap.Int("drifted", len(drifted)))
	}

	return &ReconciliationResponse{
		CheckedKeys: len(rows),
		Drifted:     drifted,
		InBalance:   len(drifted) == 0,
		CheckedAt:   time.Now(),
	}, nil
}

func toMovementFilter(filter MovementListFilter) (inventory.MovementFilter, error) {
	domainFilter := inventory.MovementFilter{
		ProductID:  filter.ProductID,
		LocationID: filter.LocationID,
		SourceID:   filter.SourceID,
		From:       filter.From,
		To:         filter.To,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}
	if filter.Kind != nil {
		kind := inventory.MovementKind(*filter.Kind)
		if !kind.IsValid() {
			return inventory.MovementFilter{}, shared.NewDomainError("INVALID_KIND", "Invalid movement kind")
		}
		domainFilter.Kind = &kind
	}
	if filter.SourceType != nil {
		st := inventory.SourceType(*filter.SourceType)
		if !st.IsValid() {
			return inventory.MovementFilter{}, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
		}
		domainFilter.SourceType = &st
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return inventory.MovementFilter{}, shared.NewDomainError("INVALID_RANGE", "Time range end precedes start")
	}
	return domainFilter, nil
}

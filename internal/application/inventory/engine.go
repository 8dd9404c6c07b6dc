package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// DocumentLoader fetches the document to process from transactional
// repositories.
type DocumentLoader func(ctx context.Context, repos TransactionalRepositories) (document.Document, error)

// StatusGateSaver persists the flipped document only if its stored status
// and version still match the expected values.
type StatusGateSaver func(ctx context.Context, repos TransactionalRepositories, doc document.Document, expectedStatus document.Status, expectedVersion int) error

// StockApplicationEngine drives a document from a processable status to
// Done and applies its stock effect. The status flip and every quantity
// change commit in one transaction, so a failed line rolls back the whole
// document. Processing the same document twice is rejected by the status
// gate, which makes the operation idempotent at the document level.
type StockApplicationEngine struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	cache     StockCache
	logger    *zap.Logger
	retries   int
	backoff   time.Duration
}

// EngineOption configures the engine
type EngineOption func(*StockApplicationEngine)

// WithRetries sets how many attempts a concurrency conflict is retried
func WithRetries(n int) EngineOption {
	return func(e *StockApplicationEngine) {
		if n > 0 {
			e.retries = n
		}
	}
}

// WithRetryBackoff sets the pause between conflicting attempts
func WithRetryBackoff(d time.Duration) EngineOption {
	return func(e *StockApplicationEngine) {
		if d > 0 {
			e.backoff = d
		}
	}
}

// WithCache sets the stock cache invalidated after each commit
func WithCache(cache StockCache) EngineOption {
	return func(e *StockApplicationEngine) {
		if cache != nil {
			e.cache = cache
		}
	}
}

// NewStockApplicationEngine creates a new engine
func NewStockApplicationEngine(
	scope TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...EngineOption,
) *StockApplicationEngine {
	e := &StockApplicationEngine{
		scope:     scope,
		publisher: publisher,
		cache:     NoOpStockCache{},
		logger:    logger,
		retries:   3,
		backoff:   50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type applyOutcome struct {
	documentID   uuid.UUID
	number       string
	sourceType   inventory.SourceType
	lineCount    int
	touchedKeys  []StockKey
	reorderAlert []*inventory.StockBelowReorderLevelEvent
}

// Process applies the stock effect of the document resolved by load. On a
// concurrency conflict the whole attempt is retried against fresh state, up
// to the configured attempt count.
func (e *StockApplicationEngine) Process(ctx context.Context, load DocumentLoader, save StatusGateSaver) error {
	var lastErr error
	for attempt := 1; attempt <= e.retries; attempt++ {
		outcome, err := e.processOnce(ctx, load, save)
		if err == nil {
			e.afterCommit(ctx, outcome)
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		lastErr = err
		e.logger.Warn("document processing lost a concurrent race, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", e.retries))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.backoff):
		}
	}
	return lastErr
}

func (e *StockApplicationEngine) processOnce(ctx context.Context, load DocumentLoader, save StatusGateSaver) (*applyOutcome, error) {
	var outcome *applyOutcome
	err := e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := load(ctx, repos)
		if err != nil {
			return err
		}
		if !doc.CanProcess() {
			if doc.CurrentStatus() == document.StatusDone {
				return shared.NewDomainError("DOCUMENT_ALREADY_DONE", "Document has already been processed")
			}
			return shared.ErrInvalidState
		}

		effects, err := doc.EffectLines()
		if err != nil {
			return err
		}

		expectedStatus := doc.CurrentStatus()
		expectedVersion := doc.GetVersion()
		if err := doc.MarkDone(); err != nil {
			return err
		}
		// The status gate is the idempotence guarantee: whichever of two
		// concurrent processors commits first wins, the other sees zero
		// affected rows and backs off.
		if err := save(ctx, repos, doc, expectedStatus, expectedVersion); err != nil {
			return err
		}

		result, err := e.applyEffects(ctx, repos, doc, effects)
		if err != nil {
			return err
		}
		outcome = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (e *StockApplicationEngine) applyEffects(
	ctx context.Context,
	repos TransactionalRepositories,
	doc document.Document,
	effects []inventory.EffectLine,
) (*applyOutcome, error) {
	outcome := &applyOutcome{
		documentID: doc.GetID(),
		number:     doc.GetNumber(),
		sourceType: doc.EffectSourceType(),
		lineCount:  len(effects),
	}
	products := make(map[uuid.UUID]*catalog.Product)
	movements := make([]*inventory.StockMovement, 0, len(effects))

	for _, line := range effects {
		newQty, err := repos.StockLevelRepo().ApplyDelta(ctx, line.ProductID, line.LocationID, line.Delta)
		if err != nil {
			return nil, err
		}
		if newQty.IsNegative() {
			return nil, shared.ErrNegativeStock
		}

		product, ok := products[line.ProductID]
		if !ok {
			product, err = repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError("UNKNOWN_PRODUCT", "Document references a product that does not exist")
				}
				return nil, err
			}
			products[line.ProductID] = product
		}

		movement, err := inventory.NewStockMovement(
			line.ProductID,
			line.LocationID,
			line.Delta,
			product.Unit,
			line.Kind,
			doc.EffectSourceType(),
			doc.GetID(),
		)
		if err != nil {
			return nil, err
		}
		movement.WithSourceLineID(line.LineID)
		if actorID := doc.EffectActorID(); actorID != nil {
			movement.WithActorID(*actorID)
		}
		movements = append(movements, movement)

		outcome.touchedKeys = append(outcome.touchedKeys, StockKey{
			ProductID:  line.ProductID,
			LocationID: line.LocationID,
		})
		if line.Delta.IsNegative() && product.IsBelowReorderLevel(newQty) {
			outcome.reorderAlert = append(outcome.reorderAlert,
				inventory.NewStockBelowReorderLevelEvent(line.ProductID, line.LocationID, newQty, product.ReorderLevel))
		}
	}

	if len(movements) > 0 {
		if err := repos.MovementRepo().CreateBatch(ctx, movements); err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// afterCommit runs the side effects that must not influence the transaction
// outcome. Failures here are logged, never propagated.
func (e *StockApplicationEngine) afterCommit(ctx context.Context, outcome *applyOutcome) {
	if outcome == nil {
		return
	}
	if len(outcome.touchedKeys) > 0 {
		if err := e.cache.Invalidate(ctx, outcome.touchedKeys...); err != nil {
			e.logger.Warn("failed to invalidate stock cache",
				zap.String("document_number", outcome.number),
				zap.Error(err))
		}
	}

	events := make([]shared.DomainEvent, 0, 1+len(outcome.reorderAlert))
	events = append(events, inventory.NewStockAppliedEvent(outcome.sourceType, outcome.documentID, outcome.number, outcome.lineCount))
	for _, alert := range outcome.reorderAlert {
		events = append(events, alert)
	}
	if err := e.publisher.Publish(ctx, events...); err != nil {
		e.logger.Warn("failed to publish stock events",
			zap.String("document_number", outcome.number),
			zap.Error(err))
	}

	e.logger.Info("document processed",
		zap.String("document_number", outcome.number),
		zap.String("source_type", outcome.sourceType.String()),
		zap.Int("lines", outcome.lineCount))
}

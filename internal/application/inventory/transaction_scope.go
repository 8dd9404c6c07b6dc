package inventory

import (
	"context"

	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories the
// stock application engine touches. Everything executed inside one scope
// commits or rolls back as a unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories bound to the
// current transaction. Document numbering runs in the same transaction as
// the document insert, so issued numbers roll back with failed creates and
// stay gapless.
type TransactionalRepositories interface {
	// StockLevelRepo returns the stock level repository scoped to the current transaction
	StockLevelRepo() inventory.StockLevelRepository
	// MovementRepo returns the movement ledger repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// SequenceRepo returns the document numbering repository scoped to the current transaction
	SequenceRepo() document.SequenceRepository
	// ReceiptRepo returns the receipt repository scoped to the current transaction
	ReceiptRepo() document.ReceiptRepository
	// DeliveryRepo returns the delivery repository scoped to the current transaction
	DeliveryRepo() document.DeliveryRepository
	// TransferRepo returns the transfer repository scoped to the current transaction
	TransferRepo() document.TransferRepository
	// AdjustmentRepo returns the adjustment repository scoped to the current transaction
	AdjustmentRepo() document.AdjustmentRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs functions without a real transaction. Useful in
// tests that assert behavior not atomicity.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over fixed repositories
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function against the fixed repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/warehouse/backend/internal/application/inventory"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/inventory"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockLevelRepo returns the stock level repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockLevelRepo() inventory.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// MovementRepo returns the movement ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// SequenceRepo returns the document numbering repository scoped to the current transaction
func (r *gormTransactionalRepositories) SequenceRepo() document.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

// ReceiptRepo returns the receipt repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReceiptRepo() document.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

// DeliveryRepo returns the delivery repository scoped to the current transaction
func (r *gormTransactionalRepositories) DeliveryRepo() document.DeliveryRepository {
	return NewGormDeliveryRepository(r.tx)
}

// TransferRepo returns the transfer repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransferRepo() document.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormTransactionalRepositories) AdjustmentRepo() document.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

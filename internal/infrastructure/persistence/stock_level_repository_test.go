package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestApplyDeltaUpsertsInOneStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormStockLevelRepository(db)

	productID := uuid.New()
	locationID := uuid.New()

	mock.ExpectQuery(`(?s)INSERT INTO stock_levels.*ON CONFLICT \(product_id, location_id\).*RETURNING quantity`).
		WithArgs(sqlmock.AnyArg(), productID, locationID, decimal.NewFromInt(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow("12"))

	qty, err := repo.ApplyDelta(context.Background(), productID, locationID, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(12)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuantityByKeyReadsZeroWithoutRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormStockLevelRepository(db)

	productID := uuid.New()
	locationID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) as total FROM "stock_levels"`).
		WithArgs(productID, locationID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))

	qty, err := repo.QuantityByKey(context.Background(), productID, locationID)
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormStockLevelRepository(db)

	productID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_levels"`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	referenced, err := repo.ExistsByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.True(t, referenced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

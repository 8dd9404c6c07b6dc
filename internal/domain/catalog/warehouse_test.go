package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWarehouse(t *testing.T) {
	t.Run("creates an empty warehouse", func(t *testing.T) {
		warehouse, err := NewWarehouse("MAIN", "Main Warehouse")
		require.NoError(t, err)
		assert.Equal(t, "MAIN", warehouse.Code)
		assert.Empty(t, warehouse.Locations)
	})

	t.Run("rejects invalid codes", func(t *testing.T) {
		_, err := NewWarehouse("", "Main Warehouse")
		assert.Error(t, err)
		_, err = NewWarehouse("THIS-CODE-IS-FAR-TOO-LONG", "Main Warehouse")
		assert.Error(t, err)
		_, err = NewWarehouse("MAIN", "")
		assert.Error(t, err)
	})
}

func TestWarehouse_AddLocation(t *testing.T) {
	warehouse, err := NewWarehouse("MAIN", "Main Warehouse")
	require.NoError(t, err)

	t.Run("adds a location", func(t *testing.T) {
		loc, err := warehouse.AddLocation("A-01", "Aisle A shelf 1")
		require.NoError(t, err)
		assert.Equal(t, warehouse.ID, loc.WarehouseID)
		assert.Len(t, warehouse.Locations, 1)
	})

	t.Run("rejects a duplicate code within the warehouse", func(t *testing.T) {
		_, err := warehouse.AddLocation("A-01", "Another shelf")
		assert.Error(t, err)
		assert.Len(t, warehouse.Locations, 1)
	})

	t.Run("rejects an empty code", func(t *testing.T) {
		_, err := warehouse.AddLocation("", "Nameless shelf")
		assert.Error(t, err)
	})
}

func TestWarehouse_GetLocation(t *testing.T) {
	warehouse, err := NewWarehouse("MAIN", "Main Warehouse")
	require.NoError(t, err)
	loc, err := warehouse.AddLocation("A-01", "Aisle A shelf 1")
	require.NoError(t, err)

	found := warehouse.GetLocation(loc.ID)
	require.NotNil(t, found)
	assert.Equal(t, "A-01", found.Code)

	assert.Nil(t, warehouse.GetLocation(uuid.New()))
}

func TestLocation_Rename(t *testing.T) {
	loc, err := NewLocation(uuid.New(), "A-01", "Aisle A shelf 1")
	require.NoError(t, err)

	require.NoError(t, loc.Rename("Aisle A shelf 1 (rework)"))
	assert.Equal(t, "Aisle A shelf 1 (rework)", loc.Name)
	assert.Error(t, loc.Rename(""))
}

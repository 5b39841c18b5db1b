package agents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
)

func setupAgentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	agents := `
CREATE TABLE IF NOT EXISTS agents (
  id TEXT PRIMARY KEY,
  warehouse_id TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 0,
  checked_in_at DATETIME,
  hours_worked REAL NOT NULL DEFAULT 0,
  distance_travelled REAL NOT NULL DEFAULT 0,
  orders_assigned INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(agents).Error)
	return db
}

func seedAgent(t *testing.T, db *gorm.DB, warehouseID uuid.UUID, name string) *models.Agent {
	t.Helper()

	agent := &models.Agent{
		ID:          uuid.New(),
		WarehouseID: warehouseID,
		Name:        name,
		Latitude:    28.70,
		Longitude:   77.10,
	}
	require.NoError(t, db.Create(agent).Error)
	return agent
}

func TestCheckInSetsTimestampAndAvailability(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := seedAgent(t, db, uuid.New(), "rider")
	at := time.Date(2025, 3, 1, 7, 45, 0, 0, time.UTC)

	rows, err := repo.CheckIn(ctx, agent.ID, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	var got models.Agent
	require.NoError(t, db.Where("id = ?", agent.ID).First(&got).Error)
	assert.True(t, got.IsAvailable)
	require.NotNil(t, got.CheckedInAt)
}

func TestCheckInUnknownAgentAffectsNoRows(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.CheckIn(context.Background(), uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestListFiltersByWarehouse(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	whA := uuid.New()
	whB := uuid.New()
	seedAgent(t, db, whA, "a1")
	seedAgent(t, db, whA, "a2")
	seedAgent(t, db, whB, "b1")

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := repo.List(ctx, &whA)
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
}

func TestResetDailyClearsCountersAndAvailability(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := seedAgent(t, db, uuid.New(), "rider")
	at := time.Now().UTC()
	require.NoError(t, db.Model(&models.Agent{}).Where("id = ?", agent.ID).Updates(map[string]any{
		"hours_worked":       6.5,
		"distance_travelled": 80.0,
		"orders_assigned":    4,
		"is_available":       true,
		"checked_in_at":      at,
	}).Error)

	rows, err := repo.ResetDaily(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	var got models.Agent
	require.NoError(t, db.Where("id = ?", agent.ID).First(&got).Error)
	assert.Zero(t, got.HoursWorked)
	assert.Zero(t, got.DistanceTravelled)
	assert.Zero(t, got.OrdersAssigned)
	assert.False(t, got.IsAvailable)
	assert.Nil(t, got.CheckedInAt)
}

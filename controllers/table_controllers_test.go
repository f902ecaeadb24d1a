package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableserve/restaurant-system/models"
)

func TestTableLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/tables", map[string]interface{}{
		"table_number":  "B2",
		"capacity":      6,
		"floor_section": "terrace",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var table models.Table
	decode(t, w, &table)
	assert.Equal(t, models.TableStatusAvailable, table.Status)
	require.NotNil(t, table.FloorSection)
	assert.Equal(t, "terrace", *table.FloorSection)

	w = env.do(t, http.MethodPost, "/tables", map[string]interface{}{
		"table_number": "B3",
		"capacity":     2,
		"status":       "SUBMERGED",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/tables/%d", table.ID),
		map[string]interface{}{"capacity": 8})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Table
	decode(t, w, &updated)
	assert.Equal(t, 8, updated.Capacity)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/tables/%d", table.ID),
		map[string]interface{}{"capacity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/tables/%d", table.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateTableStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, _, table := env.seedCatalog(t)
	path := fmt.Sprintf("/tables/%d/status", table.ID)

	w := env.do(t, http.MethodPatch, path, map[string]string{"status": models.TableStatusReserved})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Table
	decode(t, w, &updated)
	assert.Equal(t, models.TableStatusReserved, updated.Status)

	w = env.do(t, http.MethodPatch, path, map[string]string{"status": "ON_FIRE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/tables/9999/status",
		map[string]string{"status": models.TableStatusCleaning})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTableDetailIncludesRecentOrders(t *testing.T) {
	env := newTestEnv(t)
	burger, pizza, table := env.seedCatalog(t)
	placeOrder(t, env, burger, pizza, table.ID)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/tables/%d", table.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Table        models.Table   `json:"table"`
		RecentOrders []models.Order `json:"recent_orders"`
	}
	decode(t, w, &detail)
	assert.Equal(t, table.TableNumber, detail.Table.TableNumber)
	require.Len(t, detail.RecentOrders, 1)
	assert.Equal(t, "ORD-0001", detail.RecentOrders[0].OrderNumber)
}

func TestTablesListedByNumber(t *testing.T) {
	env := newTestEnv(t)
	for _, number := range []string{"C3", "A1", "B2"} {
		require.NoError(t, env.db.Create(&models.Table{
			TableNumber: number, Capacity: 2, Status: models.TableStatusAvailable,
		}).Error)
	}

	w := env.do(t, http.MethodGet, "/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tables []models.Table
	decode(t, w, &tables)
	require.Len(t, tables, 3)
	assert.Equal(t, "A1", tables[0].TableNumber)
	assert.Equal(t, "C3", tables[2].TableNumber)
}

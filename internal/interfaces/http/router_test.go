package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmerp/stockledger-api/internal/application/alerts"
	"github.com/farmerp/stockledger-api/internal/application/ledger"
	"github.com/farmerp/stockledger-api/internal/application/reports"
	"github.com/farmerp/stockledger-api/internal/application/usecase"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/infrastructure/memory"
	httpapi "github.com/farmerp/stockledger-api/internal/interfaces/http"
)

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	ledgerUC := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())

	app := fiber.New()
	httpapi.Router(app, httpapi.RouterDeps{
		ItemUC:   usecase.NewItemUseCase(store.Items(), store.Lots()),
		POUC:     usecase.NewPurchaseOrderUseCase(store.PurchaseOrders(), store.Items()),
		LedgerUC: ledgerUC,
		AlertsUC: alerts.NewUseCase(store.Items(), store.Lots(), 30),
		ReportUC: reports.NewUseCase(store.Reports(), nil),
	})
	return &testAPI{app: app, store: store}
}

func (a *testAPI) seedItem(t *testing.T, id string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, a.store.Items().Create(context.Background(), &entity.Item{
		ID: id, Name: "Feed " + id, Unit: "kg", Active: true,
		ReorderThreshold: decimal.NewFromInt(10),
		CreatedAt:        now, UpdatedAt: now,
	}))
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestAddStock_EndToEnd(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, body := api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": "feed", "quantity": "100", "unit_cost": "10",
	}, map[string]string{"X-Actor": "ravi"})

	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "add", body["type"])
	assert.Equal(t, "ravi", body["actor"])
	assert.Equal(t, "100", body["balance_after"])
}

func TestAddStock_ValidationRejectsNonPositive(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, body := api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": "feed", "quantity": "0", "unit_cost": "10",
	}, nil)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestUseStock_InsufficientMapsToConflict(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, _ := api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": "feed", "quantity": "50", "unit_cost": "10",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := api.do(t, "POST", "/api/stock/use", fiber.Map{
		"item_id": "feed", "quantity": "60", "purpose": "feeding",
	}, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestUseStock_ReturnsWeightedCost(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	day3 := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	status, _ := api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": "feed", "quantity": "100", "unit_cost": "10", "purchase_date": day1,
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": "feed", "quantity": "50", "unit_cost": "12", "purchase_date": day3,
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := api.do(t, "POST", "/api/stock/use", fiber.Map{
		"item_id": "feed", "quantity": "120", "purpose": "feeding",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "1240", body["total_cost"])
}

func TestUseStock_MissingPurpose(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, body := api.do(t, "POST", "/api/stock/use", fiber.Map{
		"item_id": "feed", "quantity": "1",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAdjustment_UnknownTypeRejected(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, body := api.do(t, "POST", "/api/stock/adjustment", fiber.Map{
		"item_id": "feed", "adjustment_type": "writeoff", "quantity_change": "5", "reason": "x",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAdjustment_RecountFlow(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, _ := api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": "feed", "quantity": "40", "unit_cost": "3",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := api.do(t, "POST", "/api/stock/adjustment", fiber.Map{
		"item_id": "feed", "adjustment_type": "recount",
		"target_quantity": "33", "reason": "monthly count",
	}, map[string]string{"X-Actor": "maria"})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "adjustment", body["type"])
	assert.Equal(t, "-7", body["quantity"])
	assert.Equal(t, "33", body["balance_after"])
	assert.Equal(t, "maria", body["actor"])
}

func TestItem_NotFound(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "GET", "/api/items/missing", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestItem_CreateAndBalance(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "POST", "/api/items", fiber.Map{
		"name": "Fish feed 4mm", "unit": "kg", "reorder_threshold": "20",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	status, _ = api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": id, "quantity": "30", "unit_cost": "2",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, body = api.do(t, "GET", "/api/items/"+id+"/balance", nil, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "30", body["current_qty"])
	assert.Equal(t, "30", body["lot_sum"])
	assert.Equal(t, true, body["consistent"])
}

func TestItem_DeactivateRefusedWhileStockRemains(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, _ := api.do(t, "POST", "/api/stock/add", fiber.Map{
		"item_id": "feed", "quantity": "5", "unit_cost": "2",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := api.do(t, "DELETE", "/api/items/feed", nil, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	status, _ = api.do(t, "POST", "/api/stock/use", fiber.Map{
		"item_id": "feed", "quantity": "5", "purpose": "feeding",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = api.do(t, "DELETE", "/api/items/feed", nil, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestTransactions_InvalidFromParam(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, "GET", "/api/stock/transactions?from=yesterday", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestPO_CreateReceiveRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	api.seedItem(t, "feed")

	status, body := api.do(t, "POST", "/api/purchase-orders", fiber.Map{
		"po_number": "PO-2026-001", "supplier": "AquaFeeds Ltd",
		"lines": []fiber.Map{{"item_id": "feed", "ordered_qty": "60", "unit_cost": "9"}},
	}, map[string]string{"X-Actor": "maria"})
	require.Equal(t, fiber.StatusCreated, status)
	poID, _ := body["id"].(string)
	lines, _ := body["lines"].([]any)
	require.Len(t, lines, 1)
	lineID, _ := lines[0].(map[string]any)["id"].(string)

	req := httptest.NewRequest("POST", "/api/purchase-orders/"+poID+"/receive",
		bytes.NewReader(mustJSON(t, fiber.Map{
			"lines": []fiber.Map{{"line_id": lineID, "quantity": "60"}},
		})))
	req.Header.Set("Content-Type", "application/json")
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var results []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	require.Len(t, results, 1)
	assert.Equal(t, true, results[0]["ok"])

	status, body = api.do(t, "GET", "/api/purchase-orders/"+poID, nil, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "received", body["status"])
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"supermart-dashboard/internal/models"
	"supermart-dashboard/internal/services"
	"supermart-dashboard/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func createTestAnalytics() *services.Analytics {
	recordStore := store.New(nil, time.Minute, testLogger())
	recordStore.SetRecords([]models.SalesRecord{
		{
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Day:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Category:    "水果",
			Product:     "苹果",
			City:        "北京",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("5.00"),
			TotalAmount: decimal.RequireFromString("10.00"),
		},
		{
			Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Day:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Category:    "蔬菜",
			Product:     "土豆",
			City:        "上海",
			Quantity:    3,
			UnitPrice:   decimal.RequireFromString("2.00"),
			TotalAmount: decimal.RequireFromString("6.00"),
		},
	})
	return services.NewAnalytics(recordStore, testLogger())
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return response
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewAPIHandlers(analytics, testLogger())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_HandleSummary(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()

	handlers.HandleSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	response := decodeEnvelope(t, w)
	if response["success"] != true {
		t.Error("expected success=true")
	}

	data := response["data"].(map[string]any)
	summary := data["summary"].(map[string]any)
	total, err := decimal.NewFromString(summary["total_sales"].(string))
	if err != nil {
		t.Fatalf("total_sales is not a decimal: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("16.00")) {
		t.Errorf("expected total 16.00, got %s", total)
	}
	if summary["order_count"].(float64) != 2 {
		t.Errorf("expected 2 orders, got %v", summary["order_count"])
	}

	trend := data["trend"].(map[string]any)
	if trend["direction"] != "up" {
		t.Errorf("expected flat trend to report up, got %v", trend["direction"])
	}
}

func TestAPIHandlers_HandleSummary_CategoryFilter(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/summary?category=水果", nil)
	w := httptest.NewRecorder()

	handlers.HandleSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	summary := data["summary"].(map[string]any)
	if summary["order_count"].(float64) != 1 {
		t.Errorf("expected 1 order after category filter, got %v", summary["order_count"])
	}
}

func TestAPIHandlers_HandleSummary_InvalidDate(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/summary?start=01-01-2024", nil)
	w := httptest.NewRecorder()

	handlers.HandleSummary(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	response := decodeEnvelope(t, w)
	if response["success"] != false {
		t.Error("expected success=false")
	}
}

func TestAPIHandlers_HandleDailySales(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/daily-sales", nil)
	w := httptest.NewRecorder()

	handlers.HandleDailySales(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(data))
	}
}

func TestAPIHandlers_HandleCitySales(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/city-sales?region=北京", nil)
	w := httptest.NewRecorder()

	handlers.HandleCitySales(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected 1 city, got %d", len(data))
	}

	city := data[0].(map[string]any)
	if city["city"] != "北京" {
		t.Errorf("expected 北京, got %v", city["city"])
	}
	if city["lat"].(float64) != 39.9042 {
		t.Errorf("expected latitude 39.9042, got %v", city["lat"])
	}
}

func TestAPIHandlers_HandleOrders_Search(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/orders?q=土豆", nil)
	w := httptest.NewRecorder()

	handlers.HandleOrders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected 1 order, got %d", len(data))
	}
	order := data[0].(map[string]any)
	if order["product"] != "土豆" {
		t.Errorf("expected 土豆, got %v", order["product"])
	}
}

func TestAPIHandlers_HandleOrders_InvalidLimit(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/orders?limit=zero", nil)
	w := httptest.NewRecorder()

	handlers.HandleOrders(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAPIHandlers_HandleMeta(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/meta", nil)
	w := httptest.NewRecorder()

	handlers.HandleMeta(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	categories := data["categories"].([]any)
	if len(categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(categories))
	}
	regions := data["regions"].([]any)
	if len(regions) != 2 {
		t.Errorf("expected 2 regions, got %d", len(regions))
	}
	if data["record_count"].(float64) != 2 {
		t.Errorf("expected record_count 2, got %v", data["record_count"])
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	if data["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", data["status"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	if data["record_count"].(float64) != 2 {
		t.Errorf("expected record_count 2, got %v", data["record_count"])
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"supermart-dashboard/internal/models"
)

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewSSEHandlers(analytics, testLogger())

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewSSEHandlers() should set analytics field")
	}
}

func TestSSEHandlers_renderOrdersTable(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	orders := []models.SalesRecord{
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
	}

	html, err := handlers.renderOrdersTable(orders)
	if err != nil {
		t.Fatalf("renderOrdersTable() failed: %v", err)
	}

	expectedContent := []string{
		`<table class="modern-table">`,
		"<th>日期</th>",
		"<th>商品名称</th>",
		"<th>总金额</th>",
		"2024-01-02",
		"土豆",
		"上海",
		"6.00",
		"苹果",
		"10.00",
	}

	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestSSEHandlers_renderOrdersTable_TruncatesLargeView(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	orders := make([]models.SalesRecord, maxOrderRows+25)
	for i := range orders {
		orders[i] = models.SalesRecord{
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Day:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Category:    "水果",
			Product:     "苹果",
			City:        "北京",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("5.00"),
			TotalAmount: decimal.RequireFromString("5.00"),
		}
	}

	html, err := handlers.renderOrdersTable(orders)
	if err != nil {
		t.Fatalf("renderOrdersTable() failed: %v", err)
	}

	if rows := strings.Count(html, "<tr>") - 1; rows != maxOrderRows {
		t.Errorf("expected %d body rows, got %d", maxOrderRows, rows)
	}
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}

	body := w.Body.String()
	for _, content := range []string{"summary", "dailyData", "categoryData", "cityData", "orders-content"} {
		if !strings.Contains(body, content) {
			t.Errorf("expected SSE body to contain %q", content)
		}
	}
}

func TestSSEHandlers_HandleDashboard_WithCriteria(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard?category=水果", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "苹果") {
		t.Error("expected filtered dashboard to contain the apple order")
	}
	if strings.Contains(body, "土豆") {
		t.Error("expected filtered dashboard to exclude the potato order")
	}
}

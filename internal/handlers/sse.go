package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"supermart-dashboard/internal/models"
	"supermart-dashboard/internal/services"
)

const maxOrderRows = 50

var ordersTableTemplate = template.Must(template.New("ordersTable").Parse(`
<div id="orders-content">
<table class="modern-table">
<thead><tr><th>日期</th><th>产品类别</th><th>商品名称</th><th>销售地区</th><th>销售数量</th><th>单价</th><th>总金额</th></tr></thead>
<tbody>
{{range .Orders}}<tr>
<td>{{.Date.Format "2006-01-02"}}</td>
<td><span class="category-badge">{{.Category}}</span></td>
<td>{{.Product}}</td>
<td>{{.City}}</td>
<td>{{.Quantity}}</td>
<td>¥{{.UnitPrice}}</td>
<td><strong>¥{{.TotalAmount}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type ordersTemplateData struct {
	Orders []models.SalesRecord
}

func (h *SSEHandlers) renderOrdersTable(orders []models.SalesRecord) (string, error) {
	if len(orders) > maxOrderRows {
		orders = orders[:maxOrderRows]
	}

	var buf strings.Builder
	err := ordersTableTemplate.Execute(&buf, ordersTemplateData{Orders: orders})
	return buf.String(), err
}

// HandleDashboard pushes all derived views for the request's criteria in one
// SSE response: the chart data as signals and the latest-orders table as a
// rendered fragment.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	c, err := buildCriteria(r, h.analytics)
	if err != nil {
		h.logger.Error("build filter criteria", "error", err)
		return
	}

	data, err := h.analytics.Dashboard(r.Context(), c)
	if err != nil {
		h.logger.Error("compute dashboard views", "error", err)
		return
	}

	signals, err := json.Marshal(map[string]any{
		"summary":      data.Summary,
		"trend":        data.Trend,
		"dailyData":    data.Daily,
		"categoryData": data.Categories,
		"cityData":     data.Cities,
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	orders, err := h.analytics.Orders(r.Context(), c, maxOrderRows)
	if err != nil {
		h.logger.Error("compute latest orders", "error", err)
		return
	}

	html, err := h.renderOrdersTable(orders)
	if err != nil {
		h.logger.Error("render orders table", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"supermart-dashboard/internal/errors"
	"supermart-dashboard/internal/observability"
	"supermart-dashboard/internal/services"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 500
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=60",
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	c, err := buildCriteria(r, h.analytics)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, trend, err := h.analytics.Summary(r.Context(), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"summary": summary,
		"trend":   trend,
	}, cacheHeaders)
}

func (h *APIHandlers) HandleDailySales(w http.ResponseWriter, r *http.Request) {
	c, err := buildCriteria(r, h.analytics)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	daily, err := h.analytics.DailySales(r.Context(), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, daily, cacheHeaders)
}

func (h *APIHandlers) HandleCategorySales(w http.ResponseWriter, r *http.Request) {
	c, err := buildCriteria(r, h.analytics)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	categories, err := h.analytics.CategorySales(r.Context(), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, categories, cacheHeaders)
}

func (h *APIHandlers) HandleCitySales(w http.ResponseWriter, r *http.Request) {
	c, err := buildCriteria(r, h.analytics)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cities, err := h.analytics.CitySales(r.Context(), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, cities, cacheHeaders)
}

func (h *APIHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	c, err := buildCriteria(r, h.analytics)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	limit := defaultOrderLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			h.writeError(w, r, errors.BadRequest("invalid limit, want a positive integer"))
			return
		}
		if limit > maxOrderLimit {
			limit = maxOrderLimit
		}
	}

	orders, err := h.analytics.Orders(r.Context(), c, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	errors.WriteSuccess(w, orders)
}

func (h *APIHandlers) HandleMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.analytics.Meta(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, meta, cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

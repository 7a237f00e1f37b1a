package analytics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/leadsathi/internal/response"

	"github.com/sirupsen/logrus"
)

// Actions lists every query action in capability-listing order.
var Actions = []string{"overview", "sources", "businessTypes", "trend", "recent", "stats"}

// Handler dispatches GET requests to the analytics service by ?action=.
type Handler struct {
	service        *Service
	maxTrendDays   int
	maxRecentLimit int
	now            func() time.Time
	logger         logrus.FieldLogger
}

type HandlerOption func(*Handler)

// WithLimits caps the days and limit parameters.
func WithLimits(maxTrendDays, maxRecentLimit int) HandlerOption {
	return func(h *Handler) {
		if maxTrendDays > 0 {
			h.maxTrendDays = maxTrendDays
		}
		if maxRecentLimit > 0 {
			h.maxRecentLimit = maxRecentLimit
		}
	}
}

func WithHandlerLogger(logger logrus.FieldLogger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHTTPHandler wraps the service with the query router.
func NewHTTPHandler(service *Service, opts ...HandlerOption) http.Handler {
	h := &Handler{
		service:        service,
		maxTrendDays:   365,
		maxRecentLimit: 500,
		now:            time.Now,
		logger:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.write(w, http.StatusMethodNotAllowed, false, "method not allowed", nil)
		return
	}

	query := r.URL.Query()
	action := query.Get("action")
	if action == "" {
		h.write(w, http.StatusOK, true, "LeadSathi API is active", map[string]any{
			"endpoints": Actions,
		})
		return
	}

	ctx := r.Context()
	var (
		message string
		data    any
		err     error
	)
	switch action {
	case "overview":
		message = "Overview data"
		data, err = h.service.Overview(ctx)
	case "sources":
		message = "Lead sources data"
		data, err = h.service.Sources(ctx)
	case "businessTypes":
		message = "Business types data"
		data, err = h.service.BusinessTypes(ctx)
	case "trend":
		days := clamp(positiveInt(query.Get("days"), DefaultTrendDays), h.maxTrendDays)
		message = "Trend data"
		data, err = h.service.Trend(ctx, days)
	case "recent":
		limit := clamp(positiveInt(query.Get("limit"), DefaultRecentLimit), h.maxRecentLimit)
		message = "Recent leads"
		data, err = h.service.Recent(ctx, limit)
	case "stats":
		message = "Statistics"
		data, err = h.service.Stats(ctx)
	default:
		h.write(w, http.StatusBadRequest, false, "Invalid action parameter", nil)
		return
	}

	if err != nil {
		h.logger.WithError(err).WithField("action", action).Error("analytics query failed")
		h.write(w, http.StatusInternalServerError, false, "Server error: "+err.Error(), nil)
		return
	}

	h.write(w, http.StatusOK, true, message, data)
}

func (h *Handler) write(w http.ResponseWriter, status int, success bool, message string, data any) {
	response.Write(w, status, response.New(h.now(), success, message, data))
}

// positiveInt parses raw, falling back to def when it is absent, not an
// integer, zero, or negative.
func positiveInt(raw string, def int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return def
	}
	return value
}

func clamp(value, max int) int {
	if value > max {
		return max
	}
	return value
}

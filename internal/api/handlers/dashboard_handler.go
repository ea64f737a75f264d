package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/api/middleware"
	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/filter"
	"github.com/andresuchdata/sales-dashboard/internal/service"
	"github.com/andresuchdata/sales-dashboard/internal/timebucket"
	"github.com/andresuchdata/sales-dashboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *service.DashboardService
	now     func() time.Time
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service, now: time.Now}
}

// CreateSession starts a session for the caller's access scope.
func (h *DashboardHandler) CreateSession(c *gin.Context) {
	state, err := h.service.CreateSession(c.Request.Context(), middleware.ScopeFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": state.ID,
		"scope":      state.Scope,
	})
}

// GetSession returns the session's scope and load status.
func (h *DashboardHandler) GetSession(c *gin.Context) {
	state, err := h.service.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": state.ID,
		"scope":      state.Scope,
		"loaded":     state.Loaded,
		"loaded_at":  state.LoadedAt,
		"range":      state.Range,
		"rows":       len(state.Records),
	})
}

// Bounds of a date filter given with only one side. The dashboard clips
// them to the loaded window.
const (
	openStart = "0001-01-01"
	openEnd   = "9999-12-31"
)

type loadRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Load fetches the requested date range into the session. Dates come from
// the query string or a JSON body, query first. Without dates the current
// month to date is loaded.
func (h *DashboardHandler) Load(c *gin.Context) {
	dates := domain.MonthToDate(h.now())
	start, end := strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end"))
	if start == "" && end == "" && c.Request.ContentLength != 0 {
		var body loadRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		start, end = strings.TrimSpace(body.Start), strings.TrimSpace(body.End)
	}
	if start != "" || end != "" {
		if start == "" {
			start = dates.Start.Format("2006-01-02")
		}
		if end == "" {
			end = dates.End.Format("2006-01-02")
		}
		parsed, err := domain.ParseDateRange(start, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range", "details": err.Error()})
			return
		}
		dates = parsed
	}

	result, err := h.service.Load(c.Request.Context(), c.Param("id"), dates)
	if errors.Is(err, domain.ErrEmptyResult) {
		c.JSON(http.StatusOK, gin.H{
			"rows":       0,
			"date_range": dates,
			"warning":    err.Error(),
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reset clears the session's data.
func (h *DashboardHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// GetOptions returns the selectable filter values for the current filters.
func (h *DashboardHandler) GetOptions(c *gin.Context) {
	filters, err := parseFilterSet(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filters", "details": err.Error()})
		return
	}

	opts, err := h.service.Options(c.Request.Context(), c.Param("id"), filters)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GetDashboard renders pivots and chart series for the current view.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	req, err := parseDashboardRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dashboard request", "details": err.Error()})
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func parseDashboardRequest(c *gin.Context) (service.DashboardRequest, error) {
	mode, err := domain.ParseViewMode(c.Query("mode"))
	if err != nil {
		return service.DashboardRequest{}, err
	}
	granularity, err := timebucket.Parse(c.Query("view"))
	if err != nil {
		return service.DashboardRequest{}, err
	}
	filters, err := parseFilterSet(c)
	if err != nil {
		return service.DashboardRequest{}, err
	}

	compareBy := domain.DimensionProduct
	if raw := strings.TrimSpace(c.Query("compare")); raw != "" {
		dim, err := domain.ParseDimension(raw)
		if err != nil || (dim != domain.DimensionProduct && dim != domain.DimensionSKU) {
			return service.DashboardRequest{}, errors.New("compare must be product or sku")
		}
		compareBy = dim
	}

	return service.DashboardRequest{
		Mode:              mode,
		Granularity:       granularity,
		Filters:           filters,
		LookupProduct:     strings.TrimSpace(c.Query("lookup_product")),
		LookupSupermarket: strings.TrimSpace(c.Query("lookup_supermarket")),
		LookupSKU:         strings.TrimSpace(c.Query("lookup_sku")),
		CompareBy:         compareBy,
	}, nil
}

// parseFilterSet reads one multi-value parameter per dimension, accepting
// both ?sku=A&sku=B and ?sku=A,B, plus an optional start/end date range.
// A range with one side given is open on the other.
func parseFilterSet(c *gin.Context) (filter.Set, error) {
	set := filter.NewSet()
	for _, dim := range domain.Dimensions {
		if values := queryList(c, string(dim)); len(values) > 0 {
			set = set.With(dim, values...)
		}
	}

	start, end := strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end"))
	if start != "" || end != "" {
		if start == "" {
			start = openStart
		}
		if end == "" {
			end = openEnd
		}
		dates, err := domain.ParseDateRange(start, end)
		if err != nil {
			return filter.Set{}, err
		}
		set = set.WithDates(dates)
	}
	return set, nil
}

func queryList(c *gin.Context, param string) []string {
	var values []string
	seen := make(map[string]struct{})
	for _, raw := range c.QueryArray(param) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	}
	return values
}

func writeError(c *gin.Context, err error) {
	var (
		backendErr *domain.BackendError
		unknownErr *domain.UnknownError
	)
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotLoaded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &backendErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch sales data", "details": backendErr.Message})
	case errors.As(err, &unknownErr):
		logger.Log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected fetch failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error while fetching sales data"})
	default:
		logger.Log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

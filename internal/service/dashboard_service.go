package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/access"
	"github.com/andresuchdata/sales-dashboard/internal/cache"
	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/filter"
	"github.com/andresuchdata/sales-dashboard/internal/metrics"
	"github.com/andresuchdata/sales-dashboard/internal/session"
	"github.com/andresuchdata/sales-dashboard/internal/timebucket"
	"github.com/andresuchdata/sales-dashboard/pkg/logger"
)

// RecordFetcher loads a full date range of the dataset.
type RecordFetcher interface {
	FetchAll(ctx context.Context, dataset string, dates domain.DateRange) ([]domain.SalesRecord, error)
}

// DashboardRequest is one render of the dashboard. Empty lookup selections
// fall back to the first available option.
type DashboardRequest struct {
	Mode              domain.ViewMode
	Granularity       timebucket.Granularity
	Filters           filter.Set
	LookupProduct     string
	LookupSupermarket string
	LookupSKU         string
	CompareBy         domain.Dimension
}

// LoadResult summarises a load action.
type LoadResult struct {
	Rows      int              `json:"rows"`
	DateRange domain.DateRange `json:"date_range"`
	Options   filter.Options   `json:"options"`
}

type DashboardService struct {
	fetcher RecordFetcher
	store   cache.SessionStore
	dataset string
	now     func() time.Time
}

func NewDashboardService(fetcher RecordFetcher, store cache.SessionStore, dataset string) *DashboardService {
	return &DashboardService{
		fetcher: fetcher,
		store:   store,
		dataset: dataset,
		now:     time.Now,
	}
}

// CreateSession starts a session bound to the access scope.
func (s *DashboardService) CreateSession(ctx context.Context, scope access.Scope) (*session.State, error) {
	if err := scope.Authorize(); err != nil {
		return nil, err
	}

	state := session.New(scope, s.now())
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	logger.Log.Info().Str("session_id", state.ID).Str("role", string(scope.Role)).Msg("session created")
	return state, nil
}

// Load replaces the session's dataset with a fresh fetch of dates. Any
// failure, including an empty result, leaves the session reset.
func (s *DashboardService) Load(ctx context.Context, sessionID string, dates domain.DateRange) (*LoadResult, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Reset()
	records, err := s.fetchScoped(ctx, state.Scope, dates)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues(loadOutcome(err)).Inc()
		if saveErr := s.store.Save(ctx, state); saveErr != nil {
			logger.Log.Error().Err(saveErr).Str("session_id", sessionID).Msg("failed to save reset session")
		}
		if errors.Is(err, domain.ErrEmptyResult) {
			logger.Log.Warn().Str("session_id", sessionID).Str("range", dates.String()).Msg("no data for range")
		}
		return nil, err
	}

	state.Populate(dates, records, s.now())
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	logger.Log.Info().Str("session_id", sessionID).Str("range", dates.String()).Int("rows", len(records)).Msg("data loaded")

	return &LoadResult{Rows: len(records), DateRange: dates, Options: state.Options}, nil
}

func (s *DashboardService) fetchScoped(ctx context.Context, scope access.Scope, dates domain.DateRange) ([]domain.SalesRecord, error) {
	records, err := s.fetcher.FetchAll(ctx, s.dataset, dates)
	if err != nil {
		return nil, err
	}

	usable := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if r.ProductName != "" {
			usable = append(usable, r)
		}
	}

	scoped, err := scope.Apply(usable)
	if err != nil {
		return nil, err
	}
	if len(scoped) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return scoped, nil
}

func loadOutcome(err error) string {
	var backendErr *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrEmptyResult):
		return "empty"
	case errors.Is(err, domain.ErrAccessDenied):
		return "denied"
	case errors.As(err, &backendErr):
		return "backend_error"
	default:
		return "error"
	}
}

// Reset clears the session's dataset and derived lists.
func (s *DashboardService) Reset(ctx context.Context, sessionID string) error {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	state.Reset()
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Session returns the stored state.
func (s *DashboardService) Session(ctx context.Context, sessionID string) (*session.State, error) {
	return s.store.Get(ctx, sessionID)
}

// Options returns the option lists narrowed by the current filters.
func (s *DashboardService) Options(ctx context.Context, sessionID string, filters filter.Set) (filter.Options, error) {
	state, err := s.loadedState(ctx, sessionID)
	if err != nil {
		return filter.Options{}, err
	}
	return state.Options.Narrow(state.Records, filters), nil
}

// Dashboard runs the bucketing, filtering and aggregation pipeline over the
// session's dataset.
func (s *DashboardService) Dashboard(ctx context.Context, sessionID string, req DashboardRequest) (*domain.Dashboard, error) {
	state, err := s.loadedState(ctx, sessionID)
	if err != nil {
		metrics.DashboardBuildsTotal.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	start := time.Now()
	dashboard, err := BuildDashboard(state, req)
	metrics.DashboardBuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DashboardBuildsTotal.WithLabelValues("denied").Inc()
		return nil, err
	}
	metrics.DashboardBuildsTotal.WithLabelValues("ok").Inc()
	return dashboard, nil
}

// Pivot returns a single pivot table of the current view by rowDim.
func (s *DashboardService) Pivot(ctx context.Context, sessionID string, req DashboardRequest, rowDim domain.Dimension) (domain.PivotTable, error) {
	state, err := s.loadedState(ctx, sessionID)
	if err != nil {
		return domain.PivotTable{}, err
	}
	return BuildPivot(state, req, rowDim)
}

func (s *DashboardService) loadedState(ctx context.Context, sessionID string) (*session.State, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !state.HasData() {
		return nil, domain.ErrNotLoaded
	}
	return state, nil
}

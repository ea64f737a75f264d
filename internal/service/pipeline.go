package service

import (
	"github.com/andresuchdata/sales-dashboard/internal/aggregate"
	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/filter"
	"github.com/andresuchdata/sales-dashboard/internal/session"
	"github.com/andresuchdata/sales-dashboard/internal/timebucket"
)

// view is a loaded dataset after the access filter, bucketing and the
// dimension filters have run.
type view struct {
	mode        domain.ViewMode
	granularity timebucket.Granularity
	metric      domain.Metric
	dates       domain.DateRange
	records     []domain.SalesRecord
}

func prepare(state *session.State, req DashboardRequest) (view, error) {
	scoped, err := state.Scope.Apply(state.Records)
	if err != nil {
		return view{}, err
	}

	granularity := req.Granularity
	if granularity == "" {
		granularity = timebucket.Day
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.ViewModeSales
	}

	bucketed := timebucket.Apply(scoped, granularity)

	dates := state.Options.Dates
	if req.Filters.Dates != nil {
		dates = req.Filters.Dates.Clip(state.Options.Dates)
	}
	filters := req.Filters
	if filters.Values == nil {
		filters = filter.NewSet()
	}

	return view{
		mode:        mode,
		granularity: granularity,
		metric:      mode.Metric(),
		dates:       dates,
		records:     filter.Apply(bucketed, filters.WithDates(dates)),
	}, nil
}

// BuildDashboard renders one view of a loaded session: access filter, time
// bucketing, dimension filters, then the pivots and series.
func BuildDashboard(state *session.State, req DashboardRequest) (*domain.Dashboard, error) {
	v, err := prepare(state, req)
	if err != nil {
		return nil, err
	}
	filtered, metric := v.records, v.metric

	compareBy := req.CompareBy
	if compareBy != domain.DimensionSKU {
		compareBy = domain.DimensionProduct
	}

	return &domain.Dashboard{
		Mode:          v.mode,
		Granularity:   string(v.granularity),
		Metric:        metric,
		DateRange:     v.dates,
		RecordCount:   len(filtered),
		BySupermarket: aggregate.Pivot(filtered, domain.DimensionSupermarket, metric),
		BySKU:         aggregate.Pivot(filtered, domain.DimensionSKU, metric),
		Trend:         aggregate.Series(filtered, metric),
		ByProduct:     lookup(filtered, state.Options, domain.DimensionProduct, req.LookupProduct, domain.DimensionSupermarket, metric),
		ByOutlet:      lookup(filtered, state.Options, domain.DimensionSupermarket, req.LookupSupermarket, domain.DimensionProduct, metric),
		ByVariant:     lookup(filtered, state.Options, domain.DimensionSKU, req.LookupSKU, domain.DimensionSKU, metric),
		Comparison: domain.Comparison{
			By:     compareBy,
			Points: aggregate.MultiSeries(filtered, compareBy, metric),
		},
	}, nil
}

// BuildPivot runs the same pipeline as BuildDashboard and pivots the result
// by any dimension.
func BuildPivot(state *session.State, req DashboardRequest, rowDim domain.Dimension) (domain.PivotTable, error) {
	v, err := prepare(state, req)
	if err != nil {
		return domain.PivotTable{}, err
	}
	return aggregate.Pivot(v.records, rowDim, v.metric), nil
}

// lookup pivots the records matching one selected value of dim by rowDim.
// Without a selection the first session option is used; with no options at
// all there is nothing to show.
func lookup(records []domain.SalesRecord, opts filter.Options, dim domain.Dimension, selected string, rowDim domain.Dimension, metric domain.Metric) *domain.Lookup {
	if selected == "" {
		first, ok := opts.First(dim)
		if !ok {
			return nil
		}
		selected = first
	}
	return &domain.Lookup{
		Dimension: dim,
		Selected:  selected,
		Table:     aggregate.Pivot(filter.Where(records, dim, selected), rowDim, metric),
	}
}

package aggregate

import (
	"sort"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Series sums metric per time group, ordered by group key.
func Series(records []domain.SalesRecord, metric domain.Metric) []domain.SeriesPoint {
	return series(records, "", metric)
}

// MultiSeries sums metric per (time group, secondary) pair, ordered by
// group key then secondary value. Records with an empty secondary value
// are skipped.
func MultiSeries(records []domain.SalesRecord, secondary domain.Dimension, metric domain.Metric) []domain.SeriesPoint {
	return series(records, secondary, metric)
}

type seriesKey struct {
	group     int
	secondary string
}

func series(records []domain.SalesRecord, secondary domain.Dimension, metric domain.Metric) []domain.SeriesPoint {
	index := make(map[seriesKey]int)
	points := make([]domain.SeriesPoint, 0)

	for _, r := range records {
		key := seriesKey{group: r.GroupKey}
		if secondary != "" {
			key.secondary = r.Value(secondary)
			if key.secondary == "" {
				continue
			}
		}
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, domain.SeriesPoint{
				Group:     r.Group,
				GroupKey:  r.GroupKey,
				Secondary: key.secondary,
				Value:     decimal.Zero,
			})
		}
		points[i].Value = points[i].Value.Add(r.Amount(metric))
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].GroupKey != points[j].GroupKey {
			return points[i].GroupKey < points[j].GroupKey
		}
		return points[i].Secondary < points[j].Secondary
	})
	return points
}

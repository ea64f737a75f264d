// Package timebucket assigns display groups to sales records by day,
// ISO week or calendar month.
package timebucket

import (
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
)

// Granularity is the bucketing mode of a view.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// Parse defaults to Day for an empty value.
func Parse(raw string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "day":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", raw)
	}
}

// Bucket returns the display label and sortable key of a date. Keys order
// chronologically across years; labels do not.
func Bucket(date time.Time, g Granularity) (string, int) {
	d := domain.TruncateDay(date)
	switch g {
	case Week:
		year, week := d.ISOWeek()
		start := d.AddDate(0, 0, -isoWeekdayOffset(d))
		end := start.AddDate(0, 0, 6)
		label := fmt.Sprintf("Week %02d (%s–%s)", week, start.Format("02/01"), end.Format("02/01"))
		return label, year*100 + week
	case Month:
		label := fmt.Sprintf("Month %02d/%d", int(d.Month()), d.Year())
		return label, d.Year()*100 + int(d.Month())
	default:
		return d.Format("02/01"), d.Year()*10000 + int(d.Month())*100 + d.Day()
	}
}

// isoWeekdayOffset is the number of days since Monday.
func isoWeekdayOffset(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// Apply returns a copy of records with Group and GroupKey set.
func Apply(records []domain.SalesRecord, g Granularity) []domain.SalesRecord {
	out := make([]domain.SalesRecord, len(records))
	for i, r := range records {
		r.Group, r.GroupKey = Bucket(r.ReportDate, g)
		out[i] = r
	}
	return out
}

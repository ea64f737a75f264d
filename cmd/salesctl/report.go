package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/access"
	"github.com/andresuchdata/sales-dashboard/internal/cache"
	"github.com/andresuchdata/sales-dashboard/internal/config"
	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/export"
	"github.com/andresuchdata/sales-dashboard/internal/fetcher"
	"github.com/andresuchdata/sales-dashboard/internal/filter"
	"github.com/andresuchdata/sales-dashboard/internal/repository/postgres"
	"github.com/andresuchdata/sales-dashboard/internal/service"
	"github.com/andresuchdata/sales-dashboard/internal/storage"
	"github.com/andresuchdata/sales-dashboard/internal/timebucket"
	"github.com/andresuchdata/sales-dashboard/pkg/logger"
	"github.com/urfave/cli/v2"
)

var filterFlags = map[string]domain.Dimension{
	"zone-name":   domain.DimensionZone,
	"area-name":   domain.DimensionArea,
	"supermarket": domain.DimensionSupermarket,
	"product":     domain.DimensionProduct,
	"category":    domain.DimensionCategory,
	"sku":         domain.DimensionSKU,
	"system":      domain.DimensionSystem,
}

// newRecordFetcher builds the fetcher behind report and export. Tests
// replace it to run the commands without a database.
var newRecordFetcher = func(c *cli.Context) (service.RecordFetcher, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, errors.New("database connection not initialized")
	}
	return fetcher.New(postgres.NewSalesRepository(db),
		fetcher.WithPageSize(c.Int("page-size")),
		fetcher.WithConcurrency(c.Int("concurrency")),
	), nil
}

// buildReport loads the requested range through a throwaway session and
// returns the pivot table the flags describe.
func buildReport(c *cli.Context) (domain.PivotTable, error) {
	salesFetcher, err := newRecordFetcher(c)
	if err != nil {
		return domain.PivotTable{}, err
	}

	dates, err := reportRange(c.String("start"), c.String("end"), time.Now())
	if err != nil {
		return domain.PivotTable{}, err
	}
	req, rowDim, err := reportRequest(c)
	if err != nil {
		return domain.PivotTable{}, err
	}

	svc := service.NewDashboardService(salesFetcher, cache.NewMemorySessionStore(time.Hour), c.String("dataset"))

	state, err := svc.CreateSession(c.Context, access.ParseScope(c.String("role"), c.String("zone"), c.String("area")))
	if err != nil {
		return domain.PivotTable{}, err
	}
	result, err := svc.Load(c.Context, state.ID, dates)
	if err != nil {
		return domain.PivotTable{}, err
	}
	logger.Log.Info().
		Int("rows", result.Rows).
		Str("range", dates.String()).
		Msg("Loaded sales data")

	return svc.Pivot(c.Context, state.ID, req, rowDim)
}

func reportRange(start, end string, now time.Time) (domain.DateRange, error) {
	dates := domain.MonthToDate(now)
	if start == "" {
		start = dates.Start.Format("2006-01-02")
	}
	if end == "" {
		end = dates.End.Format("2006-01-02")
	}
	return domain.ParseDateRange(start, end)
}

func reportRequest(c *cli.Context) (service.DashboardRequest, domain.Dimension, error) {
	mode, err := domain.ParseViewMode(c.String("mode"))
	if err != nil {
		return service.DashboardRequest{}, "", err
	}
	granularity, err := timebucket.Parse(c.String("view"))
	if err != nil {
		return service.DashboardRequest{}, "", err
	}
	rowDim, err := domain.ParseDimension(c.String("by"))
	if err != nil {
		return service.DashboardRequest{}, "", err
	}
	switch rowDim {
	case domain.DimensionSupermarket, domain.DimensionSKU, domain.DimensionProduct:
	default:
		return service.DashboardRequest{}, "", fmt.Errorf("cannot report by %q: use supermarket, sku or product", rowDim)
	}

	filters := filter.NewSet()
	for flag, dim := range filterFlags {
		if values := c.StringSlice(flag); len(values) > 0 {
			filters = filters.With(dim, values...)
		}
	}

	return service.DashboardRequest{
		Mode:        mode,
		Granularity: granularity,
		Filters:     filters,
	}, rowDim, nil
}

// emptyReport reports whether err only means the range had no visible rows.
// That is a normal outcome for the CLI, not a failure.
func emptyReport(c *cli.Context, err error) bool {
	if !errors.Is(err, domain.ErrEmptyResult) {
		return false
	}
	logger.Log.Warn().
		Str("start", c.String("start")).
		Str("end", c.String("end")).
		Str("role", c.String("role")).
		Msg("No sales data for the requested range")
	return true
}

func runReport(c *cli.Context) error {
	table, err := buildReport(c)
	if emptyReport(c, err) {
		return nil
	}
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "csv":
		return export.WriteCSV(c.App.Writer, table)
	case "table", "":
		fmt.Fprintln(c.App.Writer, export.RenderTable(table))
		return nil
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func runExport(c *cli.Context) error {
	table, err := buildReport(c)
	if emptyReport(c, err) {
		return nil
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		return err
	}

	out := c.String("out")
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Log.Info().Str("file", out).Int("rows", len(table.Rows)).Msg("Report written")

	if !c.Bool("upload") {
		return nil
	}

	cfg := config.Load().Export
	if !cfg.Enabled() {
		return errors.New("upload requested but EXPORT_ENDPOINT and EXPORT_BUCKET are not set")
	}
	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		return err
	}
	key, err := client.UploadObject(c.Context, filepath.Base(out), buf.Bytes(), "text/csv")
	if err != nil {
		return err
	}
	logger.Log.Info().Str("bucket", cfg.Bucket).Str("key", key).Msg("Report uploaded")
	return nil
}

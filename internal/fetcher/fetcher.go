// Package fetcher pulls a complete date range of the sales dataset through
// fixed-size range reads.
package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/metrics"
	"github.com/andresuchdata/sales-dashboard/internal/repository"
	"github.com/andresuchdata/sales-dashboard/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const DefaultPageSize = 1000

type Fetcher struct {
	repo        repository.SalesRepository
	pageSize    int
	concurrency int
}

type Option func(*Fetcher)

// WithPageSize overrides the number of rows per range read.
func WithPageSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithConcurrency lets up to n pages be read at once. Pages are still
// concatenated in offset order.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

func New(repo repository.SalesRepository, opts ...Option) *Fetcher {
	f := &Fetcher{
		repo:        repo,
		pageSize:    DefaultPageSize,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll returns every row of dataset inside dates, reading pages until
// one comes back empty. On error nothing is returned: backend failures are
// *domain.BackendError, anything else *domain.UnknownError. A range with no
// rows yields domain.ErrEmptyResult.
func (f *Fetcher) FetchAll(ctx context.Context, dataset string, dates domain.DateRange) ([]domain.SalesRecord, error) {
	start := time.Now()
	defer func() { metrics.FetchDuration.Observe(time.Since(start).Seconds()) }()

	var (
		records []domain.SalesRecord
		pages   int
		err     error
	)
	if f.concurrency > 1 {
		records, pages, err = f.fetchWindowed(ctx, dataset, dates)
	} else {
		records, pages, err = f.fetchSequential(ctx, dataset, dates)
	}
	if err != nil {
		metrics.FetchPagesTotal.WithLabelValues("error").Inc()
		logger.Log.Error().Err(err).Str("dataset", dataset).Str("range", dates.String()).Int("pages", pages).Msg("fetch failed")
		return nil, classify(err)
	}

	metrics.FetchRowsTotal.Add(float64(len(records)))
	logger.Log.Debug().
		Str("dataset", dataset).
		Str("range", dates.String()).
		Int("pages", pages).
		Int("rows", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("fetch completed")

	if len(records) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return records, nil
}

func (f *Fetcher) fetchSequential(ctx context.Context, dataset string, dates domain.DateRange) ([]domain.SalesRecord, int, error) {
	var (
		all    []domain.SalesRecord
		offset int
		pages  int
	)
	for {
		page, err := f.repo.FetchPage(ctx, dataset, dates, offset, f.pageSize)
		pages++
		if err != nil {
			return nil, pages, err
		}
		if len(page) == 0 {
			metrics.FetchPagesTotal.WithLabelValues("empty").Inc()
			return all, pages, nil
		}
		metrics.FetchPagesTotal.WithLabelValues("ok").Inc()
		all = append(all, page...)
		offset += f.pageSize
	}
}

// fetchWindowed reads f.concurrency pages at a time. Each page is an
// independent range read, so a window may overshoot the end of the data;
// everything after the first empty page is discarded.
func (f *Fetcher) fetchWindowed(ctx context.Context, dataset string, dates domain.DateRange) ([]domain.SalesRecord, int, error) {
	var (
		all    []domain.SalesRecord
		offset int
		pages  int
	)
	for {
		window := make([][]domain.SalesRecord, f.concurrency)
		g, gctx := errgroup.WithContext(ctx)
		for i := range window {
			i := i
			pageOffset := offset + i*f.pageSize
			g.Go(func() error {
				page, err := f.repo.FetchPage(gctx, dataset, dates, pageOffset, f.pageSize)
				if err != nil {
					return err
				}
				window[i] = page
				return nil
			})
		}
		pages += len(window)
		if err := g.Wait(); err != nil {
			return nil, pages, err
		}

		for _, page := range window {
			if len(page) == 0 {
				metrics.FetchPagesTotal.WithLabelValues("empty").Inc()
				return all, pages, nil
			}
			metrics.FetchPagesTotal.WithLabelValues("ok").Inc()
			all = append(all, page...)
		}
		offset += len(window) * f.pageSize
	}
}

func classify(err error) error {
	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		return backendErr
	}
	var unknownErr *domain.UnknownError
	if errors.As(err, &unknownErr) {
		return unknownErr
	}
	return &domain.UnknownError{Err: err}
}

package repository

import (
	"context"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
)

// SalesRepository reads the sales summary dataset one page at a time.
// FetchPage returns the rows at [offset, offset+limit-1] of the dataset
// restricted to the inclusive date range; an empty page marks the end.
type SalesRepository interface {
	FetchPage(ctx context.Context, dataset string, dates domain.DateRange, offset, limit int) ([]domain.SalesRecord, error)
}

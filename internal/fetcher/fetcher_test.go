package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository serves a fixed slice of rows by offset and records every
// requested offset.
type fakeRepository struct {
	mu      sync.Mutex
	rows    []domain.SalesRecord
	offsets []int
	failAt  int
	err     error
}

func newFakeRepository(n int) *fakeRepository {
	rows := make([]domain.SalesRecord, n)
	for i := range rows {
		rows[i] = domain.SalesRecord{
			ReportDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ProductName: fmt.Sprintf("P%05d", i),
			Quantity:    1,
		}
	}
	return &fakeRepository{rows: rows, failAt: -1}
}

func (f *fakeRepository) FetchPage(ctx context.Context, dataset string, dates domain.DateRange, offset, limit int) ([]domain.SalesRecord, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)
	f.mu.Unlock()

	if f.failAt >= 0 && offset >= f.failAt {
		return nil, f.err
	}
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return append([]domain.SalesRecord(nil), f.rows[offset:end]...), nil
}

func (f *fakeRepository) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]int(nil), f.offsets...)
	sort.Ints(out)
	return out
}

var march = domain.DateRange{
	Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
}

func TestFetchAllPagination(t *testing.T) {
	tests := []struct {
		name         string
		rows         int
		pageSize     int
		wantRequests int
	}{
		{"partial last page", 2500, 1000, 4},
		{"exact multiple", 2000, 1000, 3},
		{"single short page", 10, 1000, 2},
		{"page size one", 3, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository(tt.rows)
			f := New(repo, WithPageSize(tt.pageSize))

			records, err := f.FetchAll(context.Background(), "sales", march)
			require.NoError(t, err)
			assert.Equal(t, repo.rows, records)
			assert.Len(t, repo.requested(), tt.wantRequests)
		})
	}
}

func TestFetchAllEmpty(t *testing.T) {
	repo := newFakeRepository(0)
	records, err := New(repo).FetchAll(context.Background(), "sales", march)

	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Nil(t, records)
	assert.Equal(t, []int{0}, repo.requested())
}

func TestFetchAllBackendError(t *testing.T) {
	repo := newFakeRepository(2500)
	repo.failAt = 1000
	repo.err = &domain.BackendError{Message: "relation \"sales\" does not exist"}

	records, err := New(repo, WithPageSize(1000)).FetchAll(context.Background(), "sales", march)
	assert.Nil(t, records)

	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "relation \"sales\" does not exist", backendErr.Message)
}

func TestFetchAllUnknownError(t *testing.T) {
	repo := newFakeRepository(10)
	repo.failAt = 0
	repo.err = errors.New("connection reset")

	records, err := New(repo).FetchAll(context.Background(), "sales", march)
	assert.Nil(t, records)

	var unknownErr *domain.UnknownError
	require.ErrorAs(t, err, &unknownErr)
	assert.EqualError(t, unknownErr.Err, "connection reset")
}

func TestFetchAllWindowed(t *testing.T) {
	repo := newFakeRepository(2500)
	f := New(repo, WithPageSize(1000), WithConcurrency(4))

	records, err := f.FetchAll(context.Background(), "sales", march)
	require.NoError(t, err)
	assert.Equal(t, repo.rows, records)
	assert.Equal(t, []int{0, 1000, 2000, 3000}, repo.requested())
}

func TestFetchAllWindowedSpansSeveralWindows(t *testing.T) {
	repo := newFakeRepository(5)
	f := New(repo, WithPageSize(1), WithConcurrency(2))

	records, err := f.FetchAll(context.Background(), "sales", march)
	require.NoError(t, err)
	assert.Equal(t, repo.rows, records)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, repo.requested())
}

func TestOptionsIgnoreNonPositive(t *testing.T) {
	f := New(newFakeRepository(0), WithPageSize(0), WithConcurrency(-1))
	assert.Equal(t, DefaultPageSize, f.pageSize)
	assert.Equal(t, 1, f.concurrency)
}

package service

import (
	"time"

	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/repo"
)

// statusFilter expands a status query value into the concrete statuses to
// match. Canonical values pass through; the three coarse buckets expand;
// absent or "all" means no filter.
func statusFilter(status string) []models.OrderStatus {
	switch status {
	case "", "all", "All Orders":
		return nil
	case "completed":
		return []models.OrderStatus{models.StatusDelivered}
	case "processing":
		return []models.OrderStatus{models.StatusPending, models.StatusShipped, models.StatusOutForDelivery}
	case "cancelled":
		return []models.OrderStatus{models.StatusCancelled}
	}

	s := models.OrderStatus(status)
	switch s {
	case models.StatusPending, models.StatusShipped, models.StatusOutForDelivery,
		models.StatusDelivered, models.StatusCancelled:
		return []models.OrderStatus{s}
	}
	return nil
}

// periodRange resolves a relative period shorthand into an absolute
// [start, end] window. Unknown values yield no window: the filter is
// silently ignored, not an error.
func periodRange(now time.Time, period string) (*time.Time, *time.Time) {
	loc := now.Location()

	switch period {
	case "last_month":
		// full previous calendar month; time.Date normalizes January
		// back into December of the prior year
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start := firstOfThis.AddDate(0, -1, 0)
		end := firstOfThis.Add(-time.Millisecond)
		return &start, &end

	case "last_three_months":
		start := time.Date(now.Year(), now.Month()-3, 1, 0, 0, 0, 0, loc)
		end := now
		return &start, &end

	case "last_six_months":
		start := time.Date(now.Year(), now.Month()-6, 1, 0, 0, 0, 0, loc)
		end := now
		return &start, &end

	case "last_year":
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
		end := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
		return &start, &end
	}

	return nil, nil
}

// sortKey maps both the new-style values and the legacy label strings onto
// a repo sort; anything unrecognized falls back to newest-first.
func sortKey(sortBy string) repo.OrderSort {
	switch sortBy {
	case "oldest", "Oldest":
		return repo.SortOldest
	case "price_desc", "Price (High to Low)":
		return repo.SortPriceDesc
	case "price_asc", "Price (Low to High)":
		return repo.SortPriceAsc
	default:
		return repo.SortNewest
	}
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

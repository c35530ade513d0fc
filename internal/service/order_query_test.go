package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/repo"
)

func TestStatusFilter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status string
		want   []models.OrderStatus
	}{
		{"empty means no filter", "", nil},
		{"all means no filter", "all", nil},
		{"legacy all label", "All Orders", nil},
		{"completed bucket", "completed", []models.OrderStatus{models.StatusDelivered}},
		{"processing bucket", "processing", []models.OrderStatus{
			models.StatusPending, models.StatusShipped, models.StatusOutForDelivery,
		}},
		{"cancelled bucket", "cancelled", []models.OrderStatus{models.StatusCancelled}},
		{"canonical passthrough", "Shipped", []models.OrderStatus{models.StatusShipped}},
		{"canonical with space", "Out for Delivery", []models.OrderStatus{models.StatusOutForDelivery}},
		{"unknown ignored", "bogus", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, statusFilter(tc.status))
		})
	}
}

func TestPeriodRangeLastMonthAcrossYear(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)
	start, end := periodRange(now, "last_month")

	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, time.Date(2023, time.December, 31, 23, 59, 59, 999000000, time.UTC), *end)
}

func TestPeriodRangeLastMonthMidYear(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC)
	start, end := periodRange(now, "last_month")

	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, time.Date(2024, time.June, 30, 23, 59, 59, 999000000, time.UTC), *end)
}

func TestPeriodRangeThreeAndSixMonths(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.February, 20, 12, 0, 0, 0, time.UTC)

	start, end := periodRange(now, "last_three_months")
	require.NotNil(t, start)
	assert.Equal(t, time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, now, *end)

	start, end = periodRange(now, "last_six_months")
	require.NotNil(t, start)
	assert.Equal(t, time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, now, *end)
}

func TestPeriodRangeLastYear(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	start, end := periodRange(now, "last_year")

	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, time.Date(2023, time.December, 31, 23, 59, 59, 999000000, time.UTC), *end)
}

func TestPeriodRangeUnknownIsIgnored(t *testing.T) {
	t.Parallel()

	start, end := periodRange(time.Now(), "fortnight")
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestSortKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want repo.OrderSort
	}{
		{"", repo.SortNewest},
		{"newest", repo.SortNewest},
		{"oldest", repo.SortOldest},
		{"Oldest", repo.SortOldest},
		{"price_desc", repo.SortPriceDesc},
		{"Price (High to Low)", repo.SortPriceDesc},
		{"price_asc", repo.SortPriceAsc},
		{"Price (Low to High)", repo.SortPriceAsc},
		{"garbage", repo.SortNewest},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sortKey(tc.in), "sortBy=%q", tc.in)
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(3), totalPages(25, 10))
	assert.Equal(t, int64(1), totalPages(10, 10))
	assert.Equal(t, int64(2), totalPages(11, 10))
	assert.Equal(t, int64(0), totalPages(0, 10))
	assert.Equal(t, int64(0), totalPages(25, 0))
}

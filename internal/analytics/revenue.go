package analytics

import (
	"sort"
	"time"

	"brewtab-analytics-service/internal/store"
)

// RevenueSeries is one chart-ready rollup: chronological labels and values
// plus current-vs-previous growth.
type RevenueSeries struct {
	Labels        []string  `json:"labels"`
	Data          []float64 `json:"data"`
	Current       float64   `json:"current"`
	Previous      float64   `json:"previous"`
	GrowthPercent float64   `json:"growthPercent"`
}

// MonthlyRevenue buckets completed-order totals by calendar month,
// keeping the most recent 6 buckets.
func MonthlyRevenue(orders []store.Order) RevenueSeries {
	return rollupRevenue(orders, monthKey, monthLabel, 6)
}

// WeeklyRevenue buckets completed-order totals by ISO week,
// keeping the most recent 8 buckets.
func WeeklyRevenue(orders []store.Order) RevenueSeries {
	return rollupRevenue(orders, isoWeekKey, isoWeekLabel, 8)
}

func rollupRevenue(orders []store.Order, key func(time.Time) int, label func(time.Time) string, keep int) RevenueSeries {
	type bucket struct {
		key   int
		label string
		total float64
	}

	byKey := map[int]*bucket{}
	for _, order := range orders {
		if order.Status != store.StatusCompleted {
			continue
		}
		k := key(order.CreatedAt)
		entry, ok := byKey[k]
		if !ok {
			entry = &bucket{key: k, label: label(order.CreatedAt)}
			byKey[k] = entry
		}
		entry.total += order.TotalAmount
	}

	buckets := make([]bucket, 0, len(byKey))
	for _, entry := range byKey {
		buckets = append(buckets, *entry)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key < buckets[j].key })

	if keep > 0 && len(buckets) > keep {
		buckets = buckets[len(buckets)-keep:]
	}

	series := RevenueSeries{
		Labels: make([]string, 0, len(buckets)),
		Data:   make([]float64, 0, len(buckets)),
	}
	for _, entry := range buckets {
		series.Labels = append(series.Labels, entry.label)
		series.Data = append(series.Data, entry.total)
	}
	if len(buckets) > 0 {
		series.Current = buckets[len(buckets)-1].total
	}
	if len(buckets) > 1 {
		series.Previous = buckets[len(buckets)-2].total
	}
	series.GrowthPercent = growthPercent(series.Current, series.Previous)
	return series
}

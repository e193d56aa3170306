package analytics

import (
	"math"
	"sort"
	"time"

	"brewtab-analytics-service/internal/store"
)

type CountSeries struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type OrderDistribution struct {
	Daily             CountSeries `json:"daily"`
	Weekly            CountSeries `json:"weekly"`
	TotalOrders       int64       `json:"totalOrders"`
	CompletedOrders   int64       `json:"completedOrders"`
	CancelledOrders   int64       `json:"cancelledOrders"`
	AverageOrderValue int64       `json:"averageOrderValue"`
}

// DistributeOrders buckets order counts by weekday and by ISO week and
// computes the completed/cancelled split with the average completed value.
func DistributeOrders(orders []store.Order, now time.Time) OrderDistribution {
	dist := OrderDistribution{
		Daily:  dailyCounts(orders, now),
		Weekly: weeklyCounts(orders, 12),
	}

	var completedRevenue float64
	for _, order := range orders {
		dist.TotalOrders++
		switch order.Status {
		case store.StatusCompleted:
			dist.CompletedOrders++
			completedRevenue += order.TotalAmount
		case store.StatusCancelled:
			dist.CancelledOrders++
		}
	}

	if dist.CompletedOrders > 0 {
		dist.AverageOrderValue = int64(math.Round(completedRevenue / float64(dist.CompletedOrders)))
	}
	return dist
}

// dailyCounts fills a fixed 7-slot series keyed by weekday abbreviation.
// Orders are bucketed by the weekday name of their timestamp, not a literal
// date, so data older than the 7-day filter would merge into the matching
// name slot. The age filter keeps slots to the trailing week.
func dailyCounts(orders []store.Order, now time.Time) CountSeries {
	labels := weekdayLabels(now)
	slot := make(map[string]int, len(labels))
	for i, label := range labels {
		slot[label] = i
	}

	data := make([]int64, len(labels))
	for _, order := range orders {
		age := now.Sub(order.CreatedAt)
		if age < 0 || age > 6*24*time.Hour {
			continue
		}
		if i, ok := slot[order.CreatedAt.Format("Mon")]; ok {
			data[i]++
		}
	}
	return CountSeries{Labels: labels, Data: data}
}

func weeklyCounts(orders []store.Order, keep int) CountSeries {
	type bucket struct {
		key   int
		label string
		count int64
	}

	byKey := map[int]*bucket{}
	for _, order := range orders {
		k := isoWeekKey(order.CreatedAt)
		entry, ok := byKey[k]
		if !ok {
			entry = &bucket{key: k, label: isoWeekLabel(order.CreatedAt)}
			byKey[k] = entry
		}
		entry.count++
	}

	buckets := make([]bucket, 0, len(byKey))
	for _, entry := range byKey {
		buckets = append(buckets, *entry)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key < buckets[j].key })
	if keep > 0 && len(buckets) > keep {
		buckets = buckets[len(buckets)-keep:]
	}

	series := CountSeries{
		Labels: make([]string, 0, len(buckets)),
		Data:   make([]int64, 0, len(buckets)),
	}
	for _, entry := range buckets {
		series.Labels = append(series.Labels, entry.label)
		series.Data = append(series.Data, entry.count)
	}
	return series
}

package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"brewtab-analytics-service/internal/store"
)

const unknownCustomer = "Unknown Customer"

// customerIdentity derives a grouping key: phone, else email, else a
// synthetic per-order key. Two orders belong to the same customer only when
// they share a non-anonymous identity.
func customerIdentity(order store.Order) (key string, anonymous bool) {
	if order.CustomerPhone != nil {
		if phone := strings.TrimSpace(*order.CustomerPhone); phone != "" {
			return "phone:" + phone, false
		}
	}
	if order.CustomerEmail != nil {
		if email := strings.ToLower(strings.TrimSpace(*order.CustomerEmail)); email != "" {
			return "email:" + email, false
		}
	}
	return fmt.Sprintf("anon:%d", order.ID), true
}

type customerGroup struct {
	name         string
	totalSpent   float64
	orderCount   int64
	firstOrderAt time.Time
	lastOrderAt  time.Time
	itemQty      map[string]int64
}

type CustomerSummary struct {
	Name        string    `json:"name"`
	TotalSpent  float64   `json:"totalSpent"`
	OrderCount  int64     `json:"orderCount"`
	LastOrderAt time.Time `json:"lastOrderAt"`
}

type PeakTime struct {
	Slot   string `json:"slot"`
	Orders int64  `json:"orders"`
}

type FavoriteItem struct {
	Product      string `json:"product"`
	TopCustomer  string `json:"topCustomer"`
	TimesOrdered int64  `json:"timesOrdered"`
}

type Segmentation struct {
	TotalCustomers      int             `json:"totalCustomers"`
	NewCustomers        int             `json:"newCustomers"`
	ReturningCustomers  int             `json:"returningCustomers"`
	RepeatRate          int             `json:"repeatRate"`
	TopSpenders         []CustomerSummary `json:"topSpenders"`
	TopLoyalCustomers   []CustomerSummary `json:"topLoyalCustomers"`
	PeakTimes           []PeakTime      `json:"peakTimes"`
	SameOrderPercentage int             `json:"sameOrderPercentage"`
	FavoriteItems       []FavoriteItem  `json:"favoriteItems"`
}

// SegmentCustomers groups orders by derived identity and computes the
// customer-facing metrics. windowStart is the current window's lower bound,
// used for the new-customer split.
func SegmentCustomers(orders []store.Order, windowStart time.Time) Segmentation {
	groups := map[string]*customerGroup{}
	hourCounts := map[string]int64{}

	for _, order := range orders {
		key, _ := customerIdentity(order)
		group, ok := groups[key]
		if !ok {
			group = &customerGroup{
				firstOrderAt: order.CreatedAt,
				lastOrderAt:  order.CreatedAt,
				itemQty:      map[string]int64{},
			}
			groups[key] = group
		}

		if group.name == "" && order.CustomerName != nil {
			group.name = strings.TrimSpace(*order.CustomerName)
		}
		group.totalSpent += order.TotalAmount
		group.orderCount++
		if order.CreatedAt.Before(group.firstOrderAt) {
			group.firstOrderAt = order.CreatedAt
		}
		if order.CreatedAt.After(group.lastOrderAt) {
			group.lastOrderAt = order.CreatedAt
		}
		for _, item := range order.Items {
			group.itemQty[item.Name] += int64(item.Quantity)
		}

		hourCounts[peakSlot(order.CreatedAt.Hour())]++
	}

	seg := Segmentation{TotalCustomers: len(groups)}
	sameOrder := 0
	for _, group := range groups {
		if !group.firstOrderAt.Before(windowStart) {
			seg.NewCustomers++
		}
		if group.orderCount > 1 {
			seg.ReturningCustomers++
		}
		if len(group.itemQty) == 1 {
			sameOrder++
		}
	}
	if seg.TotalCustomers > 0 {
		seg.RepeatRate = int(math.Round(float64(seg.ReturningCustomers) / float64(seg.TotalCustomers) * 100))
		seg.SameOrderPercentage = int(math.Round(float64(sameOrder) / float64(seg.TotalCustomers) * 100))
	}

	seg.TopSpenders = topCustomers(groups, 5, func(a, b *customerGroup) bool {
		if a.totalSpent != b.totalSpent {
			return a.totalSpent > b.totalSpent
		}
		return a.orderCount > b.orderCount
	})
	seg.TopLoyalCustomers = topCustomers(groups, 5, func(a, b *customerGroup) bool {
		if a.orderCount != b.orderCount {
			return a.orderCount > b.orderCount
		}
		return a.totalSpent > b.totalSpent
	})
	seg.PeakTimes = peakTimes(hourCounts)
	seg.FavoriteItems = favoriteItems(groups, 5)
	return seg
}

func topCustomers(groups map[string]*customerGroup, n int, less func(a, b *customerGroup) bool) []CustomerSummary {
	ordered := make([]*customerGroup, 0, len(groups))
	for _, group := range groups {
		ordered = append(ordered, group)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return less(ordered[i], ordered[j]) })

	if n > len(ordered) {
		n = len(ordered)
	}
	summaries := make([]CustomerSummary, 0, n)
	for _, group := range ordered[:n] {
		summaries = append(summaries, CustomerSummary{
			Name:        displayName(group.name),
			TotalSpent:  group.totalSpent,
			OrderCount:  group.orderCount,
			LastOrderAt: group.lastOrderAt,
		})
	}
	return summaries
}

func displayName(name string) string {
	if name == "" {
		return unknownCustomer
	}
	return name
}

// Fixed two-hour slots covering cafe opening hours; orders outside them
// land in "Other".
var peakSlotNames = []string{
	"7-9 AM", "9-11 AM", "11 AM-1 PM", "1-3 PM", "3-5 PM", "5-7 PM", "7-9 PM", "9-11 PM",
}

func peakSlot(hour int) string {
	if hour >= 7 && hour < 23 {
		return peakSlotNames[(hour-7)/2]
	}
	return "Other"
}

// peakTimes emits only slots that saw orders, busiest first.
func peakTimes(counts map[string]int64) []PeakTime {
	slots := make([]PeakTime, 0, len(counts))
	for _, name := range append(append([]string{}, peakSlotNames...), "Other") {
		if counts[name] > 0 {
			slots = append(slots, PeakTime{Slot: name, Orders: counts[name]})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Orders > slots[j].Orders })
	return slots
}

// favoriteItems ranks products by total quantity ordered and reports, per
// product, the single customer who ordered it most.
func favoriteItems(groups map[string]*customerGroup, n int) []FavoriteItem {
	type productAffinity struct {
		product     string
		totalQty    int64
		topCustomer string
		topQty      int64
	}

	byProduct := map[string]*productAffinity{}
	for _, group := range groups {
		for product, qty := range group.itemQty {
			entry, ok := byProduct[product]
			if !ok {
				entry = &productAffinity{product: product}
				byProduct[product] = entry
			}
			entry.totalQty += qty
			name := displayName(group.name)
			if qty > entry.topQty || (qty == entry.topQty && name < entry.topCustomer) {
				entry.topQty = qty
				entry.topCustomer = name
			}
		}
	}

	ordered := make([]*productAffinity, 0, len(byProduct))
	for _, entry := range byProduct {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].totalQty != ordered[j].totalQty {
			return ordered[i].totalQty > ordered[j].totalQty
		}
		return ordered[i].product < ordered[j].product
	})

	if n > len(ordered) {
		n = len(ordered)
	}
	favorites := make([]FavoriteItem, 0, n)
	for _, entry := range ordered[:n] {
		favorites = append(favorites, FavoriteItem{
			Product:      entry.product,
			TopCustomer:  entry.topCustomer,
			TimesOrdered: entry.topQty,
		})
	}
	return favorites
}

// DistinctCustomers counts distinct derived identities in a bucket of orders.
func DistinctCustomers(orders []store.Order) int64 {
	seen := map[string]struct{}{}
	for _, order := range orders {
		key, _ := customerIdentity(order)
		seen[key] = struct{}{}
	}
	return int64(len(seen))
}

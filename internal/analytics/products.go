package analytics

import (
	"sort"
	"time"

	"brewtab-analytics-service/internal/store"
)

type ProductStats struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Orders    int64    `json:"orders"`
	Units     int64    `json:"units"`
	Revenue   float64  `json:"revenue"`
}

// AggregateProducts groups line items by product, summing order occurrences,
// unit quantity and revenue, sorted by revenue descending. Items whose menu
// reference is gone fall back to the stored item name.
func AggregateProducts(orders []store.Order, products []store.Product) []ProductStats {
	byID := productIndex(products)

	stats := map[string]*ProductStats{}
	for _, order := range orders {
		for _, item := range order.Items {
			key := item.Name
			if item.ProductID != nil {
				key = *item.ProductID
			}

			entry, ok := stats[key]
			if !ok {
				entry = &ProductStats{ProductID: key, Name: item.Name}
				if item.ProductID != nil {
					if product, found := byID[*item.ProductID]; found {
						entry.Name = product.Name
						entry.Category = Classify(product.Name, product.Category)
					}
				}
				if entry.Category == "" {
					entry.Category = Classify(entry.Name, nil)
				}
				stats[key] = entry
			}
			entry.Orders++
			entry.Units += int64(item.Quantity)
			entry.Revenue += item.Price * float64(item.Quantity)
		}
	}

	result := make([]ProductStats, 0, len(stats))
	for _, entry := range stats {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func TopN(stats []ProductStats, n int) []ProductStats {
	if n > len(stats) {
		n = len(stats)
	}
	top := make([]ProductStats, n)
	copy(top, stats[:n])
	return top
}

// OrdersSince filters to orders created in [from, to); a zero "to" means
// unbounded above.
func OrdersSince(orders []store.Order, from, to time.Time) []store.Order {
	filtered := make([]store.Order, 0, len(orders))
	for _, order := range orders {
		if order.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !order.CreatedAt.Before(to) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}

// WeeklyComparison aligns the current week's top products with their
// previous-week figures, index by index.
type WeeklyComparison struct {
	Products []string       `json:"products"`
	Current  []ProductStats `json:"current"`
	Previous []ProductStats `json:"previous"`
}

// CompareWeeks seeds the comparison with the top 8 products by revenue over
// the last 7 days and looks each up in the 7 days before that. Products with
// no previous-week activity get a zero-valued entry so both series stay
// aligned.
func CompareWeeks(orders []store.Order, products []store.Product, now time.Time) WeeklyComparison {
	currentStats := AggregateProducts(OrdersSince(orders, now.AddDate(0, 0, -7), time.Time{}), products)
	previousStats := AggregateProducts(OrdersSince(orders, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7)), products)

	previousByID := make(map[string]ProductStats, len(previousStats))
	for _, entry := range previousStats {
		previousByID[entry.ProductID] = entry
	}

	anchors := TopN(currentStats, 8)
	comparison := WeeklyComparison{
		Products: make([]string, 0, len(anchors)),
		Current:  anchors,
		Previous: make([]ProductStats, 0, len(anchors)),
	}
	for _, anchor := range anchors {
		comparison.Products = append(comparison.Products, anchor.Name)
		previous, ok := previousByID[anchor.ProductID]
		if !ok {
			previous = ProductStats{ProductID: anchor.ProductID, Name: anchor.Name, Category: anchor.Category}
		}
		comparison.Previous = append(comparison.Previous, previous)
	}
	return comparison
}

type LowSeller struct {
	ProductStats
	Suggestion string `json:"suggestion"`
}

// LowSellers flags menu products with fewer orders than the threshold,
// ascending by order count. Products that never sold are included.
func LowSellers(stats []ProductStats, products []store.Product, threshold int) []LowSeller {
	statsByID := make(map[string]ProductStats, len(stats))
	for _, entry := range stats {
		statsByID[entry.ProductID] = entry
	}

	sellers := make([]LowSeller, 0)
	for _, product := range products {
		entry, ok := statsByID[product.ID]
		if !ok {
			entry = ProductStats{
				ProductID: product.ID,
				Name:      product.Name,
				Category:  Classify(product.Name, product.Category),
			}
		}
		if entry.Orders >= int64(threshold) {
			continue
		}
		sellers = append(sellers, LowSeller{
			ProductStats: entry,
			Suggestion:   lowSellerSuggestion(entry.Orders, threshold),
		})
	}

	sort.Slice(sellers, func(i, j int) bool {
		if sellers[i].Orders != sellers[j].Orders {
			return sellers[i].Orders < sellers[j].Orders
		}
		return sellers[i].Name < sellers[j].Name
	})
	return sellers
}

// lowSellerSuggestion tiers are threshold-relative: changing the threshold
// reclassifies every product.
func lowSellerSuggestion(orders int64, threshold int) string {
	switch {
	case orders == 0:
		return "hide"
	case float64(orders) <= 0.3*float64(threshold):
		return "consider replacing"
	case orders < int64(threshold):
		return "promote"
	default:
		return "keep"
	}
}

package analytics

import (
	"math"
	"strings"

	"brewtab-analytics-service/internal/store"
)

type Category string

const (
	CategoryDrinks Category = "drinks"
	CategorySnacks Category = "snacks"
	CategoryMeals  Category = "meals"
	CategoryOther  Category = "other"
)

// Check order matters: first matching set wins.
var categoryOrder = []Category{CategoryDrinks, CategorySnacks, CategoryMeals}

// Base keyword sets, matched against explicit category tags.
var tagKeywords = map[Category][]string{
	CategoryDrinks: {"drink", "beverage", "coffee", "tea", "juice", "soda", "shake", "cold"},
	CategorySnacks: {"snack", "appetizer", "dessert", "cake", "brownie", "cookie", "chips", "fries"},
	CategoryMeals: {"meal", "main", "entree", "curry", "rice", "bread", "pizza", "burger",
		"pasta", "sandwich", "wrap", "thali", "roti", "naan", "biryani"},
}

// Extended sets for products without a category tag. Product names rarely
// contain the category word itself, so common item words are added.
var nameKeywords = map[Category][]string{
	CategoryDrinks: {"drink", "beverage", "coffee", "tea", "juice", "soda", "shake", "cold",
		"milk", "smoothie", "latte", "espresso", "cappuccino", "mocha", "lassi", "frappe", "water"},
	CategorySnacks: {"snack", "appetizer", "dessert", "cake", "brownie", "cookie", "chips", "fries",
		"muffin", "pastry", "donut", "samosa", "puff", "toast", "nachos"},
	CategoryMeals: {"meal", "main", "entree", "curry", "rice", "bread", "pizza", "burger",
		"pasta", "sandwich", "wrap", "thali", "roti", "naan", "biryani",
		"taco", "chicken", "paneer", "noodles", "dosa", "idli", "paratha", "omelette", "fish", "mutton"},
}

// Classify assigns a product to a category: the explicit tag wins when it
// matches a keyword set, otherwise the product name is matched against the
// extended sets, otherwise "other".
func Classify(name string, tag *string) Category {
	if tag != nil && strings.TrimSpace(*tag) != "" {
		return matchKeywords(strings.ToLower(*tag), tagKeywords)
	}
	return matchKeywords(strings.ToLower(name), nameKeywords)
}

func matchKeywords(value string, sets map[Category][]string) Category {
	for _, category := range categoryOrder {
		for _, keyword := range sets[category] {
			if strings.Contains(value, keyword) {
				return category
			}
		}
	}
	return CategoryOther
}

type CategoryShare struct {
	Category Category `json:"category"`
	Revenue  float64  `json:"revenue"`
	Percent  int      `json:"percent"`
}

// CategoryShares sums line-item revenue per category and converts each to an
// integer percentage of total revenue. Percentages are rounded independently
// per category and may not sum to exactly 100.
func CategoryShares(orders []store.Order, products []store.Product) []CategoryShare {
	byID := productIndex(products)

	revenue := map[Category]float64{}
	total := 0.0
	for _, order := range orders {
		for _, item := range order.Items {
			value := item.Price * float64(item.Quantity)
			revenue[classifyItem(item, byID)] += value
			total += value
		}
	}

	shares := make([]CategoryShare, 0, 4)
	for _, category := range []Category{CategoryDrinks, CategorySnacks, CategoryMeals, CategoryOther} {
		share := CategoryShare{Category: category, Revenue: revenue[category]}
		if total > 0 {
			share.Percent = int(math.Round(revenue[category] / total * 100))
		}
		shares = append(shares, share)
	}
	return shares
}

func classifyItem(item store.OrderItem, byID map[string]store.Product) Category {
	if item.ProductID != nil {
		if product, ok := byID[*item.ProductID]; ok {
			return Classify(product.Name, product.Category)
		}
	}
	return Classify(item.Name, nil)
}

func productIndex(products []store.Product) map[string]store.Product {
	byID := make(map[string]store.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return byID
}

package analytics

import (
	"time"

	"brewtab-analytics-service/internal/store"
)

func completedOrder(id int64, createdAt time.Time, total float64) store.Order {
	return store.Order{
		ID:          id,
		MerchantID:  1,
		Status:      store.StatusCompleted,
		CreatedAt:   createdAt,
		TotalAmount: total,
	}
}

func orderWithItems(id int64, createdAt time.Time, items []store.OrderItem) store.Order {
	order := completedOrder(id, createdAt, 0)
	order.Items = items
	for _, item := range items {
		order.TotalAmount += item.Price * float64(item.Quantity)
	}
	return order
}

func customerOrder(id int64, createdAt time.Time, total float64, name, phone, email string, items ...store.OrderItem) store.Order {
	order := completedOrder(id, createdAt, total)
	order.Items = items
	if name != "" {
		order.CustomerName = strPtr(name)
	}
	if phone != "" {
		order.CustomerPhone = strPtr(phone)
	}
	if email != "" {
		order.CustomerEmail = strPtr(email)
	}
	return order
}

package store

import (
	"context"
	"time"
)

// Order statuses as persisted by the order service.
const (
	StatusPending   = "PENDING"
	StatusPreparing = "PREPARING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

type OrderItem struct {
	ProductID *string `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID            int64       `json:"id"`
	MerchantID    int64       `json:"merchantId"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	TotalAmount   float64     `json:"totalAmount"`
	Items         []OrderItem `json:"items"`
	CustomerName  *string     `json:"customerName"`
	CustomerPhone *string     `json:"customerPhone"`
	CustomerEmail *string     `json:"customerEmail"`
	PaymentMethod *string     `json:"paymentMethod"`
}

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category *string `json:"category"`
}

// OrderFilter bounds an order fetch. Nil fields mean unbounded.
type OrderFilter struct {
	Statuses      []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Store is the read-only order/menu store the engine aggregates over.
// The analytics service never writes through it.
type Store interface {
	FetchOrders(ctx context.Context, merchantID int64, filter OrderFilter) ([]Order, error)
	FetchProducts(ctx context.Context, merchantID int64) ([]Product, error)
}

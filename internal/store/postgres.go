package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) FetchOrders(ctx context.Context, merchantID int64, filter OrderFilter) ([]Order, error) {
	query := strings.Builder{}
	query.WriteString(`
		select o.id, o.status, o.placed_at, o.total_amount,
		       c.name, c.phone, c.email, p.payment_method
		from orders o
		left join customers c on c.id = o.customer_id
		left join payments p on p.order_id = o.id
		where o.merchant_id = $1
	`)

	args := []any{merchantID}
	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		query.WriteString(" and o.status = any($" + strconv.Itoa(len(args)) + ")")
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		query.WriteString(" and o.placed_at >= $" + strconv.Itoa(len(args)))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		query.WriteString(" and o.placed_at < $" + strconv.Itoa(len(args)))
	}
	query.WriteString(" order by o.placed_at asc")

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			order         Order
			total         pgtype.Numeric
			name          pgtype.Text
			phone         pgtype.Text
			email         pgtype.Text
			paymentMethod pgtype.Text
		)
		if err := rows.Scan(&order.ID, &order.Status, &order.CreatedAt, &total,
			&name, &phone, &email, &paymentMethod); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		order.MerchantID = merchantID
		order.TotalAmount = numericToFloat64(total)
		order.CustomerName = textPtr(name)
		order.CustomerPhone = textPtr(phone)
		order.CustomerEmail = textPtr(email)
		order.PaymentMethod = textPtr(paymentMethod)

		// The payments left join can fan out; keep the first row per order.
		if _, seen := index[order.ID]; seen {
			continue
		}
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}
	if err := s.attachItems(ctx, orders, index); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Postgres) attachItems(ctx context.Context, orders []Order, index map[int64]int) error {
	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	rows, err := s.pool.Query(ctx, `
		select oi.order_id, oi.menu_id, oi.menu_name, oi.menu_price, oi.quantity
		from order_items oi
		where oi.order_id = any($1)
		order by oi.id asc
	`, ids)
	if err != nil {
		return fmt.Errorf("fetch order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID  int64
			menuID   pgtype.Int8
			menuName pgtype.Text
			price    pgtype.Numeric
			quantity pgtype.Int4
		)
		if err := rows.Scan(&orderID, &menuID, &menuName, &price, &quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}

		item := OrderItem{
			Price:    numericToFloat64(price),
			Quantity: 1,
		}
		if menuName.Valid {
			item.Name = menuName.String
		}
		if menuID.Valid {
			id := strconv.FormatInt(menuID.Int64, 10)
			item.ProductID = &id
		}
		if quantity.Valid && quantity.Int32 > 0 {
			item.Quantity = int(quantity.Int32)
		}

		pos, ok := index[orderID]
		if !ok {
			continue
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}
	return rows.Err()
}

func (s *Postgres) FetchProducts(ctx context.Context, merchantID int64) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		select m.id, m.name, m.price, m.category
		from menus m
		where m.merchant_id = $1 and m.deleted_at is null
		order by m.id asc
	`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var (
			id       int64
			name     pgtype.Text
			price    pgtype.Numeric
			category pgtype.Text
		)
		if err := rows.Scan(&id, &name, &price, &category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		product := Product{
			ID:       strconv.FormatInt(id, 10),
			Price:    numericToFloat64(price),
			Category: textPtr(category),
		}
		if name.Valid {
			product.Name = name.String
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

func numericToFloat64(value pgtype.Numeric) float64 {
	if !value.Valid {
		return 0
	}
	f, err := value.Float64Value()
	if err != nil {
		return 0
	}
	return f.Float64
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil
	}
	out := value.String
	return &out
}

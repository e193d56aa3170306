package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"brewtab-analytics-service/internal/store"
)

// fakeStore serves a fixed order log, honoring the same filter semantics as
// the postgres store: CreatedAfter inclusive, CreatedBefore exclusive.
type fakeStore struct {
	orders   []store.Order
	products []store.Product
	err      error
}

func (f *fakeStore) FetchOrders(_ context.Context, _ int64, filter store.OrderFilter) ([]store.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	matched := make([]store.Order, 0, len(f.orders))
	for _, order := range f.orders {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, order.Status) {
			continue
		}
		if filter.CreatedAfter != nil && order.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		if filter.CreatedBefore != nil && !order.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		matched = append(matched, order)
	}
	return matched, nil
}

func (f *fakeStore) FetchProducts(_ context.Context, _ int64) ([]store.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func testEngine(st store.Store) *Engine {
	return NewEngine(st, nil, func() time.Time { return testNow })
}

func TestGetSalesReportEmpty(t *testing.T) {
	engine := testEngine(&fakeStore{})

	report, err := engine.GetSalesReport(context.Background(), 1, RangeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Range != RangeMonth {
		t.Fatalf("expected month range, got %s", report.Range)
	}
	if report.Revenue.Total != 0 {
		t.Fatalf("expected zero revenue, got %f", report.Revenue.Total)
	}

	// Label axes stay filled even with no orders.
	if len(report.Revenue.Monthly.Labels) != 6 || len(report.Revenue.Monthly.Data) != 6 {
		t.Fatalf("expected 6 monthly buckets, got %d labels %d data",
			len(report.Revenue.Monthly.Labels), len(report.Revenue.Monthly.Data))
	}
	if report.Revenue.Monthly.Labels[5] != "Mar 2026" {
		t.Fatalf("expected current month last, got %q", report.Revenue.Monthly.Labels[5])
	}
	if len(report.Orders.Daily.Labels) != 7 {
		t.Fatalf("expected 7 weekday labels, got %d", len(report.Orders.Daily.Labels))
	}
	for _, value := range report.Revenue.Monthly.Data {
		if value != 0 {
			t.Fatalf("expected zero data, got %v", report.Revenue.Monthly.Data)
		}
	}
	if len(report.Products.Categories) != 4 {
		t.Fatalf("expected all 4 category shares, got %d", len(report.Products.Categories))
	}
	if report.Products.Top == nil {
		t.Fatal("expected empty slice, not nil")
	}
}

func TestGetSalesReportAggregates(t *testing.T) {
	cancelled := completedOrder(3, testNow.AddDate(0, 0, -1), 50)
	cancelled.Status = store.StatusCancelled

	st := &fakeStore{
		orders: []store.Order{
			orderWithItems(1, testNow.AddDate(0, 0, -1), []store.OrderItem{teaItem(2)}),
			orderWithItems(2, testNow.AddDate(0, 0, -2), []store.OrderItem{coffeeItem(1)}),
			cancelled,
		},
		products: menu,
	}
	engine := testEngine(st)

	report, err := engine.GetSalesReport(context.Background(), 1, RangeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cancelled orders count toward distribution but not revenue.
	if report.Revenue.Total != 220 {
		t.Fatalf("expected revenue 220, got %f", report.Revenue.Total)
	}
	if report.Orders.TotalOrders != 3 || report.Orders.CompletedOrders != 2 || report.Orders.CancelledOrders != 1 {
		t.Fatalf("unexpected distribution: %+v", report.Orders)
	}
	if len(report.Products.Top) != 2 {
		t.Fatalf("expected 2 top products, got %d", len(report.Products.Top))
	}
	if report.Products.Top[0].ProductID != "2" {
		t.Fatalf("expected coffee first by revenue, got %s", report.Products.Top[0].ProductID)
	}
}

func TestGetProductReportThresholdFallback(t *testing.T) {
	st := &fakeStore{
		orders:   []store.Order{orderWithItems(1, testNow, []store.OrderItem{teaItem(1)})},
		products: menu,
	}
	engine := testEngine(st)

	report, err := engine.GetProductReport(context.Background(), 1, RangeMonth, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Default threshold 5: every menu product is a low seller here.
	if len(report.LowSelling) != len(menu) {
		t.Fatalf("expected %d low sellers, got %d", len(menu), len(report.LowSelling))
	}
	if report.Summary.TotalProducts != len(menu) || report.Summary.ProductsWithSales != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Summary.UnitsSold != 1 || report.Summary.Revenue != 50 {
		t.Fatalf("unexpected summary totals: %+v", report.Summary)
	}
}

func TestGetProductReportSkipsCancelled(t *testing.T) {
	cancelled := orderWithItems(1, testNow, []store.OrderItem{teaItem(4)})
	cancelled.Status = store.StatusCancelled

	st := &fakeStore{orders: []store.Order{cancelled}, products: menu}
	engine := testEngine(st)

	report, err := engine.GetProductReport(context.Background(), 1, RangeMonth, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.TopSelling.AllTime) != 0 {
		t.Fatalf("expected empty report for cancelled-only log, got %d products", len(report.TopSelling.AllTime))
	}
}

func TestGetCustomerReportGrowthBuckets(t *testing.T) {
	st := &fakeStore{
		orders: []store.Order{
			customerOrder(1, testNow.AddDate(0, 0, -20), 100, "Priya", "111", ""),
			customerOrder(2, testNow.AddDate(0, 0, -2), 150, "Priya", "111", ""),
			customerOrder(3, testNow.AddDate(0, 0, -2), 200, "Arjun", "222", ""),
		},
	}
	engine := testEngine(st)

	report, err := engine.GetCustomerReport(context.Background(), 1, RangeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Totals.TotalCustomers != 2 {
		t.Fatalf("expected 2 customers, got %d", report.Totals.TotalCustomers)
	}
	if len(report.CustomerGrowth.Labels) != len(report.CustomerGrowth.Data) {
		t.Fatal("growth series misaligned")
	}

	w := ResolveWindow(RangeMonth, testNow)
	if !reflect.DeepEqual(report.CustomerGrowth.Labels, w.Labels) {
		t.Fatalf("growth labels %v do not match window labels %v", report.CustomerGrowth.Labels, w.Labels)
	}

	// Both customers ordered two days ago: current bucket counts 2 distinct.
	last := len(report.CustomerGrowth.Data) - 1
	if report.CustomerGrowth.Data[last] != 2 {
		t.Fatalf("expected 2 distinct customers in current bucket, got %d", report.CustomerGrowth.Data[last])
	}
}

func TestEngineStoreErrorPropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	engine := testEngine(&fakeStore{err: wantErr})

	if _, err := engine.GetSalesReport(context.Background(), 1, RangeMonth); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, err := engine.GetProductReport(context.Background(), 1, RangeMonth, 5); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, err := engine.GetCustomerReport(context.Background(), 1, RangeMonth); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

// The empty and populated renditions of each report must expose the same JSON
// keys, so consumers never branch on missing fields.
func TestReportShapeStable(t *testing.T) {
	empty := testEngine(&fakeStore{})
	populated := testEngine(&fakeStore{
		orders: []store.Order{
			customerOrder(1, testNow.AddDate(0, 0, -1), 170, "Priya", "111", "", teaItem(1), coffeeItem(1)),
		},
		products: menu,
	})

	ctx := context.Background()

	emptySales, _ := empty.GetSalesReport(ctx, 1, RangeMonth)
	fullSales, err := populated.GetSalesReport(ctx, 1, RangeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSameKeys(t, "sales", emptySales, fullSales)

	emptyProducts, _ := empty.GetProductReport(ctx, 1, RangeMonth, 5)
	fullProducts, err := populated.GetProductReport(ctx, 1, RangeMonth, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSameKeys(t, "products", emptyProducts, fullProducts)

	emptyCustomers, _ := empty.GetCustomerReport(ctx, 1, RangeMonth)
	fullCustomers, err := populated.GetCustomerReport(ctx, 1, RangeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSameKeys(t, "customers", emptyCustomers, fullCustomers)
}

func assertSameKeys(t *testing.T, label string, a, b any) {
	t.Helper()
	if got, want := jsonKeys(t, a), jsonKeys(t, b); !reflect.DeepEqual(got, want) {
		t.Fatalf("%s report keys differ: empty=%v populated=%v", label, got, want)
	}
}

func jsonKeys(t *testing.T, v any) []string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	keys := make([]string, 0, len(decoded))
	for key := range decoded {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

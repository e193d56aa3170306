package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"brewtab-analytics-service/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultLowSellerThreshold = 5

// Engine turns the raw order log into the three report shapes. It is
// stateless: every call re-reads the relevant order window and re-aggregates.
// The clock is injected so window boundaries are testable.
type Engine struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewEngine(st store.Store, logger *zap.Logger, now func() time.Time) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{store: st, logger: logger, now: now}
}

// GetSalesReport builds the sales overview: revenue rollups, order
// distribution and top products. The fetch reaches back six calendar months
// so the monthly trend series fills.
func (e *Engine) GetSalesReport(ctx context.Context, merchantID int64, rng Range) (*SalesReport, error) {
	now := e.now()
	w := ResolveWindow(rng, now)

	fetchStart := firstOfMonth(now).AddDate(0, -5, 0)
	orders, err := e.store.FetchOrders(ctx, merchantID, store.OrderFilter{CreatedAfter: &fetchStart})
	if err != nil {
		return nil, fmt.Errorf("sales report: fetch orders: %w", err)
	}
	if len(orders) == 0 {
		return emptySalesReport(w), nil
	}

	products, err := e.store.FetchProducts(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("sales report: fetch products: %w", err)
	}

	completed := filterStatus(orders, store.StatusCompleted)

	report := &SalesReport{Range: w.Range}
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		report.Revenue.Monthly = MonthlyRevenue(completed)
	}()
	go func() {
		defer wg.Done()
		report.Revenue.Weekly = WeeklyRevenue(completed)
	}()
	go func() {
		defer wg.Done()
		report.Orders = DistributeOrders(orders, now)
	}()
	go func() {
		defer wg.Done()
		report.Products = SalesProducts{
			Top:        TopN(AggregateProducts(completed, products), 10),
			Categories: CategoryShares(completed, products),
		}
	}()
	wg.Wait()

	for _, order := range completed {
		report.Revenue.Total += order.TotalAmount
	}

	e.logger.Debug("sales report built",
		zap.Int64("merchantId", merchantID),
		zap.String("range", string(w.Range)),
		zap.Int("orders", len(orders)),
	)
	return report, nil
}

// GetProductReport builds the product performance report over the all-time
// completed order log. lowSellerThreshold <= 0 falls back to the default.
func (e *Engine) GetProductReport(ctx context.Context, merchantID int64, rng Range, lowSellerThreshold int) (*ProductReport, error) {
	if lowSellerThreshold <= 0 {
		lowSellerThreshold = DefaultLowSellerThreshold
	}
	now := e.now()
	w := ResolveWindow(rng, now)

	orders, err := e.store.FetchOrders(ctx, merchantID, store.OrderFilter{Statuses: []string{store.StatusCompleted}})
	if err != nil {
		return nil, fmt.Errorf("product report: fetch orders: %w", err)
	}
	if len(orders) == 0 {
		return emptyProductReport(w), nil
	}

	products, err := e.store.FetchProducts(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("product report: fetch products: %w", err)
	}

	allTime := AggregateProducts(orders, products)

	report := &ProductReport{Range: w.Range}
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		// Windowed aggregates are recomputed from scratch, not sliced from
		// the all-time aggregate: orders leave trailing windows between runs.
		report.TopSelling = TopSelling{
			AllTime:    TopN(allTime, 15),
			Last30Days: TopN(AggregateProducts(OrdersSince(orders, now.AddDate(0, 0, -30), time.Time{}), products), 15),
			Last7Days:  TopN(AggregateProducts(OrdersSince(orders, now.AddDate(0, 0, -7), time.Time{}), products), 15),
		}
	}()
	go func() {
		defer wg.Done()
		report.WeeklyComparison = CompareWeeks(orders, products, now)
	}()
	go func() {
		defer wg.Done()
		report.LowSelling = LowSellers(allTime, products, lowSellerThreshold)
	}()
	go func() {
		defer wg.Done()
		report.Categories = CategoryShares(OrdersSince(orders, w.Start, time.Time{}), products)
	}()
	wg.Wait()

	report.Summary = ProductSummary{
		TotalProducts:     len(products),
		ProductsWithSales: len(allTime),
	}
	for _, entry := range allTime {
		report.Summary.UnitsSold += entry.Units
		report.Summary.Revenue += entry.Revenue
	}

	e.logger.Debug("product report built",
		zap.Int64("merchantId", merchantID),
		zap.String("range", string(w.Range)),
		zap.Int("lowSellerThreshold", lowSellerThreshold),
	)
	return report, nil
}

// GetCustomerReport segments the full order log by derived customer identity
// and adds the per-bucket distinct-customer growth series.
func (e *Engine) GetCustomerReport(ctx context.Context, merchantID int64, rng Range) (*CustomerReport, error) {
	now := e.now()
	w := ResolveWindow(rng, now)

	orders, err := e.store.FetchOrders(ctx, merchantID, store.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("customer report: fetch orders: %w", err)
	}
	if len(orders) == 0 {
		return emptyCustomerReport(w), nil
	}

	seg := SegmentCustomers(orders, w.Start)

	growth, err := e.customerGrowth(ctx, merchantID, w)
	if err != nil {
		return nil, fmt.Errorf("customer report: %w", err)
	}

	report := &CustomerReport{
		Range: w.Range,
		Totals: CustomerTotals{
			TotalCustomers:     seg.TotalCustomers,
			NewCustomers:       seg.NewCustomers,
			ReturningCustomers: seg.ReturningCustomers,
			RepeatRate:         seg.RepeatRate,
		},
		TopSpenders:         seg.TopSpenders,
		TopLoyalCustomers:   seg.TopLoyalCustomers,
		CustomerGrowth:      growth,
		PeakTimes:           seg.PeakTimes,
		SameOrderPercentage: seg.SameOrderPercentage,
		FavoriteItems:       seg.FavoriteItems,
	}

	e.logger.Debug("customer report built",
		zap.Int64("merchantId", merchantID),
		zap.String("range", string(w.Range)),
		zap.Int("customers", seg.TotalCustomers),
	)
	return report, nil
}

// customerGrowth counts distinct identities per label bucket. Identity
// membership is evaluated within each bucket's own bounds, so every bucket
// gets its own bounded fetch; the fetches are independent and run in
// parallel.
func (e *Engine) customerGrowth(ctx context.Context, merchantID int64, w Window) (CountSeries, error) {
	buckets := w.Buckets()
	series := CountSeries{
		Labels: make([]string, len(buckets)),
		Data:   make([]int64, len(buckets)),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, bucket := range buckets {
		i, bucket := i, bucket
		series.Labels[i] = bucket.Label
		g.Go(func() error {
			start, end := bucket.Start, bucket.End
			orders, err := e.store.FetchOrders(ctx, merchantID, store.OrderFilter{
				CreatedAfter:  &start,
				CreatedBefore: &end,
			})
			if err != nil {
				return fmt.Errorf("growth bucket %s: %w", bucket.Label, err)
			}
			series.Data[i] = DistinctCustomers(orders)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CountSeries{}, err
	}
	return series, nil
}

func filterStatus(orders []store.Order, status string) []store.Order {
	filtered := make([]store.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

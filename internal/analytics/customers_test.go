package analytics

import (
	"testing"
	"time"

	"brewtab-analytics-service/internal/store"
)

func TestCustomerIdentity(t *testing.T) {
	cases := []struct {
		name      string
		order     store.Order
		key       string
		anonymous bool
	}{
		{
			name:  "phone wins over email",
			order: customerOrder(1, testNow, 100, "Ravi", "9876543210", "ravi@example.com"),
			key:   "phone:9876543210",
		},
		{
			name:  "email lowercased",
			order: customerOrder(2, testNow, 100, "Ravi", "", "Ravi@Example.COM"),
			key:   "email:ravi@example.com",
		},
		{
			name:      "no contact info is per-order anonymous",
			order:     customerOrder(3, testNow, 100, "Walk-in", "", ""),
			key:       "anon:3",
			anonymous: true,
		},
		{
			name:      "whitespace-only phone ignored",
			order:     customerOrder(4, testNow, 100, "", "   ", ""),
			key:       "anon:4",
			anonymous: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, anonymous := customerIdentity(tc.order)
			if key != tc.key || anonymous != tc.anonymous {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.key, tc.anonymous, key, anonymous)
			}
		})
	}
}

func TestSegmentCustomersRepeatBuyer(t *testing.T) {
	tea := teaItem(1)
	orders := []store.Order{
		customerOrder(1, testNow.AddDate(0, 0, -20), 100, "Priya", "9876543210", "", tea),
		customerOrder(2, testNow.AddDate(0, 0, -10), 100, "Priya", "9876543210", "", tea),
		customerOrder(3, testNow.AddDate(0, 0, -2), 100, "Priya", "9876543210", "", tea),
	}

	seg := SegmentCustomers(orders, testNow.AddDate(0, 0, -30))
	if seg.TotalCustomers != 1 {
		t.Fatalf("expected one customer, got %d", seg.TotalCustomers)
	}
	if seg.ReturningCustomers != 1 || seg.RepeatRate != 100 {
		t.Fatalf("expected returning=1 repeatRate=100, got %d and %d", seg.ReturningCustomers, seg.RepeatRate)
	}
	if seg.SameOrderPercentage != 100 {
		t.Fatalf("expected sameOrderPercentage 100, got %d", seg.SameOrderPercentage)
	}

	if len(seg.TopSpenders) != 1 {
		t.Fatalf("expected one top spender, got %d", len(seg.TopSpenders))
	}
	spender := seg.TopSpenders[0]
	if spender.Name != "Priya" || spender.TotalSpent != 300 || spender.OrderCount != 3 {
		t.Fatalf("unexpected top spender: %+v", spender)
	}
	if !spender.LastOrderAt.Equal(testNow.AddDate(0, 0, -2)) {
		t.Fatalf("unexpected lastOrderAt: %v", spender.LastOrderAt)
	}
}

func TestSegmentCustomersNewVersusReturning(t *testing.T) {
	windowStart := testNow.AddDate(0, 0, -30)
	orders := []store.Order{
		// long-time customer, active inside the window
		customerOrder(1, testNow.AddDate(0, 0, -90), 100, "Arjun", "111", ""),
		customerOrder(2, testNow.AddDate(0, 0, -5), 150, "Arjun", "111", ""),
		// first ever order inside the window
		customerOrder(3, testNow.AddDate(0, 0, -3), 200, "Meera", "222", ""),
	}

	seg := SegmentCustomers(orders, windowStart)
	if seg.TotalCustomers != 2 {
		t.Fatalf("expected 2 customers, got %d", seg.TotalCustomers)
	}
	if seg.NewCustomers != 1 {
		t.Fatalf("expected 1 new customer, got %d", seg.NewCustomers)
	}
	if seg.ReturningCustomers != 1 || seg.RepeatRate != 50 {
		t.Fatalf("expected returning=1 repeatRate=50, got %d and %d", seg.ReturningCustomers, seg.RepeatRate)
	}
}

func TestSegmentCustomersAnonymousNeverMerge(t *testing.T) {
	orders := []store.Order{
		customerOrder(1, testNow, 100, "", "", ""),
		customerOrder(2, testNow, 100, "", "", ""),
	}

	seg := SegmentCustomers(orders, testNow.AddDate(0, 0, -30))
	if seg.TotalCustomers != 2 {
		t.Fatalf("expected anonymous orders to stay distinct, got %d", seg.TotalCustomers)
	}
	if seg.ReturningCustomers != 0 {
		t.Fatalf("expected no returning customers, got %d", seg.ReturningCustomers)
	}
	if seg.TopSpenders[0].Name != unknownCustomer {
		t.Fatalf("expected placeholder name, got %q", seg.TopSpenders[0].Name)
	}
}

func TestPeakSlot(t *testing.T) {
	cases := []struct {
		hour int
		slot string
	}{
		{hour: 7, slot: "7-9 AM"},
		{hour: 8, slot: "7-9 AM"},
		{hour: 12, slot: "11 AM-1 PM"},
		{hour: 22, slot: "9-11 PM"},
		{hour: 23, slot: "Other"},
		{hour: 3, slot: "Other"},
	}
	for _, tc := range cases {
		if got := peakSlot(tc.hour); got != tc.slot {
			t.Fatalf("hour %d: expected %q, got %q", tc.hour, tc.slot, got)
		}
	}
}

func TestPeakTimesOmitEmptySlots(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, time.March, 17, hour, 30, 0, 0, time.UTC)
	}
	orders := []store.Order{
		customerOrder(1, at(8), 100, "", "111", ""),
		customerOrder(2, at(8), 100, "", "222", ""),
		customerOrder(3, at(18), 100, "", "333", ""),
	}

	seg := SegmentCustomers(orders, at(0).AddDate(0, 0, -30))
	if len(seg.PeakTimes) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(seg.PeakTimes))
	}
	if seg.PeakTimes[0].Slot != "7-9 AM" || seg.PeakTimes[0].Orders != 2 {
		t.Fatalf("expected busiest slot first, got %+v", seg.PeakTimes[0])
	}
	if seg.PeakTimes[1].Slot != "5-7 PM" {
		t.Fatalf("expected 5-7 PM second, got %+v", seg.PeakTimes[1])
	}
}

func TestFavoriteItemsTopCustomerPerProduct(t *testing.T) {
	orders := []store.Order{
		customerOrder(1, testNow, 0, "Priya", "111", "", teaItem(5)),
		customerOrder(2, testNow, 0, "Arjun", "222", "", teaItem(2), coffeeItem(1)),
	}

	seg := SegmentCustomers(orders, testNow.AddDate(0, 0, -30))
	if len(seg.FavoriteItems) != 2 {
		t.Fatalf("expected 2 favorite items, got %d", len(seg.FavoriteItems))
	}
	top := seg.FavoriteItems[0]
	if top.Product != "Masala Tea" || top.TopCustomer != "Priya" || top.TimesOrdered != 5 {
		t.Fatalf("unexpected top favorite: %+v", top)
	}
}

func TestSegmentCustomersEmpty(t *testing.T) {
	seg := SegmentCustomers(nil, testNow.AddDate(0, 0, -30))
	if seg.TotalCustomers != 0 || seg.RepeatRate != 0 || seg.SameOrderPercentage != 0 {
		t.Fatalf("expected zero segmentation, got %+v", seg)
	}
	if seg.TopSpenders == nil || seg.PeakTimes == nil || seg.FavoriteItems == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestDistinctCustomers(t *testing.T) {
	orders := []store.Order{
		customerOrder(1, testNow, 100, "Priya", "111", ""),
		customerOrder(2, testNow, 100, "Priya", "111", ""),
		customerOrder(3, testNow, 100, "", "", "x@y.com"),
		customerOrder(4, testNow, 100, "", "", ""),
	}
	if got := DistinctCustomers(orders); got != 3 {
		t.Fatalf("expected 3 distinct customers, got %d", got)
	}
}

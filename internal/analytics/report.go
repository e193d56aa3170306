package analytics

// Report shapes. An empty order window produces the same shapes with
// zero-valued metrics and label axes still filled, so callers never need an
// empty-state branch.

type SalesRevenue struct {
	Total   float64       `json:"total"`
	Monthly RevenueSeries `json:"monthly"`
	Weekly  RevenueSeries `json:"weekly"`
}

type SalesProducts struct {
	Top        []ProductStats  `json:"top"`
	Categories []CategoryShare `json:"categories"`
}

type SalesReport struct {
	Range    Range             `json:"range"`
	Revenue  SalesRevenue      `json:"revenue"`
	Orders   OrderDistribution `json:"orders"`
	Products SalesProducts     `json:"products"`
}

type TopSelling struct {
	AllTime    []ProductStats `json:"allTime"`
	Last30Days []ProductStats `json:"last30Days"`
	Last7Days  []ProductStats `json:"last7Days"`
}

type ProductSummary struct {
	TotalProducts     int     `json:"totalProducts"`
	ProductsWithSales int     `json:"productsWithSales"`
	UnitsSold         int64   `json:"unitsSold"`
	Revenue           float64 `json:"revenue"`
}

type ProductReport struct {
	Range            Range            `json:"range"`
	TopSelling       TopSelling       `json:"topSelling"`
	WeeklyComparison WeeklyComparison `json:"weeklyComparison"`
	LowSelling       []LowSeller      `json:"lowSelling"`
	Categories       []CategoryShare  `json:"categories"`
	Summary          ProductSummary   `json:"summary"`
}

type CustomerTotals struct {
	TotalCustomers     int `json:"totalCustomers"`
	NewCustomers       int `json:"newCustomers"`
	ReturningCustomers int `json:"returningCustomers"`
	RepeatRate         int `json:"repeatRate"`
}

type CustomerReport struct {
	Range               Range             `json:"range"`
	Totals              CustomerTotals    `json:"totals"`
	TopSpenders         []CustomerSummary `json:"topSpenders"`
	TopLoyalCustomers   []CustomerSummary `json:"topLoyalCustomers"`
	CustomerGrowth      CountSeries       `json:"customerGrowth"`
	PeakTimes           []PeakTime        `json:"peakTimes"`
	SameOrderPercentage int               `json:"sameOrderPercentage"`
	FavoriteItems       []FavoriteItem    `json:"favoriteItems"`
}

func emptySalesReport(w Window) *SalesReport {
	return &SalesReport{
		Range: w.Range,
		Revenue: SalesRevenue{
			Monthly: emptyRevenueSeries(monthSeriesLabels(w, 6)),
			Weekly:  emptyRevenueSeries(weekSeriesLabels(w, 8)),
		},
		Orders: OrderDistribution{
			Daily:  emptyCountSeries(weekdayLabels(w.Now)),
			Weekly: emptyCountSeries(weekSeriesLabels(w, 12)),
		},
		Products: SalesProducts{
			Top:        []ProductStats{},
			Categories: CategoryShares(nil, nil),
		},
	}
}

func emptyProductReport(w Window) *ProductReport {
	return &ProductReport{
		Range: w.Range,
		TopSelling: TopSelling{
			AllTime:    []ProductStats{},
			Last30Days: []ProductStats{},
			Last7Days:  []ProductStats{},
		},
		WeeklyComparison: WeeklyComparison{
			Products: []string{},
			Current:  []ProductStats{},
			Previous: []ProductStats{},
		},
		LowSelling: []LowSeller{},
		Categories: CategoryShares(nil, nil),
	}
}

func emptyCustomerReport(w Window) *CustomerReport {
	return &CustomerReport{
		Range:             w.Range,
		TopSpenders:       []CustomerSummary{},
		TopLoyalCustomers: []CustomerSummary{},
		CustomerGrowth:    emptyCountSeries(w.Labels),
		PeakTimes:         []PeakTime{},
		FavoriteItems:     []FavoriteItem{},
	}
}

func emptyRevenueSeries(labels []string) RevenueSeries {
	return RevenueSeries{Labels: labels, Data: make([]float64, len(labels))}
}

func emptyCountSeries(labels []string) CountSeries {
	return CountSeries{Labels: labels, Data: make([]int64, len(labels))}
}

// Label axes for the empty state, ending with the current period.

func monthSeriesLabels(w Window, n int) []string {
	labels := make([]string, 0, n)
	first := firstOfMonth(w.Now)
	for i := n - 1; i >= 0; i-- {
		labels = append(labels, monthLabel(first.AddDate(0, -i, 0)))
	}
	return labels
}

func weekSeriesLabels(w Window, n int) []string {
	labels := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		labels = append(labels, isoWeekLabel(w.Now.AddDate(0, 0, -7*i)))
	}
	return labels
}

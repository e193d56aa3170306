package pdf

import (
	"bytes"
	"fmt"
	"time"

	"brewtab-analytics-service/internal/analytics"

	"github.com/phpdave11/gofpdf"
)

// RenderSalesReport renders the sales overview as a downloadable PDF.
func RenderSalesReport(report *analytics.SalesReport, merchantID int64, generatedAt time.Time) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Sales Report", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Sales Report")
	doc.Ln(8)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Merchant #%d", merchantID))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Range: %s", report.Range))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("2 Jan 2006 15:04")))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Summary")
	doc.Ln(7)
	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Total revenue: %.2f", report.Revenue.Total))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Orders: %d (completed %d, cancelled %d)",
		report.Orders.TotalOrders, report.Orders.CompletedOrders, report.Orders.CancelledOrders))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Average order value: %d", report.Orders.AverageOrderValue))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Monthly growth: %.1f%%", report.Revenue.Monthly.GrowthPercent))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Monthly Revenue")
	doc.Ln(7)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(60, 6, "Month", "1", 0, "L", false, 0, "")
	doc.CellFormat(40, 6, "Revenue", "1", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for i, label := range report.Revenue.Monthly.Labels {
		doc.CellFormat(60, 6, label, "1", 0, "L", false, 0, "")
		doc.CellFormat(40, 6, fmt.Sprintf("%.2f", report.Revenue.Monthly.Data[i]), "1", 1, "R", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Top Products")
	doc.Ln(7)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(70, 6, "Product", "1", 0, "L", false, 0, "")
	doc.CellFormat(30, 6, "Orders", "1", 0, "R", false, 0, "")
	doc.CellFormat(30, 6, "Units", "1", 0, "R", false, 0, "")
	doc.CellFormat(40, 6, "Revenue", "1", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, product := range report.Products.Top {
		doc.CellFormat(70, 6, product.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(30, 6, fmt.Sprintf("%d", product.Orders), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 6, fmt.Sprintf("%d", product.Units), "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 6, fmt.Sprintf("%.2f", product.Revenue), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render sales report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"brewtab-analytics-service/internal/pdf"
	"brewtab-analytics-service/pkg/response"
)

// MerchantSalesReportPDF streams the sales overview as a PDF download.
func (h *Handler) MerchantSalesReportPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	merchantID, ok := merchantFromContext(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "MERCHANT_ID_REQUIRED", "Merchant ID not found")
		return
	}

	rng, err := parseRangeParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	report, err := h.Engine.GetSalesReport(ctx, merchantID, rng)
	if err != nil {
		h.Logger.Error("sales report export failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build sales report")
		return
	}

	generatedAt := time.Now()
	document, err := pdf.RenderSalesReport(report, merchantID, generatedAt)
	if err != nil {
		h.Logger.Error("sales report pdf render failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render report")
		return
	}

	filename := fmt.Sprintf("sales-report-%s-%s.pdf", rng, generatedAt.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}

package handlers

import (
	"net/http"

	"brewtab-analytics-service/pkg/response"
)

func (h *Handler) MerchantSalesReport(w http.ResponseWriter, r *http.Request) {
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
		h.Logger.Error("sales report failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build sales report")
		return
	}

	h.publishReportEvent(ctx, "sales", merchantID, rng)
	response.SuccessMeta(w, report, map[string]any{"range": rng})
}

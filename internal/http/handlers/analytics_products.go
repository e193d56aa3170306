package handlers

import (
	"net/http"

	"brewtab-analytics-service/pkg/response"
)

func (h *Handler) MerchantProductReport(w http.ResponseWriter, r *http.Request) {
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
	threshold := parseThresholdParam(r, h.Config.LowSellerThreshold)

	report, err := h.Engine.GetProductReport(ctx, merchantID, rng, threshold)
	if err != nil {
		h.Logger.Error("product report failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build product report")
		return
	}

	h.publishReportEvent(ctx, "products", merchantID, rng)
	response.SuccessMeta(w, report, map[string]any{
		"range":              rng,
		"lowSellerThreshold": threshold,
	})
}

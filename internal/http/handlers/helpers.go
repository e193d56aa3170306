package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"brewtab-analytics-service/internal/analytics"
	"brewtab-analytics-service/internal/middleware"
	"brewtab-analytics-service/internal/queue"

	"go.uber.org/zap"
)

func zapError(err error) zap.Field {
	return zap.Error(err)
}

func merchantFromContext(r *http.Request) (int64, bool) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok || authCtx.MerchantID == nil {
		return 0, false
	}
	return *authCtx.MerchantID, true
}

func parseRangeParam(r *http.Request) (analytics.Range, error) {
	return analytics.ParseRange(strings.TrimSpace(r.URL.Query().Get("range")))
}

// parseThresholdParam reads lowSellerThreshold; absent or invalid values
// fall back so a bad query string cannot blank the report.
func parseThresholdParam(r *http.Request, fallback int) int {
	value := strings.TrimSpace(r.URL.Query().Get("lowSellerThreshold"))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func (h *Handler) publishReportEvent(ctx context.Context, shape string, merchantID int64, rng analytics.Range) {
	if h.Queue == nil {
		return
	}
	err := queue.PublishReportGenerated(ctx, h.Queue, h.Config.EventsExchange, shape, merchantID, string(rng))
	if err != nil {
		h.Logger.Warn("report event publish failed",
			zap.String("shape", shape),
			zap.Int64("merchantId", merchantID),
			zapError(err),
		)
	}
}

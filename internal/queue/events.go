package queue

import (
	"context"
	"time"
)

type ReportGeneratedEvent struct {
	Type        string    `json:"type"`
	Shape       string    `json:"shape"`
	MerchantID  int64     `json:"merchantId"`
	Range       string    `json:"range"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// PublishReportGenerated emits an analytics.report.<shape>.generated event.
// Callers treat failures as non-fatal: a report is still served when the
// broker is down.
func PublishReportGenerated(ctx context.Context, c *Client, exchange string, shape string, merchantID int64, rng string) error {
	if c == nil {
		return nil
	}
	event := ReportGeneratedEvent{
		Type:        "analytics.report." + shape + ".generated",
		Shape:       shape,
		MerchantID:  merchantID,
		Range:       rng,
		GeneratedAt: time.Now().UTC(),
	}
	return c.PublishJSON(ctx, exchange, event.Type, event)
}

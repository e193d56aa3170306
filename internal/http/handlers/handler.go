package handlers

import (
	"brewtab-analytics-service/internal/analytics"
	"brewtab-analytics-service/internal/config"
	"brewtab-analytics-service/internal/queue"

	"go.uber.org/zap"
)

type Handler struct {
	Engine *analytics.Engine
	Logger *zap.Logger
	Config config.Config
	Queue  *queue.Client
}

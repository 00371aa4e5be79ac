package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deca109/TaskFlow.ai/internal/observability"
)

// MetricsHandler exposes the in-memory request/error counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Show handles GET /metrics. Counters are keyed by path|method|status.
func (h *MetricsHandler) Show(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"requests": requests,
		"errors":   errs,
	})
}

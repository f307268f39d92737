package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"agentdeals/internal/models"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// RunHistory lists pricing check runs, newest first.
type RunHistory interface {
	RecentRuns(ctx context.Context, limit int) ([]models.CheckRun, error)
}

// PricingHandler serves pricing check history via JSON API.
type PricingHandler struct {
	history RunHistory
	logger  *slog.Logger
}

// NewPricingHandler creates a new pricing handler. A nil history serves an
// empty list.
func NewPricingHandler(history RunHistory, logger *slog.Logger) *PricingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PricingHandler{history: history, logger: logger}
}

// Runs returns recent pricing check summaries.
func (h *PricingHandler) Runs(c fiber.Ctx) error {
	limit, err := optionalInt(c, "limit")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	n := defaultRunLimit
	if limit != nil {
		if *limit < 1 || *limit > maxRunLimit {
			return jsonError(c, fiber.StatusBadRequest, "limit must be between 1 and 100")
		}
		n = *limit
	}

	if h.history == nil {
		return jsonSuccess(c, []models.CheckRun{})
	}

	runs, err := h.history.RecentRuns(c.Context(), n)
	if err != nil {
		h.logger.Error("failed to list pricing runs", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load pricing runs")
	}
	if runs == nil {
		runs = []models.CheckRun{}
	}
	return jsonSuccess(c, runs)
}

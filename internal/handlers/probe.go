package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"agentdeals/internal/catalog"
)

// pingTimeout bounds the database check in Readiness.
const pingTimeout = 2 * time.Second

// Pinger checks a backing service connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	store *catalog.Store
	db    Pinger
}

// NewProbeHandler creates a new probe handler. db may be nil when no
// database backs the process.
func NewProbeHandler(store *catalog.Store, db Pinger) *ProbeHandler {
	return &ProbeHandler{store: store, db: db}
}

// Liveness handles /healthz and /health. Returns 200 OK while the process runs.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles /readyz. The server is ready once the offers document
// loaded without a fault and the database, if any, answers a ping.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.store.OffersErr(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "offer catalog unavailable",
		})
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "database unavailable",
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agentdeals/internal/catalog"
	"agentdeals/internal/handlers"
	"agentdeals/internal/handlers/api"
	"agentdeals/internal/mcp"
)

// Deps are the services the routes are served from. History and DB are
// optional.
type Deps struct {
	Catalog  *catalog.Service
	MCP      *mcp.Server
	Sessions *mcp.Sessions
	History  api.RunHistory
	DB       handlers.Pinger
	Logger   *slog.Logger
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	pageHandler := handlers.NewPageHandler(deps.Catalog, s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.Catalog.Store(), deps.DB)
	mcpHandler := handlers.NewMCPHandler(deps.MCP, deps.Sessions, deps.Logger)
	catalogHandler := api.NewCatalogHandler(deps.Catalog, s.Cfg.StaleThresholdDays)
	pricingHandler := api.NewPricingHandler(deps.History, deps.Logger)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/health", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Pages
	s.App.Get("/", pageHandler.Index)
	s.App.Get("/charts", pageHandler.Charts)

	// JSON API
	apiGroup := s.App.Group("/api")
	apiGroup.Get("/categories", catalogHandler.Categories)
	apiGroup.Get("/offers", catalogHandler.Offers)
	apiGroup.Get("/offers/:vendor", catalogHandler.Offer)
	apiGroup.Get("/changes", catalogHandler.Changes)
	apiGroup.Get("/stale", catalogHandler.Stale)
	apiGroup.Get("/pricing/runs", pricingHandler.Runs)

	// Tool protocol over HTTP
	s.App.Post("/mcp", mcpHandler.Post)
	s.App.Delete("/mcp", mcpHandler.Delete)
	s.App.Get("/mcp", mcpHandler.Get)
}

package handlers

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gofiber/fiber/v3"

	"agentdeals/internal/catalog"
	"agentdeals/internal/config"
	"agentdeals/internal/models"
)

// PageHandler renders the human-facing pages.
type PageHandler struct {
	svc *catalog.Service
	cfg *config.Config
}

// NewPageHandler creates a new page handler.
func NewPageHandler(svc *catalog.Service, cfg *config.Config) *PageHandler {
	return &PageHandler{svc: svc, cfg: cfg}
}

// Index lists categories with their offer counts and the latest changes.
func (h *PageHandler) Index(c fiber.Ctx) error {
	categories := h.svc.Categories()
	total := 0
	for _, cat := range categories {
		total += cat.Count
	}

	return c.Render("index", MergeBranding(fiber.Map{
		"Title":      "Developer deals",
		"Categories": categories,
		"Total":      total,
		"Changes":    h.svc.DealChanges(catalog.ChangeParams{}).Changes,
	}, h.cfg))
}

// Charts renders offers per category and changes per type.
func (h *PageHandler) Charts(c fiber.Ctx) error {
	page := components.NewPage()
	page.PageTitle = h.cfg.SiteTitle + " charts"
	page.AddCharts(
		categoryChart(h.svc.Categories()),
		changeTypeChart(h.svc.Store().DealChanges()),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

func categoryChart(categories []models.Category) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Offers per category"}))

	names := make([]string, 0, len(categories))
	counts := make([]opts.BarData, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Name)
		counts = append(counts, opts.BarData{Value: cat.Count})
	}
	bar.SetXAxis(names).AddSeries("Offers", counts)
	return bar
}

func changeTypeChart(changes []models.DealChange) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Changes by type"}))

	counts := make(map[string]int, len(models.ChangeTypes))
	for _, ch := range changes {
		counts[ch.ChangeType]++
	}
	items := make([]opts.PieData, 0, len(models.ChangeTypes))
	for _, t := range models.ChangeTypes {
		if counts[t] > 0 {
			items = append(items, opts.PieData{Name: t, Value: counts[t]})
		}
	}
	pie.AddSeries("Changes", items)
	return pie
}

package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"agentdeals/internal/catalog"
	"agentdeals/internal/metrics"
	"agentdeals/internal/models"
)

// CatalogHandler serves the offer catalog via JSON API.
type CatalogHandler struct {
	svc            *catalog.Service
	staleThreshold int
}

// NewCatalogHandler creates a new API catalog handler.
func NewCatalogHandler(svc *catalog.Service, staleThreshold int) *CatalogHandler {
	return &CatalogHandler{svc: svc, staleThreshold: staleThreshold}
}

// Categories returns every category with its offer count.
func (h *CatalogHandler) Categories(c fiber.Ctx) error {
	return jsonSuccess(c, h.svc.Categories())
}

// Offers searches the catalog.
func (h *CatalogHandler) Offers(c fiber.Ctx) error {
	params := catalog.SearchParams{
		Query:           c.Query("q"),
		Category:        c.Query("category"),
		EligibilityType: c.Query("eligibility_type"),
		Sort:            c.Query("sort"),
	}
	if params.EligibilityType != "" && !models.IsEligibilityType(params.EligibilityType) {
		return jsonError(c, fiber.StatusBadRequest, invalidEnum("eligibility_type", params.EligibilityType, models.EligibilityTypes))
	}
	if params.Sort != "" && !catalog.IsSortOrder(params.Sort) {
		return jsonError(c, fiber.StatusBadRequest, invalidEnum("sort", params.Sort, catalog.SortOrders))
	}

	limit, err := optionalInt(c, "limit")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	offset, err := optionalInt(c, "offset")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	return jsonSuccess(c, catalog.Paginate(h.svc.SearchOffers(params), limit, offset))
}

// Offer returns one vendor's offer. A miss is a 404 carrying suggestions.
func (h *CatalogHandler) Offer(c fiber.Ctx) error {
	res := h.svc.OfferDetails(c.Params("vendor"))
	metrics.RecordVendorLookup(res.Found())
	if !res.Found() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":      "error",
			"error":       res.Miss.Message(),
			"suggestions": res.Miss.Suggestions,
		})
	}
	return jsonSuccess(c, res.Offer)
}

// Changes returns the deal change feed.
func (h *CatalogHandler) Changes(c fiber.Ctx) error {
	params := catalog.ChangeParams{
		Since:      c.Query("since"),
		ChangeType: c.Query("change_type"),
		Vendor:     c.Query("vendor"),
	}
	if params.ChangeType != "" && !models.IsChangeType(params.ChangeType) {
		return jsonError(c, fiber.StatusBadRequest, invalidEnum("change_type", params.ChangeType, models.ChangeTypes))
	}
	return jsonSuccess(c, h.svc.DealChanges(params))
}

// Stale returns offers whose verification date is older than ?days (or the
// configured threshold).
func (h *CatalogHandler) Stale(c fiber.Ctx) error {
	days := h.staleThreshold
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "days must be a non-negative integer")
		}
		days = n
	}

	report, err := h.svc.Stale(days)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidThreshold) {
			return jsonError(c, fiber.StatusBadRequest, "days must be a non-negative integer")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute staleness")
	}
	return jsonSuccess(c, report)
}

func optionalInt(c fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func invalidEnum(field, value string, allowed []string) string {
	return fmt.Sprintf("Invalid %s %q: must be one of %s", field, value, strings.Join(allowed, ", "))
}

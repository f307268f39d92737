package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agentdeals/internal/catalog"
	"agentdeals/internal/models"
)

// Tool names.
const (
	ToolListCategories  = "list_categories"
	ToolSearchOffers    = "search_offers"
	ToolGetOfferDetails = "get_offer_details"
	ToolGetDealChanges  = "get_deal_changes"
)

// Tool describes a callable tool in tools/list.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Content is one block of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the result of tools/call.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

func textResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: text}}}
}

func errorResult(text string) *ToolResult {
	r := textResult(text)
	r.IsError = true
	return r
}

// jsonResult pretty-prints v as the single text block.
func jsonResult(v any, errPrefix string) *ToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("%s: %v", errPrefix, err))
	}
	return textResult(string(data))
}

type toolHandler func(ctx context.Context, args json.RawMessage) (*ToolResult, error)

type registeredTool struct {
	Tool
	handler toolHandler
}

func stringSchema(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func enumSchema(desc string, values []string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

func numberSchema(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (s *Server) catalogTools() []registeredTool {
	return []registeredTool{
		{
			Tool: Tool{
				Name:        ToolListCategories,
				Description: "List available categories of developer tool offers (cloud hosting, databases, CI/CD, etc.)",
				InputSchema: objectSchema(map[string]any{}),
			},
			handler: s.listCategories,
		},
		{
			Tool: Tool{
				Name:        ToolSearchOffers,
				Description: "Search developer tool offers by keyword, category, or vendor name. Returns matching deals with details and URLs. Supports pagination via limit/offset.",
				InputSchema: objectSchema(map[string]any{
					"query":            stringSchema("Keyword to search for in vendor names, descriptions, and tags"),
					"category":         stringSchema("Filter results to a specific category (e.g. 'Databases', 'Cloud Hosting')"),
					"eligibility_type": enumSchema("Filter by eligibility type", models.EligibilityTypes),
					"sort":             enumSchema("Sort results: vendor (alphabetical), category (by category then vendor), newest (most recently verified first)", catalog.SortOrders),
					"limit":            numberSchema("Maximum results to return (default: all results, or 20 when offset is provided)"),
					"offset":           numberSchema("Number of results to skip (default: 0)"),
				}),
			},
			handler: s.searchOffers,
		},
		{
			Tool: Tool{
				Name:        ToolGetOfferDetails,
				Description: "Get full details for a specific vendor by name, including related vendors in the same category.",
				InputSchema: objectSchema(map[string]any{
					"vendor": stringSchema("Vendor name (case-insensitive match)"),
				}, "vendor"),
			},
			handler: s.getOfferDetails,
		},
		{
			Tool: Tool{
				Name:        ToolGetDealChanges,
				Description: "Get recent pricing and free tier changes for developer tools. Tracks free tier removals, limit reductions/increases, new free tiers, and pricing restructures.",
				InputSchema: objectSchema(map[string]any{
					"since":       stringSchema("ISO date string (YYYY-MM-DD). Only return changes on or after this date. Default: 30 days ago"),
					"change_type": enumSchema("Filter by type of change", models.ChangeTypes),
					"vendor":      stringSchema("Filter by vendor name (case-insensitive partial match)"),
				}),
			},
			handler: s.getDealChanges,
		},
	}
}

// decodeArgs unmarshals tool arguments. Absent arguments decode as empty.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return newError(CodeInvalidParams, fmt.Sprintf("Invalid arguments: %v", err))
	}
	return nil
}

func invalidEnum(field, value string, allowed []string) *ToolResult {
	return errorResult(fmt.Sprintf("Invalid %s %q: must be one of %s", field, value, strings.Join(allowed, ", ")))
}

func (s *Server) listCategories(_ context.Context, _ json.RawMessage) (*ToolResult, error) {
	return jsonResult(s.catalog.Categories(), "Error listing categories"), nil
}

type searchArgs struct {
	Query           string `json:"query"`
	Category        string `json:"category"`
	EligibilityType string `json:"eligibility_type"`
	Sort            string `json:"sort"`
	Limit           *int   `json:"limit"`
	Offset          *int   `json:"offset"`
}

func (s *Server) searchOffers(_ context.Context, raw json.RawMessage) (*ToolResult, error) {
	var args searchArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.EligibilityType != "" && !models.IsEligibilityType(args.EligibilityType) {
		return invalidEnum("eligibility_type", args.EligibilityType, models.EligibilityTypes), nil
	}
	if args.Sort != "" && !catalog.IsSortOrder(args.Sort) {
		return invalidEnum("sort", args.Sort, catalog.SortOrders), nil
	}

	results := s.catalog.SearchOffers(catalog.SearchParams{
		Query:           args.Query,
		Category:        args.Category,
		EligibilityType: args.EligibilityType,
		Sort:            args.Sort,
	})
	return jsonResult(catalog.Paginate(results, args.Limit, args.Offset), "Error searching offers"), nil
}

type detailsArgs struct {
	Vendor *string `json:"vendor"`
}

func (s *Server) getOfferDetails(_ context.Context, raw json.RawMessage) (*ToolResult, error) {
	var args detailsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Vendor == nil {
		return nil, newError(CodeInvalidParams, "Invalid arguments: vendor is required")
	}

	res := s.catalog.OfferDetails(*args.Vendor)
	if !res.Found() {
		return errorResult(res.Miss.Message()), nil
	}
	return jsonResult(res.Offer, "Error getting offer details"), nil
}

type changesArgs struct {
	Since      string `json:"since"`
	ChangeType string `json:"change_type"`
	Vendor     string `json:"vendor"`
}

func (s *Server) getDealChanges(_ context.Context, raw json.RawMessage) (*ToolResult, error) {
	var args changesArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.ChangeType != "" && !models.IsChangeType(args.ChangeType) {
		return invalidEnum("change_type", args.ChangeType, models.ChangeTypes), nil
	}

	return jsonResult(s.catalog.DealChanges(catalog.ChangeParams{
		Since:      args.Since,
		ChangeType: args.ChangeType,
		Vendor:     args.Vendor,
	}), "Error getting deal changes"), nil
}

package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdeals/internal/mcp"
	"agentdeals/internal/models"
	"agentdeals/internal/testutil"
)

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *mcp.Error      `json:"error"`
}

func newServer(t *testing.T, opts ...mcp.Option) *mcp.Server {
	t.Helper()
	opts = append([]mcp.Option{mcp.WithLogger(testutil.DiscardLogger())}, opts...)
	return mcp.NewServer(testutil.NewSampleService(t), opts...)
}

func send(t *testing.T, s *mcp.Server, msg string) rpcResponse {
	t.Helper()
	out := s.HandleMessage(context.Background(), []byte(msg))
	require.NotNil(t, out)
	var resp rpcResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	return resp
}

// callTool invokes a tool and decodes its result.
func callTool(t *testing.T, s *mcp.Server, name string, args any) mcp.ToolResult {
	t.Helper()
	params, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	require.NoError(t, err)
	resp := send(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":`+string(params)+`}`)
	require.Nil(t, resp.Error, "unexpected rpc error")

	var result mcp.ToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	return result
}

func TestInitialize(t *testing.T) {
	s := newServer(t)

	resp := send(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `1`, string(resp.ID))

	var result mcp.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "2025-03-26", result.ProtocolVersion)
	assert.Equal(t, mcp.ServerInfo{Name: "agentdeals", Version: mcp.ServerVersion}, result.ServerInfo)
	assert.Contains(t, result.Capabilities, "tools")

	resp = send(t, s, `{"jsonrpc":"2.0","id":"a","method":"initialize","params":{"protocolVersion":"1999-01-01"}}`)
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, mcp.SupportedProtocolVersions[0], result.ProtocolVersion)
	assert.JSONEq(t, `"a"`, string(resp.ID))
}

func TestNotificationsHaveNoResponse(t *testing.T) {
	s := newServer(t)
	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)))
	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"no/such"}`)))
}

func TestToolsList(t *testing.T) {
	resp := send(t, newServer(t), `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	var result struct {
		Tools []mcp.Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.Equal(t, "object", tool.InputSchema["type"])
	}
	assert.Equal(t, []string{"list_categories", "search_offers", "get_offer_details", "get_deal_changes"}, names)
}

func TestProtocolErrors(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		msg  string
		code int
		id   string
	}{
		{"unknown method", `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`, mcp.CodeMethodNotFound, `3`},
		{"unknown tool", `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope"}}`, mcp.CodeInvalidParams, `4`},
		{"missing call params", `{"jsonrpc":"2.0","id":5,"method":"tools/call"}`, mcp.CodeInvalidParams, `5`},
		{"bad argument type", `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"search_offers","arguments":{"limit":"ten"}}}`, mcp.CodeInvalidParams, `6`},
		{"missing vendor", `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"get_offer_details","arguments":{}}}`, mcp.CodeInvalidParams, `7`},
		{"wrong version", `{"jsonrpc":"1.0","id":8,"method":"ping"}`, mcp.CodeInvalidRequest, `8`},
		{"parse error", `{"jsonrpc":`, mcp.CodeParseError, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := send(t, s, tt.msg)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.JSONEq(t, tt.id, string(resp.ID))
		})
	}
}

func TestListCategoriesTool(t *testing.T) {
	result := callTool(t, newServer(t), mcp.ToolListCategories, nil)
	assert.False(t, result.IsError)

	var categories []models.Category
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &categories))
	assert.Equal(t, []models.Category{
		{Name: "AI Coding", Count: 1},
		{Name: "Cloud Hosting", Count: 2},
		{Name: "Databases", Count: 2},
	}, categories)
}

func TestSearchOffersTool(t *testing.T) {
	s := newServer(t)

	t.Run("query without pagination returns everything", func(t *testing.T) {
		result := callTool(t, s, mcp.ToolSearchOffers, map[string]any{"query": "postgres", "sort": "vendor"})
		require.False(t, result.IsError)

		var resp models.SearchResponse
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &resp))
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 2, resp.Limit)
		assert.Equal(t, 0, resp.Offset)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "Neon", resp.Results[0].Vendor)
		assert.Equal(t, "Supabase", resp.Results[1].Vendor)
	})

	t.Run("offset only uses default page size", func(t *testing.T) {
		result := callTool(t, s, mcp.ToolSearchOffers, map[string]any{"offset": 3})
		var resp models.SearchResponse
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &resp))
		assert.Equal(t, 5, resp.Total)
		assert.Equal(t, 20, resp.Limit)
		assert.Equal(t, 3, resp.Offset)
		assert.Len(t, resp.Results, 2)
	})

	t.Run("invalid eligibility type", func(t *testing.T) {
		result := callTool(t, s, mcp.ToolSearchOffers, map[string]any{"eligibility_type": "vip"})
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content[0].Text, `Invalid eligibility_type "vip"`)
	})

	t.Run("invalid sort", func(t *testing.T) {
		result := callTool(t, s, mcp.ToolSearchOffers, map[string]any{"sort": "price"})
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content[0].Text, "vendor, category, newest")
	})
}

func TestGetOfferDetailsTool(t *testing.T) {
	s := newServer(t)

	result := callTool(t, s, mcp.ToolGetOfferDetails, map[string]any{"vendor": "neon"})
	require.False(t, result.IsError)
	var detail models.OfferDetail
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &detail))
	assert.Equal(t, "Neon", detail.Vendor)
	assert.Equal(t, []string{"Supabase"}, detail.RelatedVendors)

	result = callTool(t, s, mcp.ToolGetOfferDetails, map[string]any{"vendor": "Neo"})
	assert.True(t, result.IsError)
	assert.Equal(t, `Vendor "Neo" not found. Did you mean: Neon?`, result.Content[0].Text)

	result = callTool(t, s, mcp.ToolGetOfferDetails, map[string]any{"vendor": "Zzz"})
	assert.True(t, result.IsError)
	assert.Equal(t, `Vendor "Zzz" not found. No similar vendors found.`, result.Content[0].Text)
}

func TestGetDealChangesTool(t *testing.T) {
	s := newServer(t)

	result := callTool(t, s, mcp.ToolGetDealChanges, map[string]any{"since": "2026-01-01"})
	require.False(t, result.IsError)
	var resp models.DealChangesResponse
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Changes, 3)
	assert.Equal(t, "Vercel", resp.Changes[0].Vendor)
	assert.Equal(t, "Neon", resp.Changes[1].Vendor)
	assert.Equal(t, "Supabase", resp.Changes[2].Vendor)

	result = callTool(t, s, mcp.ToolGetDealChanges, map[string]any{"change_type": "price_hike"})
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `Invalid change_type "price_hike"`)
}

func TestBatch(t *testing.T) {
	s := newServer(t)
	out := s.HandleMessage(context.Background(), []byte(`[
		{"jsonrpc":"2.0","id":1,"method":"ping"},
		{"jsonrpc":"2.0","method":"notifications/initialized"},
		{"jsonrpc":"2.0","id":2,"method":"tools/list"}
	]`))
	require.NotNil(t, out)

	var responses []rpcResponse
	require.NoError(t, json.Unmarshal(out, &responses))
	require.Len(t, responses, 2)
	assert.JSONEq(t, `1`, string(responses[0].ID))
	assert.JSONEq(t, `2`, string(responses[1].ID))

	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`[{"jsonrpc":"2.0","method":"notifications/initialized"}]`)))

	resp := send(t, s, `[]`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeInvalidRequest, resp.Error.Code)
}

func TestToolObserver(t *testing.T) {
	type call struct {
		tool    string
		isError bool
	}
	var calls []call
	s := newServer(t, mcp.WithToolObserver(func(tool string, isError bool, _ time.Duration) {
		calls = append(calls, call{tool, isError})
	}))

	callTool(t, s, mcp.ToolListCategories, nil)
	callTool(t, s, mcp.ToolGetOfferDetails, map[string]any{"vendor": "nobody"})

	assert.Equal(t, []call{{"list_categories", false}, {"get_offer_details", true}}, calls)
}

func TestIsInitialize(t *testing.T) {
	assert.True(t, mcp.IsInitialize([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)))
	assert.True(t, mcp.IsInitialize([]byte(`[{"method":"ping"},{"method":"initialize"}]`)))
	assert.False(t, mcp.IsInitialize([]byte(`{"method":"tools/list"}`)))
	assert.False(t, mcp.IsInitialize([]byte(`not json`)))
}

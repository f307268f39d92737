package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"agentdeals/internal/catalog"
)

// Methods handled by the server.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)

// Server identity reported by initialize.
const (
	ServerName    = "agentdeals"
	ServerVersion = "0.1.0"
)

// ToolObserver is told about every tools/call.
type ToolObserver func(tool string, isError bool, elapsed time.Duration)

// Server dispatches JSON-RPC messages to the catalog tools.
type Server struct {
	catalog  *catalog.Service
	tools    []registeredTool
	logger   *slog.Logger
	observer ToolObserver
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithToolObserver registers a callback for tool call metrics.
func WithToolObserver(o ToolObserver) Option {
	return func(s *Server) { s.observer = o }
}

// NewServer creates a server over the catalog service.
func NewServer(svc *catalog.Service, opts ...Option) *Server {
	s := &Server{catalog: svc, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.tools = s.catalogTools()
	return s
}

// Tools returns the tool descriptors in registration order.
func (s *Server) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	for i, t := range s.tools {
		out[i] = t.Tool
	}
	return out
}

// HandleMessage processes a single or batched JSON-RPC payload. It returns
// nil when nothing needs to be sent back (notifications only).
func (s *Server) HandleMessage(ctx context.Context, data []byte) []byte {
	if isBatch(data) {
		return s.handleBatch(ctx, data)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return mustMarshal(errorResponse(nil, newError(CodeParseError, "Parse error")))
	}
	resp := s.Handle(ctx, &req)
	if resp == nil {
		return nil
	}
	return mustMarshal(resp)
}

func (s *Server) handleBatch(ctx context.Context, data []byte) []byte {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return mustMarshal(errorResponse(nil, newError(CodeParseError, "Parse error")))
	}
	if len(raw) == 0 {
		return mustMarshal(errorResponse(nil, newError(CodeInvalidRequest, "Invalid Request: empty batch")))
	}

	responses := make([]*Response, 0, len(raw))
	for _, msg := range raw {
		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			responses = append(responses, errorResponse(nil, newError(CodeInvalidRequest, "Invalid Request")))
			continue
		}
		if resp := s.Handle(ctx, &req); resp != nil {
			responses = append(responses, resp)
		}
	}
	if len(responses) == 0 {
		return nil
	}
	return mustMarshal(responses)
}

// Handle dispatches one request. Notifications yield nil.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != JSONRPCVersion || req.Method == "" {
		if req.IsNotification() {
			return nil
		}
		return errorResponse(req.ID, newError(CodeInvalidRequest, "Invalid Request"))
	}

	result, err := s.dispatch(ctx, req)
	if req.IsNotification() {
		return nil
	}
	if err != nil {
		var rpcErr *Error
		if !errors.As(err, &rpcErr) {
			s.logger.Error("mcp request failed", "method", req.Method, "error", err)
			rpcErr = newError(CodeInternalError, "Internal error")
		}
		return errorResponse(req.ID, rpcErr)
	}
	return resultResponse(req.ID, result)
}

func (s *Server) dispatch(ctx context.Context, req *Request) (any, error) {
	switch req.Method {
	case MethodInitialize:
		return s.initialize(req.Params)
	case MethodInitialized, MethodPing:
		return struct{}{}, nil
	case MethodToolsList:
		return map[string]any{"tools": s.Tools()}, nil
	case MethodToolsCall:
		return s.callTool(ctx, req.Params)
	default:
		return nil, newError(CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

type initializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
}

// InitializeResult is returned by initialize.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// ServerInfo names the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) initialize(raw json.RawMessage) (any, error) {
	var params initializeParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, newError(CodeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
		}
	}

	version := SupportedProtocolVersions[0]
	if slices.Contains(SupportedProtocolVersions, params.ProtocolVersion) {
		version = params.ProtocolVersion
	}

	return InitializeResult{
		ProtocolVersion: version,
		Capabilities:    map[string]any{"tools": map[string]any{"listChanged": false}},
		ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
	}, nil
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, error) {
	var params callParams
	if len(raw) == 0 {
		return nil, newError(CodeInvalidParams, "Invalid params: missing tool name")
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, newError(CodeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
	}

	idx := slices.IndexFunc(s.tools, func(t registeredTool) bool { return t.Name == params.Name })
	if idx < 0 {
		return nil, newError(CodeInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	start := time.Now()
	result, err := s.tools[idx].handler(ctx, params.Arguments)
	if err != nil {
		return nil, err
	}
	if result.IsError {
		s.logger.Debug("tool returned error result", "tool", params.Name, "text", result.Content[0].Text)
	}
	if s.observer != nil {
		s.observer(params.Name, result.IsError, time.Since(start))
	}
	return result, nil
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(errorResponse(nil, newError(CodeInternalError, "Internal error")))
	}
	return data
}

// Package mcp serves the offer catalog over the Model Context Protocol:
// JSON-RPC 2.0 requests for initialize, tools/list and tools/call, carried
// over stdio or HTTP.
package mcp

import (
	"bytes"
	"encoding/json"
)

// JSONRPCVersion is the only accepted "jsonrpc" value.
const JSONRPCVersion = "2.0"

// Protocol versions this server speaks, newest first.
var SupportedProtocolVersions = []string{"2025-06-18", "2025-03-26", "2024-11-05"}

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is a JSON-RPC request or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is a JSON-RPC response. Exactly one of Result or Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func newError(code int, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func errorResponse(id json.RawMessage, err *Error) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: nullID(id), Error: err}
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: nullID(id), Result: result}
}

func nullID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}

// isBatch reports whether the payload is a JSON array.
func isBatch(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// IsInitialize reports whether a single or batched payload contains an
// initialize request.
func IsInitialize(data []byte) bool {
	type methodOnly struct {
		Method string `json:"method"`
	}
	if isBatch(data) {
		var batch []methodOnly
		if err := json.Unmarshal(data, &batch); err != nil {
			return false
		}
		for _, m := range batch {
			if m.Method == MethodInitialize {
				return true
			}
		}
		return false
	}
	var m methodOnly
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	return m.Method == MethodInitialize
}

package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"agentdeals/internal/mcp"
)

// SessionHeader carries the tool protocol session id.
const SessionHeader = "Mcp-Session-Id"

// MCPHandler exposes the tool protocol over HTTP. A client opens a session
// with an initialize request and sends the returned id on every later call.
type MCPHandler struct {
	server   *mcp.Server
	sessions *mcp.Sessions
	logger   *slog.Logger
}

// NewMCPHandler creates a new tool protocol handler.
func NewMCPHandler(server *mcp.Server, sessions *mcp.Sessions, logger *slog.Logger) *MCPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MCPHandler{server: server, sessions: sessions, logger: logger}
}

// Post handles JSON-RPC messages.
func (h *MCPHandler) Post(c fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return plainError(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	sid := c.Get(SessionHeader)
	switch {
	case sid == "" && mcp.IsInitialize(body):
		id, err := h.sessions.Create()
		if err != nil {
			h.logger.Error("mcp: failed to create session", "error", err)
			return plainError(c, fiber.StatusInternalServerError, "Failed to create session")
		}
		sid = id
	case sid != "":
		live, err := h.sessions.Touch(sid)
		if err != nil {
			h.logger.Error("mcp: session lookup failed", "error", err)
			return plainError(c, fiber.StatusInternalServerError, "Session lookup failed")
		}
		if !live {
			return noSession(c)
		}
	default:
		return noSession(c)
	}

	c.Set(SessionHeader, sid)
	resp := h.server.HandleMessage(c.Context(), body)
	if resp == nil {
		// 202 with an empty body; SendStatus would write the status text.
		c.Status(fiber.StatusAccepted)
		return nil
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(resp)
}

// Delete ends a session.
func (h *MCPHandler) Delete(c fiber.Ctx) error {
	sid := c.Get(SessionHeader)
	if sid == "" {
		return plainError(c, fiber.StatusBadRequest, "Invalid or missing session ID")
	}
	ended, err := h.sessions.End(sid)
	if err != nil {
		h.logger.Error("mcp: failed to end session", "error", err)
		return plainError(c, fiber.StatusInternalServerError, "Failed to end session")
	}
	if !ended {
		return plainError(c, fiber.StatusNotFound, "Session not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Get rejects server-sent event streams, which this server does not offer.
func (h *MCPHandler) Get(c fiber.Ctx) error {
	live, err := h.sessions.Touch(c.Get(SessionHeader))
	if err != nil || !live {
		return plainError(c, fiber.StatusBadRequest, "Invalid or missing session ID")
	}
	c.Set(fiber.HeaderAllow, "POST, DELETE")
	return plainError(c, fiber.StatusMethodNotAllowed, "Method not allowed")
}

func noSession(c fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      json.RawMessage("null"),
		Error: &mcp.Error{
			Code:    mcp.CodeInvalidRequest,
			Message: "Bad Request: No valid session. Send an initialize request first.",
		},
	})
}

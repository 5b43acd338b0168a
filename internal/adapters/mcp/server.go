// Package mcp exposes the castlet controller as a Model Context
// Protocol server, so agents can register applications, negotiate
// presentation sessions and drive them as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/castlet/castlet"
	"github.com/castlet/castlet/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Controller defines what the MCP server needs from the castlet core.
type Controller interface {
	RegisterApplication(ctx context.Context, url, launchID string) error
	RequestSession(ctx context.Context, url string) *session.Presentation
}

// Server wraps a Controller and exposes it as an MCP Server.
type Server struct {
	controller Controller
	mcpServer  *server.MCPServer

	mu       sync.RWMutex
	sessions map[string]*session.Presentation
}

// NewServer creates a new MCP Server instance.
func NewServer(controller Controller) *Server {
	s := &Server{
		controller: controller,
		mcpServer:  server.NewMCPServer("castlet-mcp", strings.TrimSpace(castlet.Version)),
		sessions:   make(map[string]*session.Presentation),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: register_application
	s.mcpServer.AddTool(mcp.NewTool("register_application",
		mcp.WithDescription("Register the cast launch identifier for an application URL. Required before cast negotiation can succeed for that URL."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Application content URL")),
		mcp.WithString("launch_id", mcp.Required(), mcp.Description("Transport-specific launch identifier")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		url, _ := args["url"].(string)
		launchID, _ := args["launch_id"].(string)
		if url == "" || launchID == "" {
			return mcp.NewToolResultError("url and launch_id are required"), nil
		}
		if err := s.controller.RegisterApplication(ctx, url, launchID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("registration failed: %v", err)), nil
		}
		return mcp.NewToolResultText(`{"registered":true}`), nil
	})

	// TOOL: request_session
	s.mcpServer.AddTool(mcp.NewTool("request_session",
		mcp.WithDescription("Start negotiating a presentation session for a URL. Returns a session id immediately; poll session_state until it reports connected."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Target content URL")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		url, _ := args["url"].(string)
		if url == "" {
			return mcp.NewToolResultError("url is required"), nil
		}

		// Negotiation outlives the tool call on purpose.
		sess := s.controller.RequestSession(context.Background(), url)
		id := uuid.NewString()
		s.mu.Lock()
		s.sessions[id] = sess
		s.mu.Unlock()

		return s.sessionResult(id, sess)
	})

	// TOOL: session_state
	s.mcpServer.AddTool(mcp.NewTool("session_state",
		mcp.WithDescription("Report the current state of a session."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session id from request_session")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, sess, errRes := s.lookup(request)
		if errRes != nil {
			return errRes, nil
		}
		return s.sessionResult(id, sess)
	})

	// TOOL: post_message
	s.mcpServer.AddTool(mcp.NewTool("post_message",
		mcp.WithDescription("Post a JSON payload to the receiver. Silently dropped unless the session is connected, per the session contract."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("JSON payload, e.g. {\"cmd\":\"next\"}")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		_, sess, errRes := s.lookup(request)
		if errRes != nil {
			return errRes, nil
		}
		payload, _ := request.GetArguments()["payload"].(string)
		if payload == "" {
			return mcp.NewToolResultError("payload is required"), nil
		}
		sess.PostMessage([]byte(payload))
		return mcp.NewToolResultText(`{"posted":true}`), nil
	})

	// TOOL: close_session
	s.mcpServer.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Close a session and release it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session id")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, sess, errRes := s.lookup(request)
		if errRes != nil {
			return errRes, nil
		}
		sess.Close()
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return mcp.NewToolResultText(`{"closed":true}`), nil
	})
}

func (s *Server) lookup(request mcp.CallToolRequest) (string, *session.Presentation, *mcp.CallToolResult) {
	id, _ := request.GetArguments()["id"].(string)
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return "", nil, mcp.NewToolResultError("session not found: " + id)
	}
	return id, sess, nil
}

func (s *Server) sessionResult(id string, sess *session.Presentation) (*mcp.CallToolResult, error) {
	out, _ := json.Marshal(map[string]string{
		"id":    id,
		"url":   sess.URL(),
		"state": sess.State().String(),
	})
	return mcp.NewToolResultText(string(out)), nil
}

// Package mcp exposes the GraphQL tool surface over the Model Context Protocol.
package mcp

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/config"
	"github.com/bobmcallan/graphql-mcp/internal/graphql"
	"github.com/bobmcallan/graphql-mcp/internal/interfaces"
	"github.com/bobmcallan/graphql-mcp/internal/registry"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler owns the MCP server, the saved-tool registry and the GraphQL
// client. It serves the streamable HTTP transport and can also run over stdio.
type Handler struct {
	mcp            *mcpserver.MCPServer
	streamable     *mcpserver.StreamableHTTPServer
	service        *registry.Service
	client         *graphql.Client
	logger         *common.Logger
	allowMutations bool
}

// NewHandler creates the MCP server with the core tools registered. Saved
// tools are not loaded until Restore is called.
func NewHandler(cfg *config.Config, store interfaces.ToolStorage, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	client := graphql.NewClient(graphql.Config{
		Endpoint:  cfg.GraphQL.Endpoint,
		Headers:   cfg.GraphQL.Headers,
		Timeout:   cfg.GraphQL.GetTimeout(),
		RateLimit: cfg.GraphQL.RateLimit,
	}, logger)

	service := registry.NewService(
		registry.New(),
		store,
		registry.NewServerHost(mcpSrv),
		client,
		logger,
		cfg.GraphQL.AllowMutations,
	)

	h := &Handler{
		mcp:            mcpSrv,
		service:        service,
		client:         client,
		logger:         logger,
		allowMutations: cfg.GraphQL.AllowMutations,
	}
	h.registerCoreTools()

	h.streamable = mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Str("endpoint", cfg.GraphQL.Endpoint).
		Str("allow_mutations", strconv.FormatBool(cfg.GraphQL.AllowMutations)).
		Msg("MCP handler initialized")

	return h
}

// Restore registers every persisted tool.
func (h *Handler) Restore(ctx context.Context) (int, error) {
	return h.service.Restore(ctx)
}

// MCPServer returns the underlying mcp-go server.
func (h *Handler) MCPServer() *mcpserver.MCPServer {
	return h.mcp
}

// Service returns the saved-tool service.
func (h *Handler) Service() *registry.Service {
	return h.service
}

// ServeStdio runs the server over stdin/stdout until the input closes.
func (h *Handler) ServeStdio() error {
	return mcpserver.ServeStdio(h.mcp)
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

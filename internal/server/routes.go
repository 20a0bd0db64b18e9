package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over HTTP)
	mux.Handle("/mcp", s.app.MCPHandler)

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/tools", s.handleToolCollection)
	mux.HandleFunc("/api/tools/", s.handleToolItem)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

func (s *Server) handleToolCollection(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.ToolsHandler.List, nil)
}

func (s *Server) handleToolItem(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r, s.app.ToolsHandler.Show, nil, s.app.ToolsHandler.Delete)
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}

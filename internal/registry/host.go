package registry

import (
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/graphql-mcp/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Host is the protocol layer that advertises tools to the agent runtime.
type Host interface {
	Register(tool mcp.Tool, handler server.ToolHandlerFunc) (Handle, error)
}

// Handle refers to one tool registered with a Host. Its identity (the tool
// name) is fixed for the lifetime of the registration.
type Handle interface {
	Update(tool mcp.Tool, handler server.ToolHandlerFunc) error
	Remove() error
}

// ServerHost adapts an mcp-go server to Host. The server should be created
// with WithToolCapabilities(true) so clients are told the list can change.
type ServerHost struct {
	srv *server.MCPServer
}

// NewServerHost wraps srv.
func NewServerHost(srv *server.MCPServer) *ServerHost {
	return &ServerHost{srv: srv}
}

// Register adds the tool to the server.
func (h *ServerHost) Register(tool mcp.Tool, handler server.ToolHandlerFunc) (Handle, error) {
	if tool.Name == "" {
		return nil, fmt.Errorf("cannot register tool with empty name")
	}
	if handler == nil {
		return nil, fmt.Errorf("cannot register tool %q without a handler", tool.Name)
	}
	h.srv.AddTool(tool, handler)
	return &serverHandle{srv: h.srv, name: tool.Name}, nil
}

type serverHandle struct {
	srv  *server.MCPServer
	name string
}

// Update replaces the tool in place under the same name.
func (h *serverHandle) Update(tool mcp.Tool, handler server.ToolHandlerFunc) error {
	if tool.Name != h.name {
		return fmt.Errorf("cannot rename tool %q to %q", h.name, tool.Name)
	}
	if handler == nil {
		return fmt.Errorf("cannot update tool %q without a handler", h.name)
	}
	h.srv.AddTool(tool, handler)
	return nil
}

func (h *serverHandle) Remove() error {
	h.srv.DeleteTools(h.name)
	return nil
}

// BuildTool converts a definition into the tool advertised to clients. The
// parameter schema is passed through unchanged as the input schema.
func BuildTool(def *models.ToolDefinition) (mcp.Tool, error) {
	raw, err := json.Marshal(def.ParameterSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("failed to encode parameter schema for %q: %w", def.Name, err)
	}
	tool := mcp.NewToolWithRawSchema(def.Name, def.Description, raw)
	tool.Annotations.Title = def.Description
	return tool, nil
}

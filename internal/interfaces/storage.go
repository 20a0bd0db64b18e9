package interfaces

import (
	"context"

	"github.com/bobmcallan/graphql-mcp/internal/models"
)

// ToolStorage is the durable mapping from tool name to tool definition.
// Implementations can be swapped (one JSON file per tool, or BadgerDB).
type ToolStorage interface {
	// SaveTool writes the definition under name, overwriting any previous one.
	SaveTool(ctx context.Context, name string, def *models.ToolDefinition) error
	// LoadTool returns the definition, or found=false when none is stored.
	LoadTool(ctx context.Context, name string) (def *models.ToolDefinition, found bool, err error)
	// LoadAllTools returns every stored definition keyed by name. One invalid
	// record fails the whole call.
	LoadAllTools(ctx context.Context) (map[string]*models.ToolDefinition, error)
	// DeleteTool removes the definition; deleting an absent name is a no-op.
	DeleteTool(ctx context.Context, name string) error
	Close() error
}

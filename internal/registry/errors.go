package registry

import (
	"errors"

	"github.com/bobmcallan/graphql-mcp/internal/schema"
)

var (
	// ErrAlreadyExists is returned when saving a registered name without overwrite.
	ErrAlreadyExists = errors.New("tool already exists")
	// ErrNotFound is returned for names that are not registered.
	ErrNotFound = errors.New("tool not found")
	// ErrCoreTool is returned when a mutation targets a built-in tool.
	ErrCoreTool = errors.New("core tool is protected")
	// ErrInvalidName is returned for names that fail the naming rules.
	ErrInvalidName = errors.New("invalid tool name")
	// ErrInvalidSchema is returned for parameter schemas rejected at save time.
	ErrInvalidSchema = schema.ErrInvalidSchema
)

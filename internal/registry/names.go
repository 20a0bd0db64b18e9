package registry

import (
	"fmt"
	"regexp"
)

// Built-in tool names. These are registered by the server bootstrap and can
// never be saved over or deleted.
const (
	ToolQueryGraphQL  = "query_graphql"
	ToolSaveQuery     = "save_query_tool"
	ToolListSaved     = "list_saved_tools"
	ToolShowSaved     = "show_saved_tool"
	ToolDeleteSaved   = "delete_saved_tool"
	ToolGetVersion    = "get_version"
	maxToolNameLength = 64
)

var coreToolNames = map[string]bool{
	ToolQueryGraphQL: true,
	ToolSaveQuery:    true,
	ToolListSaved:    true,
	ToolShowSaved:    true,
	ToolDeleteSaved:  true,
	ToolGetVersion:   true,
}

var toolNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsCoreTool reports whether name is one of the built-in tools.
func IsCoreTool(name string) bool {
	return coreToolNames[name]
}

// ValidateName checks a saved tool name against the naming rules.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > maxToolNameLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidName, name, maxToolNameLength)
	}
	if !toolNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a lowercase letter and contain only lowercase letters, digits and underscores", ErrInvalidName, name)
	}
	return nil
}

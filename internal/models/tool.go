package models

// ToolDefinition is the durable description of a saved GraphQL tool.
// PaginationConfig and Idempotency are stored verbatim and not acted upon;
// an empty object is kept, only an absent one is omitted.
type ToolDefinition struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	GraphQLQuery     string                 `json:"graphql_query"`
	ParameterSchema  map[string]interface{} `json:"parameter_schema"`
	Variables        []string               `json:"variables"`
	PaginationConfig map[string]interface{} `json:"pagination_config,omitzero"`
	Idempotency      map[string]interface{} `json:"idempotency,omitzero"`
}

// Summary returns the listing view of a definition.
func (d *ToolDefinition) Summary() ToolSummary {
	return ToolSummary{
		Name:        d.Name,
		Description: d.Description,
		Variables:   d.Variables,
	}
}

// ToolSummary is the short form returned by list operations.
type ToolSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Variables   []string `json:"variables"`
}

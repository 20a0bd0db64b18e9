package mcp

import (
	"github.com/bobmcallan/graphql-mcp/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
)

// QueryGraphQLTool returns the definition of the raw query tool.
func QueryGraphQLTool() mcp.Tool {
	return mcp.NewTool(registry.ToolQueryGraphQL,
		mcp.WithDescription("Execute a GraphQL query against the configured endpoint and return the JSON response."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("GraphQL document to execute"),
		),
		mcp.WithObject("variables",
			mcp.Description("Variables for the query, as an object or a JSON string"),
		),
	)
}

// SaveQueryTool returns the definition of the save tool.
func SaveQueryTool() mcp.Tool {
	return mcp.NewTool(registry.ToolSaveQuery,
		mcp.WithDescription("Save a parameterized GraphQL query as a new tool. The tool is persisted and becomes callable immediately."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Tool name: lowercase letters, digits and underscores, starting with a letter"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What the tool does"),
		),
		mcp.WithString("graphql_query",
			mcp.Required(),
			mcp.Description("GraphQL document; $variables are filled from matching parameters"),
		),
		mcp.WithObject("parameter_schema",
			mcp.Required(),
			mcp.Description("JSON Schema (type object) describing the tool parameters, as an object or a JSON string"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace an existing tool with the same name (default false)"),
		),
		mcp.WithObject("pagination_config",
			mcp.Description("Pagination settings stored with the tool"),
		),
		mcp.WithObject("idempotency",
			mcp.Description("Idempotency settings stored with the tool"),
		),
	)
}

// ListSavedToolsTool returns the definition of the list tool.
func ListSavedToolsTool() mcp.Tool {
	return mcp.NewTool(registry.ToolListSaved,
		mcp.WithDescription("List saved GraphQL tools with their descriptions and variables."),
	)
}

// ShowSavedToolTool returns the definition of the show tool.
func ShowSavedToolTool() mcp.Tool {
	return mcp.NewTool(registry.ToolShowSaved,
		mcp.WithDescription("Show the full definition of a saved GraphQL tool."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the saved tool"),
		),
	)
}

// DeleteSavedToolTool returns the definition of the delete tool.
func DeleteSavedToolTool() mcp.Tool {
	return mcp.NewTool(registry.ToolDeleteSaved,
		mcp.WithDescription("Delete a saved GraphQL tool. Built-in tools cannot be deleted."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the saved tool"),
		),
	)
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool(registry.ToolGetVersion,
		mcp.WithDescription("Get graphql-mcp version and status. Use this to verify connectivity."),
	)
}

// registerCoreTools adds the built-in tools to the server.
func (h *Handler) registerCoreTools() {
	h.mcp.AddTool(QueryGraphQLTool(), h.handleQueryGraphQL)
	h.mcp.AddTool(SaveQueryTool(), h.handleSaveQueryTool)
	h.mcp.AddTool(ListSavedToolsTool(), h.handleListSavedTools)
	h.mcp.AddTool(ShowSavedToolTool(), h.handleShowSavedTool)
	h.mcp.AddTool(DeleteSavedToolTool(), h.handleDeleteSavedTool)
	h.mcp.AddTool(VersionTool(), h.handleGetVersion)
}

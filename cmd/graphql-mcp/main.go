// Command graphql-mcp serves a GraphQL endpoint to MCP clients, including
// tools that clients save at runtime as parameterized queries.
package main

func main() {
	Execute()
}

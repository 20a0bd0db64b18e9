package mcp

import (
	"context"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/mark3labs/mcp-go/mcp"
)

// versionInfo is the get_version payload.
type versionInfo struct {
	Version    string `json:"version"`
	Build      string `json:"build"`
	Commit     string `json:"commit"`
	Endpoint   string `json:"endpoint"`
	SavedTools int    `json:"saved_tools"`
}

func (h *Handler) handleGetVersion(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(versionInfo{
		Version:    common.GetVersion(),
		Build:      common.GetBuild(),
		Commit:     common.GetGitCommit(),
		Endpoint:   h.client.Endpoint(),
		SavedTools: h.service.Registry().Len(),
	}), nil
}

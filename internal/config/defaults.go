package config

import "github.com/bobmcallan/graphql-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "graphql-mcp",
			Transport: "stdio",
			Host:      "localhost",
			Port:      4250,
		},
		GraphQL: GraphQLConfig{
			Endpoint: "http://localhost:4000/graphql",
			Headers:  map[string]string{},
			Timeout:  "30s",
		},
		Storage: StorageConfig{
			Backend:  "file",
			ToolsDir: "./data/tools",
			Badger: BadgerConfig{
				Path: "./data/badger",
			},
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/graphql-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

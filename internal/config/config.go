package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	GraphQL GraphQLConfig        `toml:"graphql"`
	Storage StorageConfig        `toml:"storage"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server and transport settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"` // "stdio" or "http"
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
}

// GraphQLConfig describes the single GraphQL endpoint served by this process.
type GraphQLConfig struct {
	Endpoint       string            `toml:"endpoint"`
	Headers        map[string]string `toml:"headers"`
	Timeout        string            `toml:"timeout"`
	RateLimit      float64           `toml:"rate_limit"` // requests per second, 0 disables
	AllowMutations bool              `toml:"allow_mutations"`
}

// GetTimeout parses and returns the request timeout.
func (c *GraphQLConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// StorageConfig contains tool persistence settings.
type StorageConfig struct {
	Backend  string       `toml:"backend"` // "file" (default) or "badger"
	ToolsDir string       `toml:"tools_dir"`
	Badger   BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files. Missing files are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies GRAPHQL_MCP_* environment variable overrides to config.
func applyEnvOverrides(config *Config) error {
	if endpoint := os.Getenv("GRAPHQL_MCP_ENDPOINT"); endpoint != "" {
		config.GraphQL.Endpoint = endpoint
	}
	if headers := os.Getenv("GRAPHQL_MCP_HEADERS"); headers != "" {
		parsed := map[string]string{}
		if err := json.Unmarshal([]byte(headers), &parsed); err != nil {
			return fmt.Errorf("GRAPHQL_MCP_HEADERS must be a JSON object of strings: %w", err)
		}
		if config.GraphQL.Headers == nil {
			config.GraphQL.Headers = map[string]string{}
		}
		for k, v := range parsed {
			config.GraphQL.Headers[k] = v
		}
	}
	if allow := os.Getenv("GRAPHQL_MCP_ALLOW_MUTATIONS"); allow != "" {
		if b, err := strconv.ParseBool(allow); err == nil {
			config.GraphQL.AllowMutations = b
		}
	}
	if dir := os.Getenv("GRAPHQL_MCP_TOOLS_DIR"); dir != "" {
		config.Storage.ToolsDir = dir
	}
	if backend := os.Getenv("GRAPHQL_MCP_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if transport := os.Getenv("GRAPHQL_MCP_TRANSPORT"); transport != "" {
		config.Server.Transport = transport
	}
	if host := os.Getenv("GRAPHQL_MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("GRAPHQL_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("GRAPHQL_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	return nil
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, transport string, port int, endpoint string) {
	if transport != "" {
		config.Server.Transport = transport
	}
	if port > 0 {
		config.Server.Port = port
	}
	if endpoint != "" {
		config.GraphQL.Endpoint = endpoint
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.GraphQL.Endpoint == "" {
		return fmt.Errorf("graphql.endpoint is required")
	}
	u, err := url.Parse(c.GraphQL.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("graphql.endpoint %q must be an http(s) URL", c.GraphQL.Endpoint)
	}
	switch strings.ToLower(c.Server.Transport) {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport %q is not supported (use stdio or http)", c.Server.Transport)
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "badger":
	default:
		return fmt.Errorf("storage.backend %q is not supported (use file or badger)", c.Storage.Backend)
	}
	if c.GraphQL.RateLimit < 0 {
		return fmt.Errorf("graphql.rate_limit must not be negative")
	}
	return nil
}

// Address returns the host:port the HTTP transport listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Package config loads process configuration from defaults, an optional YAML
// file, and the environment. Values layer in that order; the well-known
// credential variables (ANTHROPIC_API_KEY, SERPER_API_KEY, DOMAIN_NAME) are
// applied last so they always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/zainaedelson/quartet/pkg/errors"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Agent     AgentConfig     `koanf:"agent"`
	Search    SearchConfig    `koanf:"search"`
	Artifact  ArtifactConfig  `koanf:"artifact"`
	Server    ServerConfig    `koanf:"server"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // anthropic, ollama, mock
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type AgentConfig struct {
	MaxIterations int     `koanf:"max_iterations"`
	Temperature   float64 `koanf:"temperature"`
	MaxTokens     int     `koanf:"max_tokens"`
}

type SearchConfig struct {
	APIKey     string `koanf:"api_key"`
	BaseURL    string `koanf:"base_url"`
	MaxResults int    `koanf:"max_results"`
}

type ArtifactConfig struct {
	Dir string `koanf:"dir"`
}

type ServerConfig struct {
	// Domain selects the inbound mode: "localhost" runs the local REPL,
	// anything else serves the HTTP API.
	Domain string `koanf:"domain"`
	Addr   string `koanf:"addr"`
}

type TelemetryConfig struct {
	Exporter           string `koanf:"exporter"` // stdout, otlp, none
	OTLPEndpoint       string `koanf:"otlp_endpoint"`
	OTLPInsecure       bool   `koanf:"otlp_insecure"`
	OTLPTimeoutSeconds int    `koanf:"otlp_timeout_seconds"`
}

// Load reads configuration from defaults, the optional YAML file at path,
// QUARTET_* environment variables, and the well-known credential variables.
func Load(path string) (*Config, error) {
	return load(path, "")
}

// LoadWithProfile loads the base file and overlays config.<profile>.yaml from
// the same directory when it exists. A missing profile file is not an error.
func LoadWithProfile(path, profile string) (*Config, error) {
	return load(path, profile)
}

func load(path, profile string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "anthropic")
	k.Set("llm.model", "claude-3-haiku-20240307")
	k.Set("agent.max_iterations", 8)
	k.Set("agent.temperature", 0.7)
	k.Set("agent.max_tokens", 4096)
	k.Set("search.base_url", "https://google.serper.dev")
	k.Set("search.max_results", 5)
	k.Set("artifact.dir", ".")
	k.Set("server.domain", "localhost")
	k.Set("server.addr", ":8080")
	k.Set("telemetry.exporter", "stdout")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Overlay profile file if present
	if pp := profileConfigPath(path, profile); pp != "" {
		if err := k.Load(file.Provider(pp), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load from ENV (QUARTET_LLM_PROVIDER -> llm.provider)
	if err := k.Load(env.Provider("QUARTET_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "QUARTET_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// 4. Well-known variables win over everything.
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("SERPER_API_KEY"); key != "" {
		cfg.Search.APIKey = key
	}
	if domain := os.Getenv("DOMAIN_NAME"); domain != "" {
		cfg.Server.Domain = domain
	}

	return &cfg, nil
}

// profileConfigPath returns the profile variant of the base config path
// (config.yaml + "dev" -> config.dev.yaml) if that file exists, "" otherwise.
func profileConfigPath(base, profile string) string {
	if base == "" || profile == "" {
		return ""
	}
	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(filepath.Base(base), ext)
	candidate := filepath.Join(dir, name+"."+profile+ext)
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

// Validate checks that the configuration can actually run a pipeline.
// A missing inference credential is fatal; the caller should exit.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "anthropic":
		if c.LLM.APIKey == "" {
			return errors.New(errors.CodeConfig,
				"anthropic api key is required: set ANTHROPIC_API_KEY", nil).
				WithContext("provider", c.LLM.Provider)
		}
	case "ollama", "mock":
		// No credential needed.
	default:
		return errors.New(errors.CodeConfig,
			fmt.Sprintf("unknown llm provider: %s", c.LLM.Provider), nil)
	}

	if c.Agent.MaxIterations <= 0 {
		return errors.New(errors.CodeConfig, "agent.max_iterations must be positive", nil)
	}

	return nil
}

// Warnings returns non-fatal configuration findings. The run proceeds in a
// degraded mode for each.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Search.APIKey == "" {
		warnings = append(warnings, "SERPER_API_KEY not set: explorer web search disabled")
	}
	return warnings
}

// SearchEnabled reports whether the web search capability can be built.
func (c *Config) SearchEnabled() bool {
	return c.Search.APIKey != ""
}

// LocalMode reports whether the process should run the local REPL instead of
// the HTTP API server.
func (c *Config) LocalMode() bool {
	return c.Server.Domain == "localhost"
}

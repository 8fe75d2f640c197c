package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Pages       PagesConfig    `toml:"pages"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents the embedded settings-store configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model identifier (default: "gemini-2.5-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Generation temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model identifier (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "1s")
	Temperature float32 `toml:"temperature"` // Generation temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the default provider for analysis calls
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// AnalysisConfig contains analysis output behavior
type AnalysisConfig struct {
	ChecklistPrefix string `toml:"checklist_prefix"` // Prefix for derived checklist filenames (default: "checklist_")
	DefaultCompany  string `toml:"default_company"`  // Fallback token when no Company name line is found (default: "Company")
	MaxUploadBytes  int64  `toml:"max_upload_bytes"` // Per-request multipart memory/size cap (default: 32MB)
}

// PagesConfig contains browser UI file locations
type PagesConfig struct {
	Dir string `toml:"dir"` // Directory containing HTML pages and static assets (default: "./pages")
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in scrutor.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/settings",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (env, settings store, or config)
			Model:       "gemini-2.5-flash",
			Timeout:     "5m",
			RateLimit:   "4s", // 15 RPM free tier
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Analysis: AnalysisConfig{
			ChecklistPrefix: "checklist_",
			DefaultCompany:  "Company",
			MaxUploadBytes:  32 * 1024 * 1024,
		},
		Pages: PagesConfig{
			Dir: "./pages",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files; environment variables override all files; CLI flags are
// applied last via ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies SCRUTOR_* environment variables on top of file values
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SCRUTOR_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("SCRUTOR_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SCRUTOR_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("SCRUTOR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if path := os.Getenv("SCRUTOR_STORAGE_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if key := os.Getenv("SCRUTOR_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("SCRUTOR_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if key := os.Getenv("SCRUTOR_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if model := os.Getenv("SCRUTOR_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if provider := os.Getenv("SCRUTOR_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if dir := os.Getenv("SCRUTOR_PAGES_DIR"); dir != "" {
		config.Pages.Dir = dir
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have the highest priority.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key for a provider with explicit priority:
// per-request override -> environment variables -> settings store -> config
// fallback -> ErrMissingCredential.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, provider LLMProvider, override, configFallback string) (string, error) {
	if override != "" {
		return override, nil
	}

	// Environment variables, provider-specific names first, then the vendor
	// conventions (GOOGLE_API_KEY, ANTHROPIC_API_KEY)
	envNames := map[LLMProvider][]string{
		LLMProviderGemini: {"SCRUTOR_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		LLMProviderClaude: {"SCRUTOR_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}
	for _, name := range envNames[provider] {
		if value := os.Getenv(name); value != "" {
			return value, nil
		}
	}

	// Settings store (medium priority)
	if kvStorage != nil {
		storeKeys := map[LLMProvider]string{
			LLMProviderGemini: "gemini_api_key",
			LLMProviderClaude: "anthropic_api_key",
		}
		if key, err := kvStorage.Get(ctx, storeKeys[provider]); err == nil && key != "" {
			return key, nil
		}
	}

	// Config file value (lowest priority)
	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("%w: no %s API key found in environment, settings store, or config", models.ErrMissingCredential, provider)
}

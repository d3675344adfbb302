package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Prices      PricesConfig  `toml:"prices"`
	Storage     StorageConfig `toml:"storage"`
	LLM         LLMConfig     `toml:"llm"`
	Edge        EdgeConfig    `toml:"edge"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	Reports     ReportsConfig `toml:"reports"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
	Dir    string   `toml:"dir"`    // Log directory (default: ./logs next to the executable)
}

// PricesConfig selects and tunes the daily price feed
type PricesConfig struct {
	Source          string           `toml:"source"`           // "rest", "eodhd" or "file"
	LookbackDays    int              `toml:"lookback_days"`    // Historical window loaded per as-of day (default: 30)
	Universe        []string         `toml:"universe"`         // Tickers fetched from per-symbol feeds (default: popular tickers)
	RefreshSchedule string           `toml:"refresh_schedule"` // Cron schedule (with seconds) for background reloads, empty disables
	Timeout         string           `toml:"timeout"`          // HTTP timeout as duration string (default: "30s")
	RateLimit       string           `toml:"rate_limit"`       // Minimum interval between upstream requests (default: "200ms")
	REST            RESTSourceConfig `toml:"rest"`
	EODHD           EODHDConfig      `toml:"eodhd"`
	File            FileSourceConfig `toml:"file"`
}

// RESTSourceConfig points at a PostgREST style table of daily rows
type RESTSourceConfig struct {
	URL    string `toml:"url"`     // Base URL, e.g. https://<project>.supabase.co/rest/v1
	Table  string `toml:"table"`   // Table name (default: "stock_data")
	APIKey string `toml:"api_key"` // Sent as apikey and bearer token
}

type EODHDConfig struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Exchange string `toml:"exchange"` // Default exchange for bare tickers (default: "US")
}

type FileSourceConfig struct {
	Path string `toml:"path"` // YAML fixture of price records
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Enabled        bool   `toml:"enabled"`          // Cache raw price records between restarts
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderEdge posts {systemInstruction, prompt} to an edge function
	LLMProviderEdge LLMProvider = "edge"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the forecasting backend
type LLMConfig struct {
	DefaultProvider  LLMProvider `toml:"default_provider"`  // "edge", "gemini" or "claude" (default: "edge")
	StructuredOutput bool        `toml:"structured_output"` // Pass the response schema to providers that support it
}

// EdgeConfig is the HTTP edge function fronting the model
type EdgeConfig struct {
	URL       string `toml:"url"`
	APIKey    string `toml:"api_key"`    // Bearer token
	Timeout   string `toml:"timeout"`    // default: "90s"
	RateLimit string `toml:"rate_limit"` // default: "1s"
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "gemini-2.5-flash"
	Timeout     string  `toml:"timeout"`     // default: "2m"
	Temperature float32 `toml:"temperature"` // default: 0.7
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "claude-haiku-4-5"
	MaxTokens   int     `toml:"max_tokens"`  // default: 4096
	Timeout     string  `toml:"timeout"`     // default: "2m"
	Temperature float32 `toml:"temperature"` // default: 0.7
}

// ReportsConfig holds user-facing selection and timeframe settings
type ReportsConfig struct {
	MaxTickers       int      `toml:"max_tickers"`       // Selection capacity (default: 3)
	Timeframes       []int    `toml:"timeframes"`        // Allowed timeframes in days (default: [7, 14, 30])
	DefaultTimeframe int      `toml:"default_timeframe"` // default: 7
	PopularTickers   []string `toml:"popular_tickers"`
	Timezone         string   `toml:"timezone"` // Zone used to resolve "today" (default: "UTC")
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Prices: PricesConfig{
			Source:          "rest",
			LookbackDays:    30,
			RefreshSchedule: "0 30 22 * * 1-5", // After US close, weekdays (UTC)
			Timeout:         "30s",
			RateLimit:       "200ms",
			REST: RESTSourceConfig{
				Table: "stock_data",
			},
			EODHD: EODHDConfig{
				BaseURL:  "https://eodhd.com/api",
				Exchange: "US",
			},
			File: FileSourceConfig{
				Path: "./data/prices.yaml",
			},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Enabled: true,
				Path:    "./data/badger",
			},
		},
		LLM: LLMConfig{
			DefaultProvider:  LLMProviderEdge,
			StructuredOutput: true,
		},
		Edge: EdgeConfig{
			Timeout:   "90s",
			RateLimit: "1s",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     "2m",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-4-5",
			MaxTokens:   4096,
			Timeout:     "2m",
			Temperature: 0.7,
		},
		Reports: ReportsConfig{
			MaxTickers:       3,
			Timeframes:       []int{7, 14, 30},
			DefaultTimeframe: 7,
			PopularTickers:   []string{"AAPL", "TSLA", "AMZN", "MSFT", "GOOGL"},
			Timezone:         "UTC",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier files. CLI flags are applied separately by ApplyFlagOverrides.
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

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies TICKERSCOPE_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TICKERSCOPE_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("TICKERSCOPE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TICKERSCOPE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("TICKERSCOPE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TICKERSCOPE_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitList(output)
	}

	// Price feed configuration
	if source := os.Getenv("TICKERSCOPE_PRICES_SOURCE"); source != "" {
		config.Prices.Source = source
	}
	if url := os.Getenv("TICKERSCOPE_PRICES_REST_URL"); url != "" {
		config.Prices.REST.URL = url
	}
	if key := os.Getenv("TICKERSCOPE_PRICES_REST_API_KEY"); key != "" {
		config.Prices.REST.APIKey = key
	}
	if key := os.Getenv("TICKERSCOPE_EODHD_API_KEY"); key != "" {
		config.Prices.EODHD.APIKey = key
	}
	if path := os.Getenv("TICKERSCOPE_PRICES_FILE"); path != "" {
		config.Prices.File.Path = path
	}
	if schedule, ok := os.LookupEnv("TICKERSCOPE_PRICES_REFRESH_SCHEDULE"); ok {
		config.Prices.RefreshSchedule = schedule
	}

	// Storage configuration
	if badgerPath := os.Getenv("TICKERSCOPE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// LLM configuration
	if provider := os.Getenv("TICKERSCOPE_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if url := os.Getenv("TICKERSCOPE_EDGE_URL"); url != "" {
		config.Edge.URL = url
	}
	if key := os.Getenv("TICKERSCOPE_EDGE_API_KEY"); key != "" {
		config.Edge.APIKey = key
	}
	if model := os.Getenv("TICKERSCOPE_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if model := os.Getenv("TICKERSCOPE_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// Reports configuration
	if tz := os.Getenv("TICKERSCOPE_TIMEZONE"); tz != "" {
		config.Reports.Timezone = tz
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key with environment variable priority.
// Resolution order: environment variables -> config value -> error
func ResolveAPIKey(name string, configValue string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini": {"TICKERSCOPE_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"claude": {"TICKERSCOPE_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"edge":   {"TICKERSCOPE_EDGE_API_KEY"},
		"eodhd":  {"TICKERSCOPE_EODHD_API_KEY", "EODHD_API_KEY"},
		"rest":   {"TICKERSCOPE_PRICES_REST_API_KEY"},
	}

	for _, envVarName := range keyToEnvMapping[name] {
		if envValue := os.Getenv(envVarName); envValue != "" {
			return envValue, nil
		}
	}

	if configValue != "" {
		return configValue, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// Validate checks cross-field constraints after all overrides are applied
func (c *Config) Validate() error {
	switch c.Prices.Source {
	case "rest", "eodhd", "file":
	default:
		return fmt.Errorf("unknown prices.source %q (want rest, eodhd or file)", c.Prices.Source)
	}

	switch c.LLM.DefaultProvider {
	case LLMProviderEdge, LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("unknown llm.default_provider %q (want edge, gemini or claude)", c.LLM.DefaultProvider)
	}

	if c.Prices.LookbackDays <= 0 {
		return fmt.Errorf("prices.lookback_days must be positive, got %d", c.Prices.LookbackDays)
	}
	if c.Reports.MaxTickers <= 0 {
		return fmt.Errorf("reports.max_tickers must be positive, got %d", c.Reports.MaxTickers)
	}
	if len(c.Reports.Timeframes) == 0 {
		return fmt.Errorf("reports.timeframes must not be empty")
	}
	for _, days := range c.Reports.Timeframes {
		if days <= 0 {
			return fmt.Errorf("reports.timeframes must be positive, got %d", days)
		}
	}
	if !c.IsAllowedTimeframe(c.Reports.DefaultTimeframe) {
		return fmt.Errorf("reports.default_timeframe %d is not one of %v", c.Reports.DefaultTimeframe, c.Reports.Timeframes)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := ValidateSchedule(c.Prices.RefreshSchedule); err != nil {
		return fmt.Errorf("prices.refresh_schedule: %w", err)
	}

	for _, d := range []struct{ name, value string }{
		{"prices.timeout", c.Prices.Timeout},
		{"prices.rate_limit", c.Prices.RateLimit},
		{"edge.timeout", c.Edge.Timeout},
		{"edge.rate_limit", c.Edge.RateLimit},
		{"gemini.timeout", c.Gemini.Timeout},
		{"claude.timeout", c.Claude.Timeout},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", d.name, d.value, err)
		}
	}

	return nil
}

// IsAllowedTimeframe reports whether days is one of the configured timeframes
func (c *Config) IsAllowedTimeframe(days int) bool {
	for _, allowed := range c.Reports.Timeframes {
		if allowed == days {
			return true
		}
	}
	return false
}

// Location returns the time zone used to resolve "today"
func (c *Config) Location() (*time.Location, error) {
	if c.Reports.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Reports.Timezone)
	if err != nil {
		return nil, fmt.Errorf("reports.timezone: %w", err)
	}
	return loc, nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ValidateSchedule validates a six-field (seconds first) cron expression.
// An empty schedule disables the refresher and is valid.
func ValidateSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return nil
	}
	if _, err := CronParser().Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// CronParser is the schedule syntax shared by validation and the refresher
func CronParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// ParseDuration parses a config duration string, falling back to def when empty or invalid
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

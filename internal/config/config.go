package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/vecsearch/internal/domain"
)

// Config holds the vecsearch configuration.
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	Index         IndexConfig         `yaml:"index"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Search        SearchConfig        `yaml:"search"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	URI               string `yaml:"uri"`
	Name              string `yaml:"name"`
	Collection        string `yaml:"collection"`
	RetryWrites       *bool  `yaml:"retry_writes"`      // default true
	WriteMajority     *bool  `yaml:"write_majority"`    // default true
	DirectConnection  bool   `yaml:"direct_connection"` // must stay false for mongodb+srv URIs
	ConnectTimeoutSec int    `yaml:"connect_timeout_sec"`
}

// IndexConfig holds the vector search index definition and build polling settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	Path            string `yaml:"path"`
	Dimensions      int    `yaml:"dimensions"`
	Similarity      string `yaml:"similarity"`
	PollIntervalSec int    `yaml:"poll_interval_sec"`
	PollMaxAttempts int    `yaml:"poll_max_attempts"` // 0 = unbounded
	PollTimeoutSec  int    `yaml:"poll_timeout_sec"`  // 0 = unbounded
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // azure, openai
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"` // Azure resource endpoint or OpenAI-compatible base URL
	APIVersion string `yaml:"api_version"`
	Model      string `yaml:"model"` // Azure deployment name or OpenAI model
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`

	// QueryInstruction is prepended to the query text; only for instruction-tuned models.
	QueryInstruction string `yaml:"query_instruction"`
}

// SearchConfig holds the similarity query settings.
type SearchConfig struct {
	Query         string `yaml:"query"`
	NumCandidates int    `yaml:"num_candidates"`
	Limit         *int   `yaml:"limit"`
	TitleField    string `yaml:"title_field"`
	PlotField     string `yaml:"plot_field"`
	PlotPreview   int    `yaml:"plot_preview"`
}

// CacheConfig holds the optional embedding cache settings. Empty Addrs disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// ObservabilityConfig holds the optional metrics/health HTTP server settings.
// Empty Addr disables the server.
type ObservabilityConfig struct {
	Addr        string   `yaml:"addr"`
	APIKeys     []string `yaml:"api_keys"` // guards GET /indexes; /health and /metrics stay public
	ShutdownSec int      `yaml:"shutdown_timeout_sec"`
}

// Load reads configuration from path, or from config/<env>.yaml when path is empty.
func Load(path, env string) (Config, error) {
	if path == "" {
		path = findConfigPath(env)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("%w: failed to read config %s: %w", domain.ErrConfiguration, path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse config: %w", domain.ErrConfiguration, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Database.URI == "" {
		c.Database.URI = "mongodb://localhost:27017/?retryWrites=true&w=majority&directConnection=true"
	}
	if c.Database.Name == "" {
		c.Database.Name = "sample_mflix"
	}
	if c.Database.Collection == "" {
		c.Database.Collection = "embedded_movies"
	}
	if c.Database.RetryWrites == nil {
		c.Database.RetryWrites = ptr(true)
	}
	if c.Database.WriteMajority == nil {
		c.Database.WriteMajority = ptr(true)
	}
	if c.Database.ConnectTimeoutSec <= 0 {
		c.Database.ConnectTimeoutSec = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "vector_index_plot"
	}
	if c.Index.Path == "" {
		c.Index.Path = "plot_embedding"
	}
	if c.Index.Dimensions <= 0 {
		c.Index.Dimensions = domain.DefaultVectorConfig().Dimensions
	}
	if c.Index.Similarity == "" {
		c.Index.Similarity = domain.DefaultVectorConfig().DistanceMetric
	}
	if c.Index.PollIntervalSec <= 0 {
		c.Index.PollIntervalSec = 10
	}
	if c.Index.PollMaxAttempts == 0 {
		c.Index.PollMaxAttempts = 60
	}
	if c.Index.PollTimeoutSec == 0 {
		c.Index.PollTimeoutSec = 900
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "azure"
	}
	if c.Embedding.APIVersion == "" && c.Embedding.Provider == "azure" {
		c.Embedding.APIVersion = "2023-05-15"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = domain.DefaultVectorConfig().Model
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Search.Query == "" {
		c.Search.Query = "A tale of redemption and friendship in a prison."
	}
	if c.Search.NumCandidates <= 0 {
		c.Search.NumCandidates = 150
	}
	if c.Search.Limit == nil {
		c.Search.Limit = ptr(5)
	}
	if c.Search.TitleField == "" {
		c.Search.TitleField = "title"
	}
	if c.Search.PlotField == "" {
		c.Search.PlotField = "plot"
	}
	if c.Search.PlotPreview <= 0 {
		c.Search.PlotPreview = 150
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Observability.ShutdownSec <= 0 {
		c.Observability.ShutdownSec = 5
	}
}

// placeholderMarkers flag connection strings copied from documentation without edits.
var placeholderMarkers = []string{"<username>", "<password>", "<cluster>"}

// Validate checks the configuration for correctness. Errors wrap domain.ErrConfiguration.
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("%w: database.uri is required", domain.ErrConfiguration)
	}
	for _, m := range placeholderMarkers {
		if strings.Contains(c.Database.URI, m) {
			return fmt.Errorf("%w: database.uri still contains the placeholder %s", domain.ErrConfiguration, m)
		}
	}
	if !strings.HasPrefix(c.Database.URI, "mongodb://") && !strings.HasPrefix(c.Database.URI, "mongodb+srv://") {
		return fmt.Errorf("%w: database.uri must start with mongodb:// or mongodb+srv://", domain.ErrConfiguration)
	}
	if strings.HasPrefix(c.Database.URI, "mongodb+srv://") && c.Database.DirectConnection {
		return fmt.Errorf("%w: database.direct_connection cannot be used with a mongodb+srv uri", domain.ErrConfiguration)
	}
	if c.Database.Name == "" || c.Database.Collection == "" {
		return fmt.Errorf("%w: database.name and database.collection are required", domain.ErrConfiguration)
	}
	switch c.Embedding.Provider {
	case "azure":
		if c.EmbeddingEnabled() && c.Embedding.BaseURL == "" {
			return fmt.Errorf("%w: embedding.base_url (Azure endpoint) is required for provider azure",
				domain.ErrConfiguration)
		}
	case "openai":
	default:
		return fmt.Errorf("%w: embedding.provider must be \"azure\" or \"openai\", got %q",
			domain.ErrConfiguration, c.Embedding.Provider)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("%w: embedding.dimensions must be non-negative", domain.ErrConfiguration)
	}
	if c.Embedding.Dimensions > 0 && c.Embedding.Dimensions != c.Index.Dimensions {
		return fmt.Errorf("%w: embedding.dimensions (%d) must match index.dimensions (%d)",
			domain.ErrConfiguration, c.Embedding.Dimensions, c.Index.Dimensions)
	}
	if c.Search.ResultLimit() < 0 {
		return fmt.Errorf("%w: search.limit must be non-negative", domain.ErrConfiguration)
	}
	if c.Search.NumCandidates < c.Search.ResultLimit() {
		return fmt.Errorf("%w: search.num_candidates (%d) must be >= search.limit (%d)",
			domain.ErrConfiguration, c.Search.NumCandidates, c.Search.ResultLimit())
	}
	if c.Index.PollMaxAttempts < 0 || c.Index.PollTimeoutSec < 0 {
		return fmt.Errorf("%w: index poll bounds must be non-negative", domain.ErrConfiguration)
	}
	return nil
}

// ResultLimit returns the configured result count. An explicit 0 is kept.
func (s SearchConfig) ResultLimit() int {
	if s.Limit == nil {
		return 0
	}
	return *s.Limit
}

// EmbeddingEnabled reports whether an API key is configured for the embedding provider.
func (c *Config) EmbeddingEnabled() bool {
	return c.Embedding.APIKey != ""
}

// CacheEnabled reports whether the embedding cache is configured.
func (c *Config) CacheEnabled() bool {
	return len(c.Cache.Addrs) > 0
}

// PollInterval returns the wait between index status observations.
func (c IndexConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

// PollTimeout returns the overall index build deadline; zero means unbounded.
func (c IndexConfig) PollTimeout() time.Duration {
	if c.PollTimeoutSec < 0 {
		return 0
	}
	return time.Duration(c.PollTimeoutSec) * time.Second
}

// MaxAttempts returns the observation budget; zero means unbounded.
func (c IndexConfig) MaxAttempts() int {
	if c.PollMaxAttempts < 0 {
		return 0
	}
	return c.PollMaxAttempts
}

func ptr[T any](v T) *T { return &v }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

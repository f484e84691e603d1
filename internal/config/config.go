package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the project config looked up in the working directory
// unless CAMPAIGNSMITH_CONFIG points elsewhere.
const DefaultConfigFile = "campaignsmith.yaml"

const (
	apiKeyEnv       = "OPENAI_API_KEY"
	configPathEnv   = "CAMPAIGNSMITH_CONFIG"
	defaultModel    = "gpt-3.5-turbo"
	defaultDSN      = "sqlite://campaignsmith.db"
	defaultLogDir   = "./log"
	defaultMaxEach  = 10
	defaultRelProb  = 0.3
	defaultRetries  = 3
	defaultTimeout  = 120
	defaultCreative = 1.3
	defaultAsym     = 0.25
)

type ProjectConfig struct {
	Project    string           `yaml:"project"`
	Version    int              `yaml:"version"`
	Database   DatabaseConfig   `yaml:"database"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Generation GenerationConfig `yaml:"generation"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type OpenAIConfig struct {
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
}

type GenerationConfig struct {
	MaxLocations  int `yaml:"max_locations"`
	MaxCharacters int `yaml:"max_characters"`
	MaxItems      int `yaml:"max_items"`
	// RelationshipProbability is the chance that any unordered pair of
	// characters in a freshly generated world gets a relationship.
	RelationshipProbability float64 `yaml:"relationship_probability"`
	// AsymmetricShare is the fraction of generated relationships that
	// read differently in each direction.
	AsymmetricShare  float64 `yaml:"asymmetric_share"`
	RetryLimit       int     `yaml:"retry_limit"`
	LogCompletions   bool    `yaml:"log_completions"`
	CompletionLogDir string  `yaml:"completion_log_dir"`
}

// ConfigPath resolves the project config location, honouring the
// CAMPAIGNSMITH_CONFIG override.
func ConfigPath() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}
	return DefaultConfigFile
}

// ErrAPIKeyMissing reports an absent OPENAI_API_KEY. Callers that can run
// without generation match on it to degrade instead of failing.
var ErrAPIKeyMissing = errors.New("OPENAI_API_KEY is not set")

// APIKeyFromEnv returns the OpenAI credential. Generation commands require
// it; query commands do not.
func APIKeyFromEnv() (string, error) {
	key := strings.TrimSpace(os.Getenv(apiKeyEnv))
	if key == "" {
		return "", fmt.Errorf("%w; export an OpenAI API key to enable generation", ErrAPIKeyMissing)
	}
	return key, nil
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = defaultDSN
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = defaultModel
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = defaultCreative
	}
	if cfg.OpenAI.TimeoutSeconds == 0 {
		cfg.OpenAI.TimeoutSeconds = defaultTimeout
	}
	if cfg.OpenAI.MaxRetries == 0 {
		cfg.OpenAI.MaxRetries = defaultRetries
	}
	if cfg.Generation.MaxLocations == 0 {
		cfg.Generation.MaxLocations = defaultMaxEach
	}
	if cfg.Generation.MaxCharacters == 0 {
		cfg.Generation.MaxCharacters = defaultMaxEach
	}
	if cfg.Generation.MaxItems == 0 {
		cfg.Generation.MaxItems = defaultMaxEach
	}
	if cfg.Generation.RelationshipProbability == 0 {
		cfg.Generation.RelationshipProbability = defaultRelProb
	}
	if cfg.Generation.AsymmetricShare == 0 {
		cfg.Generation.AsymmetricShare = defaultAsym
	}
	if cfg.Generation.RetryLimit == 0 {
		cfg.Generation.RetryLimit = defaultRetries
	}
	if cfg.Generation.CompletionLogDir == "" {
		cfg.Generation.CompletionLogDir = defaultLogDir
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	dsn := cfg.Database.DSN
	if !strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return fmt.Errorf("unsupported database DSN scheme: %s", dsn)
	}
	if cfg.OpenAI.Temperature < 0 || cfg.OpenAI.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if cfg.OpenAI.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if cfg.OpenAI.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1")
	}
	if cfg.Generation.MaxLocations < 1 || cfg.Generation.MaxCharacters < 1 || cfg.Generation.MaxItems < 1 {
		return fmt.Errorf("generation caps must be at least 1")
	}
	if cfg.Generation.RelationshipProbability < 0 || cfg.Generation.RelationshipProbability > 1 {
		return fmt.Errorf("relationship_probability must be between 0 and 1")
	}
	if cfg.Generation.AsymmetricShare < 0 || cfg.Generation.AsymmetricShare > 1 {
		return fmt.Errorf("asymmetric_share must be between 0 and 1")
	}
	if cfg.Generation.RetryLimit < 1 {
		return fmt.Errorf("retry_limit must be at least 1")
	}
	return nil
}

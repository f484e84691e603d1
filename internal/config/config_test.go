package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.OpenAI.Model != "gpt-4o-mini" {
			t.Fatalf("expected model override, got %q", cfg.OpenAI.Model)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.OpenAI.Model != "gpt-3.5-turbo" {
			t.Fatalf("expected default model, got %q", cfg.OpenAI.Model)
		}
		if cfg.OpenAI.Temperature != 1.3 {
			t.Fatalf("expected default temperature, got %v", cfg.OpenAI.Temperature)
		}
		if cfg.Generation.MaxLocations != 10 || cfg.Generation.MaxCharacters != 10 || cfg.Generation.MaxItems != 10 {
			t.Fatalf("expected default caps, got %+v", cfg.Generation)
		}
		if cfg.Generation.RelationshipProbability != 0.3 {
			t.Fatalf("expected default relationship probability, got %v", cfg.Generation.RelationshipProbability)
		}
		if cfg.Database.DSN != "sqlite://campaignsmith.db" {
			t.Fatalf("expected default DSN, got %q", cfg.Database.DSN)
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 2\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("bad DSN scheme", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\ndatabase:\n  dsn: mysql://localhost/campaign\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("temperature out of range", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nopenai:\n  temperature: 2.5\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("relationship probability out of range", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\ngeneration:\n  relationship_probability: 1.5\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Run("missing key is a matchable error", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		_, err := APIKeyFromEnv()
		if err == nil {
			t.Fatalf("expected error")
		}
		if !errors.Is(err, ErrAPIKeyMissing) {
			t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
		}
	})

	t.Run("key returned trimmed", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", " sk-test \n")
		key, err := APIKeyFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if key != "sk-test" {
			t.Fatalf("expected trimmed key, got %q", key)
		}
	})
}

func TestConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("CAMPAIGNSMITH_CONFIG", "")
		if got := ConfigPath(); got != DefaultConfigFile {
			t.Fatalf("expected default path, got %q", got)
		}
	})

	t.Run("override", func(t *testing.T) {
		t.Setenv("CAMPAIGNSMITH_CONFIG", "/tmp/other.yaml")
		if got := ConfigPath(); got != "/tmp/other.yaml" {
			t.Fatalf("expected override path, got %q", got)
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campaignsmith.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

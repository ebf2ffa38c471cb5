package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.GitHub.TokenEnv != "PERSONAL_GITHUB_TOKEN" {
		t.Errorf("expected default token_env, got %q", cfg.GitHub.TokenEnv)
	}
	if cfg.GitHub.DaysBack != 7 {
		t.Errorf("expected days_back 7, got %d", cfg.GitHub.DaysBack)
	}
	if cfg.Generation.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", cfg.Generation.Provider)
	}
	if cfg.Generation.IdeaCount != 5 {
		t.Errorf("expected idea_count 5, got %d", cfg.Generation.IdeaCount)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Schedule.Cron != "0 9 * * 1" {
		t.Errorf("expected weekly cron, got %q", cfg.Schedule.Cron)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
github:
  username: octocat
notion:
  database_id: db-1
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.GitHub.Username != "octocat" {
		t.Errorf("expected username 'octocat', got %q", cfg.GitHub.Username)
	}
	// Defaults should still be set for unspecified fields
	if cfg.GitHub.PageSize != 100 {
		t.Errorf("expected default page_size 100, got %d", cfg.GitHub.PageSize)
	}
	if cfg.Generation.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected default ollama_url, got %q", cfg.Generation.OllamaURL)
	}
	if cfg.Notion.TokenEnv != "NOTION_TOKEN" {
		t.Errorf("expected default notion token_env, got %q", cfg.Notion.TokenEnv)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Generation.Provider != "openai" {
		t.Errorf("expected provider from file, got %q", cfg.Generation.Provider)
	}
}

func validTestConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("TEST_GH_TOKEN", "gh")
	t.Setenv("TEST_NOTION_TOKEN", "nt")
	t.Setenv("TEST_OPENAI_KEY", "oa")

	cfg, _ := parse(nil)
	cfg.GitHub.Username = "octocat"
	cfg.GitHub.TokenEnv = "TEST_GH_TOKEN"
	cfg.Notion.DatabaseID = "db-1"
	cfg.Notion.TokenEnv = "TEST_NOTION_TOKEN"
	cfg.Generation.APIKeyEnv = "TEST_OPENAI_KEY"
	return cfg
}

func TestValidateOK(t *testing.T) {
	cfg := validTestConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateMissingUsername(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.GitHub.Username = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing username")
	}
}

func TestValidateMissingDatabaseID(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Notion.DatabaseID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing database_id")
	}
}

func TestValidateMissingSecret(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Notion.TokenEnv = "TEST_UNSET_NOTION_TOKEN"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unset secret env var")
	}
}

func TestValidateOllamaSkipsAPIKey(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Generation.Provider = "ollama"
	cfg.Generation.APIKeyEnv = "TEST_UNSET_OPENAI_KEY"
	if err := cfg.Validate(); err != nil {
		t.Errorf("ollama provider should not require an API key, got %v", err)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	if cfg.GetDataDir() == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	GitHub     GitHub     `yaml:"github"`
	Generation Generation `yaml:"generation"`
	Notion     Notion     `yaml:"notion"`
	Output     Output     `yaml:"output"`
	Server     Server     `yaml:"server"`
	Schedule   Schedule   `yaml:"schedule"`
}

type GitHub struct {
	Username string `yaml:"username"`
	TokenEnv string `yaml:"token_env"`
	DaysBack int    `yaml:"days_back"`
	PageSize int    `yaml:"page_size"`
}

type Generation struct {
	Provider    string `yaml:"provider"`
	OpenAIModel string `yaml:"openai_model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	OllamaModel string `yaml:"ollama_model"`
	OllamaURL   string `yaml:"ollama_url"`
	IdeaCount   int    `yaml:"idea_count"`
	MaxTokens   int    `yaml:"max_tokens"`
}

type Notion struct {
	TokenEnv   string `yaml:"token_env"`
	DatabaseID string `yaml:"database_id"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Schedule struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

// ConfigDir returns the XDG config directory for postpilot.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "postpilot")
}

// DataDir returns the XDG data directory for postpilot.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "postpilot")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/postpilot/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'postpilot init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		GitHub: GitHub{
			TokenEnv: "PERSONAL_GITHUB_TOKEN",
			DaysBack: 7,
			PageSize: 100,
		},
		Generation: Generation{
			Provider:    "openai",
			OpenAIModel: "gpt-4.1",
			APIKeyEnv:   "OPENAI_API_KEY",
			OllamaModel: "qwen2.5:7b",
			OllamaURL:   "http://localhost:11434",
			IdeaCount:   5,
			MaxTokens:   2048,
		},
		Notion: Notion{
			TokenEnv: "NOTION_TOKEN",
		},
		Server: Server{Port: 8000},
		Schedule: Schedule{
			Cron:     "0 9 * * 1",
			Timezone: "Local",
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks the required settings before any network call is made.
// Secret values are checked for presence only; they are never logged,
// printed, or included in error messages.
func (c *Config) Validate() error {
	if c.GitHub.Username == "" {
		return fmt.Errorf("github.username is required")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required")
	}

	required := []string{c.GitHub.TokenEnv, c.Notion.TokenEnv}
	if c.Generation.Provider != "ollama" {
		required = append(required, c.Generation.APIKeyEnv)
	}
	for _, envName := range required {
		if envName == "" {
			return fmt.Errorf("a secret env var name is empty in the config")
		}
		if os.Getenv(envName) == "" {
			return fmt.Errorf("required environment variable %s is not set", envName)
		}
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

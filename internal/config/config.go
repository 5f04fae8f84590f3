// Package config loads the ZenScreen client configuration from a YAML file,
// applying defaults for anything the file omits.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	State   StateConfig   `yaml:"state"`
	Sync    SyncConfig    `yaml:"sync"`
	Content ContentConfig `yaml:"content"`
}

// StateConfig controls local persistence.
type StateConfig struct {
	// Dir overrides the XDG state directory for the profile file.
	Dir string `yaml:"dir"`
	// SaveDebounce is the trailing delay between the last change and the write.
	SaveDebounce time.Duration `yaml:"save_debounce"`
}

// SyncConfig points at the remote document store. Both fields empty
// disables sync entirely; the client works offline.
type SyncConfig struct {
	BaseURL  string `yaml:"base_url"`
	WatchURL string `yaml:"watch_url"`
	Token    string `yaml:"token"`
}

// ContentConfig configures the generative content bridge. An empty APIKey
// disables it; all callers fall back to static content.
type ContentConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Load reads the config at path over a set of defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		State: StateConfig{
			SaveDebounce: 2 * time.Second,
		},
		Content: ContentConfig{
			Model: "gemini-2.5-flash",
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if key := os.Getenv("GEMINI_API_KEY"); key != "" {
				cfg.Content.APIKey = key
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Content.APIKey == "" {
		cfg.Content.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Content.Model == "" {
		cfg.Content.Model = "gemini-2.5-flash"
	}
	if cfg.State.SaveDebounce <= 0 {
		cfg.State.SaveDebounce = 2 * time.Second
	}
	return cfg, nil
}

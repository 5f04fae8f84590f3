package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.State.SaveDebounce != 2*time.Second {
		t.Errorf("SaveDebounce = %v", cfg.State.SaveDebounce)
	}
	if cfg.Content.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Content.Model)
	}
	if cfg.Sync.BaseURL != "" {
		t.Errorf("BaseURL = %q, want sync disabled", cfg.Sync.BaseURL)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
state:
  dir: /tmp/zs-test
  save_debounce: 5s
sync:
  base_url: http://localhost:9090
  watch_url: ws://localhost:9090/watch
content:
  api_key: test-key
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.State.Dir != "/tmp/zs-test" || cfg.State.SaveDebounce != 5*time.Second {
		t.Errorf("state = %+v", cfg.State)
	}
	if cfg.Sync.BaseURL != "http://localhost:9090" {
		t.Errorf("sync = %+v", cfg.Sync)
	}
	if cfg.Content.APIKey != "test-key" || cfg.Content.Model != "gemini-2.5-flash" {
		t.Errorf("content = %+v", cfg.Content)
	}
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Content.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env fallback", cfg.Content.APIKey)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "HISTORY_BACKEND", "HISTORY_LIMIT", "OLLAMA_MODEL", "OLLAMA_PROBE_TIMEOUT", "CONFIG_FILE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.HistoryBackend != "file" {
		t.Fatalf("expected file history backend, got %q", cfg.HistoryBackend)
	}
	if cfg.HistoryLimit != 50 {
		t.Fatalf("expected history limit 50, got %d", cfg.HistoryLimit)
	}
	if cfg.OllamaModel != "llama3.2" {
		t.Fatalf("expected default model llama3.2, got %q", cfg.OllamaModel)
	}
	if cfg.OllamaProbeTimeout != 2*time.Second {
		t.Fatalf("expected 2s probe timeout, got %s", cfg.OllamaProbeTimeout)
	}
	if cfg.OllamaGenerateTimeout != 60*time.Second {
		t.Fatalf("expected 60s generate timeout, got %s", cfg.OllamaGenerateTimeout)
	}
}

func TestLoadFileValuesYieldToEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "matcher.toml")
	content := `
port = "9090"

[history]
backend = "postgres"
limit = 25

[ollama]
model = "mistral"
stream = true
probe_timeout = "500ms"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	for _, key := range []string{"PORT", "HISTORY_BACKEND", "HISTORY_LIMIT", "OLLAMA_STREAM", "OLLAMA_PROBE_TIMEOUT"} {
		unsetForTest(t, key)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("OLLAMA_MODEL", "llama3.2:1b")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port from file, got %q", cfg.Port)
	}
	if cfg.HistoryBackend != "postgres" {
		t.Fatalf("expected postgres backend from file, got %q", cfg.HistoryBackend)
	}
	if cfg.HistoryLimit != 25 {
		t.Fatalf("expected limit 25 from file, got %d", cfg.HistoryLimit)
	}
	if !cfg.OllamaStream {
		t.Fatalf("expected stream=true from file")
	}
	if cfg.OllamaProbeTimeout != 500*time.Millisecond {
		t.Fatalf("expected 500ms probe timeout, got %s", cfg.OllamaProbeTimeout)
	}
	if cfg.OllamaModel != "llama3.2:1b" {
		t.Fatalf("expected env to win over file, got %q", cfg.OllamaModel)
	}
}

func TestGetEnvDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("X_TIMEOUT", "15")
	if got := getEnvDuration("X_TIMEOUT", time.Second); got != 15*time.Second {
		t.Fatalf("expected 15s, got %s", got)
	}
	t.Setenv("X_TIMEOUT", "nope")
	if got := getEnvDuration("X_TIMEOUT", time.Second); got != time.Second {
		t.Fatalf("expected fallback 1s, got %s", got)
	}
}

// unsetForTest removes key for the duration of the test; t.Setenv restores it afterwards.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the optional TOML config file. Every value maps onto the
// environment variable of the same setting so env stays the single source.
type fileConfig struct {
	Port     string `toml:"port"`
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	History struct {
		Backend     string `toml:"backend"`
		File        string `toml:"file"`
		Limit       int    `toml:"limit"`
		DatabaseURL string `toml:"database_url"`
	} `toml:"history"`

	Embedding struct {
		Provider string `toml:"provider"`
		BaseURL  string `toml:"base_url"`
		Model    string `toml:"model"`
		APIKey   string `toml:"api_key"`
		Timeout  string `toml:"timeout"`
	} `toml:"embedding"`

	Ollama struct {
		BaseURL         string `toml:"base_url"`
		Model           string `toml:"model"`
		Stream          *bool  `toml:"stream"`
		ProbeTimeout    string `toml:"probe_timeout"`
		GenerateTimeout string `toml:"generate_timeout"`
	} `toml:"ollama"`

	Archive struct {
		Enabled  *bool  `toml:"enabled"`
		Store    string `toml:"store"`
		LocalDir string `toml:"local_dir"`
		Region   string `toml:"region"`
		Bucket   string `toml:"bucket"`
		Prefix   string `toml:"prefix"`
	} `toml:"archive"`
}

// applyFile decodes path and exports its values as environment defaults.
func applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	pairs := map[string]string{
		"PORT":                    fc.Port,
		"ENV":                     fc.Env,
		"LOG_LEVEL":               fc.LogLevel,
		"HISTORY_BACKEND":         fc.History.Backend,
		"HISTORY_FILE":            fc.History.File,
		"DATABASE_URL":            fc.History.DatabaseURL,
		"EMBEDDING_PROVIDER":      fc.Embedding.Provider,
		"EMBEDDING_BASE_URL":      fc.Embedding.BaseURL,
		"EMBEDDING_MODEL":         fc.Embedding.Model,
		"EMBEDDING_API_KEY":       fc.Embedding.APIKey,
		"EMBEDDING_TIMEOUT":       fc.Embedding.Timeout,
		"OLLAMA_BASE_URL":         fc.Ollama.BaseURL,
		"OLLAMA_MODEL":            fc.Ollama.Model,
		"OLLAMA_PROBE_TIMEOUT":    fc.Ollama.ProbeTimeout,
		"OLLAMA_GENERATE_TIMEOUT": fc.Ollama.GenerateTimeout,
		"OBJECT_STORE":            fc.Archive.Store,
		"LOCAL_STORE_DIR":         fc.Archive.LocalDir,
		"AWS_REGION":              fc.Archive.Region,
		"S3_BUCKET":               fc.Archive.Bucket,
		"S3_PREFIX":               fc.Archive.Prefix,
	}
	if fc.History.Limit > 0 {
		pairs["HISTORY_LIMIT"] = strconv.Itoa(fc.History.Limit)
	}
	if fc.Ollama.Stream != nil {
		pairs["OLLAMA_STREAM"] = strconv.FormatBool(*fc.Ollama.Stream)
	}
	if fc.Archive.Enabled != nil {
		pairs["ARCHIVE_UPLOADS"] = strconv.FormatBool(*fc.Archive.Enabled)
	}

	for key, val := range pairs {
		if val == "" {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

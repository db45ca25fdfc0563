package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const configPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// envKeys maps environment variables to config keys. Anything else in the
// environment is ignored.
var envKeys = map[string]string{
	"PORT":                 "port",
	"ENVIRONMENT":          "environment",
	"DATABASE_URL":         "database_url",
	"JWT_SECRET":           "jwt_secret",
	"JWT_EXPIRATION_HOURS": "jwt_expiration_hours",
	"BCRYPT_COST":          "bcrypt_cost",
	"COOKIE_SAMESITE":      "cookie_samesite",
	"CLIENT_ORIGINS":       "client_origins",
	"GOOGLE_BOOKS_URL":     "google_books_url",
	"GOOGLE_BOOKS_API_KEY": "google_books_api_key",
	"CATALOG_TIMEOUT":      "catalog_timeout",
	"RATE_LIMIT_REQUESTS":  "rate_limit_requests",
	"RATE_LIMIT_WINDOW":    "rate_limit_window",
	"LOG_LEVEL":            "log_level",
	"LOG_FORMAT":           "log_format",
}

var sliceKeys = []string{"client_origins"}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envTransform(key string) string {
	return envKeys[key]
}

func findConfigFile() string {
	if p := os.Getenv(configPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitSliceKeys turns comma-separated env values into string slices.
func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var values []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		if err := k.Set(key, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

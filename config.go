package nota

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultConfig returns the built-in configuration: a memory-backed
// workspace served on :8080.
func DefaultConfig() *Config {
	return &Config{
		Addr:     ":8080",
		Backend:  "memory",
		BaseURL:  "http://localhost:8080",
		LogLevel: "info",
	}
}

// LoadConfigFile merges a YAML config file over config. Keys absent from
// the file keep their current values; an empty path is a no-op.
func LoadConfigFile(config *Config, path string) error {
	if path == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv merges NOTA_* environment variables over config.
func applyEnv(config *Config) {
	config.Addr = getEnv("NOTA_ADDR", config.Addr)
	config.Backend = getEnv("NOTA_BACKEND", config.Backend)
	config.DataPath = getEnv("NOTA_DATA_PATH", config.DataPath)
	config.PostgresDSN = getEnv("NOTA_POSTGRES_DSN", config.PostgresDSN)
	config.BaseURL = getEnv("NOTA_BASE_URL", config.BaseURL)
	config.LogLevel = getEnv("NOTA_LOG_LEVEL", config.LogLevel)
	config.LogPath = getEnv("NOTA_LOG_PATH", config.LogPath)
}

// getEnv retrieves an environment variable value with a fallback default.
// Empty variables count as unset, which is the safer reading in container
// environments where empty values get set by accident.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ABOUTME: Environment-driven configuration for the rigdesk server.
// ABOUTME: Loads .env automatically and resolves the database path, port, locale, and limits.

package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Port      string
	DBPath    string
	Locale    string
	RateLimit int
	// TrustedProxies are addresses or CIDRs whose forwarding headers are believed.
	TrustedProxies []string
	DebugEnabled   bool
	OpenAIKey      string
	OpenAIModel    string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is picked up by the autoload import.
func Load() *Config {
	cfg := &Config{
		Port:           getEnvWithDefault("RIGDESK_PORT", "9000"),
		DBPath:         DefaultDBPath(),
		Locale:         getEnvWithDefault("RIGDESK_LOCALE", "en"),
		RateLimit:      getIntEnvWithDefault("RIGDESK_RATE_LIMIT", 120),
		TrustedProxies: getListEnv("RIGDESK_TRUSTED_PROXIES"),
		DebugEnabled:   getBoolEnvWithDefault("DEBUG", false),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnvWithDefault("OPENAI_MODEL", "gpt-5-nano"),
	}

	if cfg.DebugEnabled {
		log.Printf("DEBUG enabled: SQL statements will be logged")
	}
	return cfg
}

// DefaultDBPath resolves the database location.
// RIGDESK_DB_PATH wins, then ./rigdesk.db if present, then the XDG data directory.
func DefaultDBPath() string {
	if envPath := strings.TrimSpace(os.Getenv("RIGDESK_DB_PATH")); envPath != "" {
		return envPath
	}

	if _, err := os.Stat("./rigdesk.db"); err == nil {
		return "./rigdesk.db"
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./rigdesk.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(dataHome, "rigdesk")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: could not create data directory %s: %v", dir, err)
		return "./rigdesk.db"
	}
	return filepath.Join(dir, "rigdesk.db")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Invalid boolean value for %s=%q, using default %t", key, value, defaultValue)
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Invalid integer value for %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping empty entries.
func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	// Database
	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseURL    string
	MaxConns       int32
	MinConns       int32
	// Archive storage: S3-compatible bucket when SpacesBucket is set, local folder otherwise
	StorageFolder        string
	SpacesEndpoint       string
	SpacesBucket         string
	SpacesRegion         string
	SpacesKey            string
	SpacesSecret         string
	SpacesForcePathStyle bool
	// Full-text search; empty path keeps search disabled
	SearchIndexPath string
	// Auth
	JWKSURL   string
	JWTSecret string
	// Logging; empty LogDir logs to stdout only
	LogDir      string
	MaxLogFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		// Database
		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", "file:bookmarkd.db"),
		MaxConns:       int32(getEnvInt("DATABASE_MAX_CONNS", 25)),
		MinConns:       int32(getEnvInt("DATABASE_MIN_CONNS", 5)),
		// Archive storage
		StorageFolder:        getEnv("STORAGE_FOLDER", "data"),
		SpacesEndpoint:       getEnv("SPACES_ENDPOINT", ""),
		SpacesBucket:         getEnv("SPACES_BUCKET_NAME", ""),
		SpacesRegion:         getEnv("SPACES_REGION", "us-east-1"),
		SpacesKey:            getEnv("SPACES_KEY", ""),
		SpacesSecret:         getEnv("SPACES_SECRET", ""),
		SpacesForcePathStyle: getEnv("SPACES_FORCE_PATH_STYLE", "false") == "true",
		// Search
		SearchIndexPath: getEnv("SEARCH_INDEX_PATH", ""),
		// Auth
		JWKSURL:   getEnv("JWKS_URL", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		MaxLogFiles: getEnvInt("MAX_LOG_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// UsesObjectStorage reports whether archives live in an S3-compatible bucket
func (c *Config) UsesObjectStorage() bool {
	return c.SpacesBucket != ""
}

// SearchEnabled reports whether a search index is configured
func (c *Config) SearchEnabled() bool {
	return c.SearchIndexPath != ""
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	case "dev":
		return "dev_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

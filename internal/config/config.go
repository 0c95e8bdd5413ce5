// Package config centralises all environment configuration for the server.
// It should be imported only by `cmd/` (and test code). Everything else
// receives an already-built Config value.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple: prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port       string
	CORSOrigin string

	// GitHub
	GitHubToken string
	SourcesFile string

	// Refresh
	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Refresh history (optional)
	MongoURI string
	DBName   string
}

// HistoryEnabled reports whether refresh runs should be recorded in Mongo.
func (c Config) HistoryEnabled() bool {
	return c.MongoURI != ""
}

// Load parses the environment (and an optional .env file) into Config.
// It exits on missing required variables so mis-configurations fail fast.
func Load() Config {
	LoadDotEnv()

	return Config{
		Port:            must("PORT"),
		CORSOrigin:      getEnv("CORS_ORIGIN", ""),
		GitHubToken:     must("GITHUB_API_TOKEN"),
		SourcesFile:     getEnv("SOURCES_FILE", ""),
		RefreshInterval: getDuration("REFRESH_INTERVAL_SEC", 900),
		FetchTimeout:    getDuration("FETCH_TIMEOUT_SEC", 120),
		ReadTimeout:     getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout:    getDuration("WRITE_TIMEOUT_SEC", 10),
		MongoURI:        getEnv("MONGODB_URI", ""),
		DBName:          getEnv("MONGODB_DB", "help_wanted"),
	}
}

// LoadDotEnv reads .env into the environment if it exists.
// godotenv.Load() never overrides variables that are already set.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec >= 0 {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}

// Package config loads service settings from the environment, with an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Store  StoreConfig
	Quiz   QuizConfig
}

type ServerConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type LogConfig struct {
	Level       string
	Development bool
}

type StoreConfig struct {
	// EventLog enables the sqlite LLM request log. Its path comes from
	// --db, LOVESIM_DB or the data directory.
	EventLog bool
}

type QuizConfig struct {
	MemoryLimit   int
	IdleTTL       time.Duration
	EventCapacity int
}

// Load reads LOVESIM_* variables. Values that fail to parse fall back to
// their defaults; Validate reports settings that are out of range.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("LOVESIM_ADDR", ":8080"),
			RequestTimeout:  getDuration("LOVESIM_REQUEST_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDuration("LOVESIM_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getList("LOVESIM_CORS_ORIGINS"),
		},
		Log: LogConfig{
			Level:       getEnv("LOVESIM_LOG_LEVEL", "info"),
			Development: getBool("LOVESIM_LOG_DEV", false),
		},
		Store: StoreConfig{
			EventLog: getBool("LOVESIM_EVENT_LOG", true),
		},
		Quiz: QuizConfig{
			MemoryLimit:   getInt("LOVESIM_MEMORY_LIMIT", 50),
			IdleTTL:       getDuration("LOVESIM_QUIZ_IDLE_TTL", 2*time.Hour),
			EventCapacity: getInt("LOVESIM_EVENT_CAPACITY", 100),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("LOVESIM_ADDR must not be empty")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("LOVESIM_REQUEST_TIMEOUT must be positive, got %s", c.Server.RequestTimeout)
	}
	if c.Quiz.MemoryLimit < 1 {
		return fmt.Errorf("LOVESIM_MEMORY_LIMIT must be at least 1, got %d", c.Quiz.MemoryLimit)
	}
	if c.Quiz.EventCapacity < 1 {
		return fmt.Errorf("LOVESIM_EVENT_CAPACITY must be at least 1, got %d", c.Quiz.EventCapacity)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}

// getList splits a comma separated value, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

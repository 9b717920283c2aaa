package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SnapshotSource string
	SnapshotPath   string
	OutputPath     string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	ScoreWorkers int
	PageSize     int
	MapZoom      float64
	Viewport     string
	SearchText   string
	SortOrder    string
	MaxRetries   int

	LogLevel         string
	EngineConfigPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SnapshotSource: strings.ToLower(getEnv("SNAPSHOT_SOURCE", "csv")),
		SnapshotPath:   getEnv("SNAPSHOT_PATH", "./data/listings.csv"),
		OutputPath:     getEnv("OUTPUT_PATH", "./output/scored_listings.csv"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "zelr"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "zelr123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),

		ScoreWorkers: getEnvInt("SCORE_WORKERS", 4),
		PageSize:     getEnvInt("PAGE_SIZE", 0),
		MapZoom:      getEnvFloat("MAP_ZOOM", 11),
		Viewport:     getEnv("VIEWPORT", ""),
		SearchText:   getEnv("SEARCH_TEXT", ""),
		SortOrder:    getEnv("SORT_ORDER", "homes_for_you"),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		EngineConfigPath: getEnv("ENGINE_CONFIG_PATH", "./valuation.toml"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// ParseViewport parses "north,south,east,west" into its four edges. An empty
// string yields ok=false with no error.
func ParseViewport(s string) (north, south, east, west float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, 0, false, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, false, fmt.Errorf("viewport %q: want 4 comma-separated values, got %d", s, len(parts))
	}

	var edges [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, 0, false, fmt.Errorf("viewport %q: value %d: %w", s, i+1, err)
		}
		edges[i] = v
	}
	if edges[0] < edges[1] {
		return 0, 0, 0, 0, false, fmt.Errorf("viewport %q: north %.4f is below south %.4f", s, edges[0], edges[1])
	}
	return edges[0], edges[1], edges[2], edges[3], true, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

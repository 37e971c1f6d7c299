package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the navigation backend
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Routing provider configuration
	Routing RoutingConfig

	// Geocoding configuration
	Geocoding GeocodingConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Redis cache configuration
	Redis RedisConfig

	// Speech queue configuration
	Speech SpeechConfig

	// Guidance core configuration
	Guidance GuidanceConfig

	// Session lifecycle configuration
	Sessions SessionConfig

	// Data retention configuration
	Retention RetentionConfig

	// CORS configuration
	CORS CORSConfig

	// Device pairing configuration
	Pairing PairingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// RoutingConfig holds routing provider configuration
type RoutingConfig struct {
	Provider       string // "osrm" or "google"
	OSRMBaseURL    string
	GoogleAPIKey   string
	Profile        string // default travel profile
	RequestTimeout time.Duration
}

// GeocodingConfig holds Nominatim geocoding configuration
type GeocodingConfig struct {
	BaseURL     string
	UserAgent   string // Nominatim usage policy requires identification
	MinInterval time.Duration
	CacheTTL    time.Duration
}

// RateLimitConfig holds search rate limiting configuration
type RateLimitConfig struct {
	SearchRequests int
	Window         time.Duration
}

// RedisConfig holds the optional Redis cache configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// SpeechConfig holds the speech queue configuration
type SpeechConfig struct {
	Enabled    bool
	StateDir   string
	QueueFile  string
	MaxEntries int
}

// GuidanceConfig holds guidance core tunables
type GuidanceConfig struct {
	StepAdvanceRadiusM float64
	VoiceDefault       bool
}

// SessionConfig holds navigation session lifecycle configuration
type SessionConfig struct {
	StaleAfter time.Duration
}

// RetentionConfig holds data retention windows
type RetentionConfig struct {
	SearchHistoryDays int
	TripLogDays       int
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// PairingConfig holds device pairing configuration
type PairingConfig struct {
	Code string // plaintext pairing code; hashed at boot, never stored
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  getEnvAsDuration("JWT_ACCESS_TOKEN_EXPIRY", time.Hour),
			RefreshTokenExpiry: getEnvAsDuration("JWT_REFRESH_TOKEN_EXPIRY", 30*24*time.Hour),
		},
		Routing: RoutingConfig{
			Provider:       getEnv("ROUTING_PROVIDER", "osrm"),
			OSRMBaseURL:    getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
			GoogleAPIKey:   getEnv("GOOGLE_MAPS_API_KEY", ""),
			Profile:        getEnv("ROUTING_PROFILE", "driving"),
			RequestTimeout: getEnvAsDuration("ROUTING_REQUEST_TIMEOUT", 10*time.Second),
		},
		Geocoding: GeocodingConfig{
			BaseURL:     getEnv("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:   getEnv("GEOCODING_USER_AGENT", "flick-navd/1.0"),
			MinInterval: getEnvAsDuration("GEOCODING_MIN_INTERVAL", time.Second),
			CacheTTL:    getEnvAsDuration("GEOCODING_CACHE_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			SearchRequests: getEnvAsInt("SEARCH_RATE_LIMIT", 30),
			Window:         getEnvAsDuration("SEARCH_RATE_WINDOW", 10*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Speech: SpeechConfig{
			Enabled:    getEnvAsBool("SPEECH_ENABLED", true),
			StateDir:   getEnv("SPEECH_STATE_DIR", defaultStateDir()),
			QueueFile:  getEnv("SPEECH_QUEUE_FILE", "speech_queue.json"),
			MaxEntries: getEnvAsInt("SPEECH_QUEUE_MAX_ENTRIES", 20),
		},
		Guidance: GuidanceConfig{
			StepAdvanceRadiusM: float64(getEnvAsInt("GUIDANCE_STEP_ADVANCE_RADIUS_M", 30)),
			VoiceDefault:       getEnvAsBool("GUIDANCE_VOICE_DEFAULT", true),
		},
		Sessions: SessionConfig{
			StaleAfter: getEnvAsDuration("SESSION_STALE_AFTER", 10*time.Minute),
		},
		Retention: RetentionConfig{
			SearchHistoryDays: getEnvAsInt("SEARCH_HISTORY_RETENTION_DAYS", 90),
			TripLogDays:       getEnvAsInt("TRIP_LOG_RETENTION_DAYS", 180),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Pairing: PairingConfig{
			Code: getEnv("PAIRING_CODE", ""),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	if c.Pairing.Code == "" {
		return fmt.Errorf("PAIRING_CODE is required")
	}

	switch c.Routing.Provider {
	case "osrm":
		if c.Routing.OSRMBaseURL == "" {
			return fmt.Errorf("OSRM_BASE_URL is required for the osrm provider")
		}
	case "google":
		if c.Routing.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_MAPS_API_KEY is required for the google provider")
		}
	default:
		return fmt.Errorf("invalid routing provider: %s (must be 'osrm' or 'google')", c.Routing.Provider)
	}

	if c.Geocoding.UserAgent == "" {
		return fmt.Errorf("GEOCODING_USER_AGENT is required (Nominatim usage policy)")
	}

	return nil
}

// SpeechQueuePath returns the full path of the speech queue file
func (c *Config) SpeechQueuePath() string {
	return filepath.Join(c.Speech.StateDir, c.Speech.QueueFile)
}

// defaultStateDir resolves the XDG state directory for the speech queue
func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "navd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/navd"
	}
	return filepath.Join(home, ".local", "state", "navd")
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		// Bare numbers are treated as seconds
		if seconds, serr := strconv.Atoi(valueStr); serr == nil {
			return time.Duration(seconds) * time.Second
		}
		log.Printf("Invalid duration value for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

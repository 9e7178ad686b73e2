package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/campusgig/server/internal/matching"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string // Swagger host

	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey              string
	JWTAccessTokenExpireMin   int
	JWTRefreshTokenExpireDays int

	// Matching
	MatchRadiusKm         float64
	MaxActiveApplications int

	// Email (SMTP)
	EmailHost         string
	EmailPort         string
	EmailHostUser     string
	EmailHostPassword string
	DefaultFromEmail  string

	// Firebase
	FirebaseCredentialsPath string

	// OpenTelemetry
	OTLPEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL wins, otherwise assembled from parts
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin:   getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		JWTRefreshTokenExpireDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		// Matching - bootstrap defaults, overridable via the settings table
		MatchRadiusKm:         getEnvAsFloat("MATCH_RADIUS_KM", matching.DefaultRadiusKm),
		MaxActiveApplications: getEnvAsInt("MAX_ACTIVE_APPLICATIONS", 20),

		// Email
		EmailHost:         getEnv("EMAIL_HOST", ""),
		EmailPort:         getEnv("EMAIL_PORT", "587"),
		EmailHostUser:     getEnv("EMAIL_HOST_USER", ""),
		EmailHostPassword: getEnv("EMAIL_HOST_PASSWORD", ""),
		DefaultFromEmail:  getEnv("DEFAULT_FROM_EMAIL", ""),

		// Firebase
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		// OpenTelemetry
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "campusgig")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}

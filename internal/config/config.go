package config

import (
	"os"
	"strconv"

	"seabattle_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigin string

	// Rating engine policy: "elo" or "fixed". K <= 0 picks the policy
	// default (32 for elo, 25 for fixed).
	RatingPolicy string
	RatingK      int

	APIRateLimit   int
	APIRateWindow  int // seconds
	AuthRateLimit  int
	AuthRateWindow int // seconds

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (.env honored in dev).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	policy := os.Getenv("RATING_POLICY")
	if policy == "" {
		policy = "elo"
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		RatingPolicy: policy,
		RatingK:      envInt("RATING_K", 0),

		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  envInt("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envInt("AUTH_RATE_WINDOW_SECONDS", 60),

		LogLevel: os.Getenv("LOG_LEVEL"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

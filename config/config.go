package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverDisk = "disk"
	StorageDriverS3   = "s3"
)

// Config holds the application settings.
type Config struct {
	DatabaseURL    string
	JWTSecretKey   string
	JWTTTL         time.Duration
	ServerPort     int
	LogLevel       slog.Level
	MigrateOnStart bool

	StorageDriver     string
	UploadDir         string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string

	DefaultAvatar string

	CORSAllowedOrigins []string

	PhotoSweepSchedule string
	PhotoSweepGrace    time.Duration

	LoginRatePerMinute int
}

// Load reads the configuration from the environment.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := strconv.Atoi(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	jwtTTL, err := time.ParseDuration(getEnvOrDefault("JWT_TTL", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL environment variable: %w", err)
	}
	if jwtTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", jwtTTL)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	migrate, err := strconv.ParseBool(getEnvOrDefault("MIGRATE_ON_START", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIGRATE_ON_START environment variable: %w", err)
	}

	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageDriverDisk))
	if driver != StorageDriverDisk && driver != StorageDriverS3 {
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverDisk, StorageDriverS3, driver)
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		JWTSecretKey:   jwtKey,
		JWTTTL:         jwtTTL,
		ServerPort:     port,
		LogLevel:       level,
		MigrateOnStart: migrate,

		StorageDriver:     driver,
		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getEnvOrDefault("S3_REGION", "auto"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),

		DefaultAvatar:      getEnvOrDefault("DEFAULT_AVATAR", "default-avatar.png"),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		PhotoSweepSchedule: getEnvOrDefault("PHOTO_SWEEP_SCHEDULE", "@every 1h"),
	}

	if driver == StorageDriverS3 && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER is %q", StorageDriverS3)
	}

	cfg.PhotoSweepGrace, err = time.ParseDuration(getEnvOrDefault("PHOTO_SWEEP_GRACE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PHOTO_SWEEP_GRACE environment variable: %w", err)
	}

	cfg.LoginRatePerMinute, err = strconv.Atoi(getEnvOrDefault("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil || cfg.LoginRatePerMinute <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE_PER_MINUTE must be a positive integer")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

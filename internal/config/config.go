package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port          int    `json:"port"`
	Environment   string `json:"environment"`
	PublicBaseURL string `json:"public_base_url"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Redis configuration
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`

	// Collection names
	ProfileCollection          string `json:"mongo_profile_collection"`
	PitchCollection            string `json:"mongo_pitch_collection"`
	PitchRevisionCollection    string `json:"mongo_pitch_revision_collection"`
	DocumentRevisionCollection string `json:"mongo_document_revision_collection"`
	NotificationCollection     string `json:"mongo_notification_collection"`
	SettingsCollection         string `json:"mongo_settings_collection"`

	// Auth configuration
	JWTSecret     string        `json:"-"`
	AccessTTL     time.Duration `json:"access_ttl"`
	EmailTokenTTL time.Duration `json:"email_token_ttl"`

	// SMTP configuration
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"-"`
	FromEmail    string `json:"from_email"`

	// Cloudinary configuration
	CloudinaryCloudName string `json:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `json:"cloudinary_api_key"`
	CloudinaryAPISecret string `json:"-"`
	CloudinaryFolder    string `json:"cloudinary_folder"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`

	// Index maintenance
	IndexMaintenanceInterval time.Duration `json:"index_maintenance_interval"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	// .env is optional; in containerized deploys everything comes from the environment
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "60m"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	accessTTL, err := time.ParseDuration(getEnvOrDefault("JWT_ACCESS_TTL", "24h"))
	if err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_TTL: %w", err)
	}

	emailTokenTTL, err := time.ParseDuration(getEnvOrDefault("EMAIL_TOKEN_TTL", "30m"))
	if err != nil {
		return fmt.Errorf("invalid EMAIL_TOKEN_TTL: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	indexInterval, err := time.ParseDuration(getEnvOrDefault("INDEX_MAINTENANCE_INTERVAL", "6h"))
	if err != nil {
		return fmt.Errorf("invalid INDEX_MAINTENANCE_INTERVAL: %w", err)
	}

	AppConfig = &Config{
		// Server configuration
		Port:          port,
		Environment:   getEnvOrDefault("ENVIRONMENT", "development"),
		PublicBaseURL: getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "venturelink"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		// Collection names
		ProfileCollection:          getEnvOrDefault("MONGODB_PROFILE_COLLECTION", "profiles"),
		PitchCollection:            getEnvOrDefault("MONGODB_PITCH_COLLECTION", "pitches"),
		PitchRevisionCollection:    getEnvOrDefault("MONGODB_PITCH_REVISION_COLLECTION", "pitch_revisions"),
		DocumentRevisionCollection: getEnvOrDefault("MONGODB_DOCUMENT_REVISION_COLLECTION", "document_revisions"),
		NotificationCollection:     getEnvOrDefault("MONGODB_NOTIFICATION_COLLECTION", "notifications"),
		SettingsCollection:         getEnvOrDefault("MONGODB_SETTINGS_COLLECTION", "platform_settings"),

		// Auth configuration
		JWTSecret:     jwtSecret,
		AccessTTL:     accessTTL,
		EmailTokenTTL: emailTokenTTL,

		// SMTP configuration
		SMTPHost:     getEnvOrDefault("SMTP_HOST", "localhost"),
		SMTPPort:     smtpPort,
		SMTPUser:     getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASSWORD", ""),
		FromEmail:    getEnvOrDefault("FROM_EMAIL", "no-reply@venturelink.app"),

		// Cloudinary configuration
		CloudinaryCloudName: getEnvOrDefault("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnvOrDefault("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnvOrDefault("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnvOrDefault("CLOUDINARY_FOLDER", "venturelink"),

		// Tracing configuration
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),

		// Index maintenance
		IndexMaintenanceInterval: indexInterval,
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

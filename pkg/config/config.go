package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig      `envconfig:"SERVER"`
	Database    DatabaseConfig    `envconfig:"DB"`
	Redis       RedisConfig       `envconfig:"REDIS"`
	Storage     StorageConfig     `envconfig:"STORAGE"`
	Events      EventsConfig      `envconfig:"EVENTS"`
	Gemini      GeminiConfig      `envconfig:"GEMINI"`
	Coach       CoachConfig       `envconfig:"COACH"`
	Persistence PersistenceConfig `envconfig:"PERSISTENCE"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"HOST" default:"localhost"`
	Port        string `envconfig:"PORT" default:"5432"`
	User        string `envconfig:"USER" default:"postgres"`
	Password    string `envconfig:"PASSWORD" default:"postgres"`
	Name        string `envconfig:"NAME" default:"meeting_coach"`
	SSLMode     string `envconfig:"SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

// StorageConfig holds object storage configuration used to archive summaries
type StorageConfig struct {
	Enabled         bool   `envconfig:"ENABLED" default:"false"`
	Endpoint        string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"BUCKET" default:"meeting-coach"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
}

// EventsConfig holds coaching event fan-out configuration
type EventsConfig struct {
	Backend       string `envconfig:"BACKEND" default:"none"` // "none", "redis" or "nats"
	NATSURL       string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	ChannelPrefix string `envconfig:"CHANNEL_PREFIX" default:"meeting_coach"`
}

// GeminiConfig holds the live agent configuration
type GeminiConfig struct {
	APIKey            string        `envconfig:"API_KEY"`
	Model             string        `envconfig:"MODEL" default:"gemini-live-2.5-flash-preview"`
	Voice             string        `envconfig:"VOICE" default:"Aoede"`
	Temperature       float32       `envconfig:"TEMPERATURE" default:"0.7"`
	UseMock           bool          `envconfig:"USE_MOCK" default:"false"`
	ConnectMaxElapsed time.Duration `envconfig:"CONNECT_MAX_ELAPSED" default:"20s"`
}

// CoachConfig holds per-meeting coaching defaults and transport limits
type CoachConfig struct {
	DefaultUserName        string        `envconfig:"DEFAULT_USER_NAME" default:"User"`
	DefaultDurationMinutes int           `envconfig:"DEFAULT_DURATION_MINUTES" default:"30"`
	StateUpdateInterval    time.Duration `envconfig:"STATE_UPDATE_INTERVAL" default:"2s"`
	MaxFrameBytes          int64         `envconfig:"MAX_FRAME_BYTES" default:"4194304"`
	WriteTimeout           time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s"`
	PingInterval           time.Duration `envconfig:"PING_INTERVAL" default:"20s"`
	PersistTimeout         time.Duration `envconfig:"PERSIST_TIMEOUT" default:"10s"`
}

// PersistenceConfig selects the meeting history backend
type PersistenceConfig struct {
	Backend string `envconfig:"BACKEND" default:"postgres"` // "postgres" or "memory"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.Gemini.UseMock && c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required unless GEMINI_USE_MOCK=true")
	}
	if c.Coach.DefaultDurationMinutes <= 0 {
		return fmt.Errorf("COACH_DEFAULT_DURATION_MINUTES must be positive")
	}
	switch strings.ToLower(c.Events.Backend) {
	case "none", "redis", "nats":
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of none, redis, nats")
	}
	switch strings.ToLower(c.Persistence.Backend) {
	case "postgres", "memory":
	default:
		return fmt.Errorf("PERSISTENCE_BACKEND must be one of postgres, memory")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

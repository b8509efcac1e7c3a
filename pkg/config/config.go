package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Upload     UploadConfig
	FFmpeg     FFmpegConfig
	AssemblyAI AssemblyAIConfig
	OpenAI     OpenAIConfig
	Groq       GroqConfig
	Pipeline   PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	UseSSL          bool
}

// UploadConfig holds local upload directory configuration
type UploadConfig struct {
	Dir         string
	MaxSizeMB   int64
	ServeLocal  bool
	LocalURLFmt string
}

// FFmpegConfig holds transcoding tool configuration
type FFmpegConfig struct {
	BinaryPath   string // explicit path, takes precedence over PATH lookup
	FallbackPath string // vendored binary location tried last
}

// AssemblyAIConfig holds AssemblyAI provider configuration.
// An empty APIKey means the provider is not configured and is skipped
// by the transcription chain.
type AssemblyAIConfig struct {
	APIKey       string
	PollInterval time.Duration
}

// OpenAIConfig holds OpenAI Whisper provider configuration
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	MaxPayloadMB   int64
	RequestTimeout time.Duration
}

// GroqConfig holds Groq summarization configuration
type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// PipelineConfig holds pipeline worker configuration
type PipelineConfig struct {
	WorkerCount int
	QueueSize   int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meetscribe"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meeting-videos"),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Upload: UploadConfig{
			Dir:         getEnv("UPLOAD_DIR", "./uploads"),
			MaxSizeMB:   int64(getEnvAsInt("UPLOAD_MAX_SIZE_MB", 500)),
			ServeLocal:  getEnvAsBool("UPLOAD_SERVE_LOCAL", true),
			LocalURLFmt: getEnv("UPLOAD_LOCAL_URL_FMT", "http://localhost:8080/uploads/%s"),
		},
		FFmpeg: FFmpegConfig{
			BinaryPath:   getEnv("FFMPEG_PATH", ""),
			FallbackPath: getEnv("FFMPEG_FALLBACK_PATH", "./bin/ffmpeg"),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey:       getEnv("ASSEMBLYAI_API_KEY", ""),
			PollInterval: getEnvAsDuration("ASSEMBLYAI_POLL_INTERVAL", "5s"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_API_URL", "https://api.openai.com"),
			MaxPayloadMB:   int64(getEnvAsInt("OPENAI_MAX_PAYLOAD_MB", 25)),
			RequestTimeout: getEnvAsDuration("OPENAI_REQUEST_TIMEOUT", "5m"),
		},
		Groq: GroqConfig{
			APIKey:  getEnv("GROQ_API_KEY", ""),
			BaseURL: getEnv("GROQ_API_URL", "https://api.groq.com"),
			Model:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		},
		Pipeline: PipelineConfig{
			WorkerCount: getEnvAsInt("PIPELINE_WORKERS", 2),
			QueueSize:   getEnvAsInt("PIPELINE_QUEUE_SIZE", 64),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.AssemblyAI.APIKey == "" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("at least one transcription provider key is required (ASSEMBLYAI_API_KEY or OPENAI_API_KEY)")
	}
	if c.Pipeline.WorkerCount < 1 {
		return fmt.Errorf("PIPELINE_WORKERS must be at least 1")
	}
	return nil
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

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

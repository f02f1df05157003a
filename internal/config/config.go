package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Sources  SourcesConfig
	Pipeline PipelineConfig
	Storage  StorageConfig
	LogMode  string
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// GeminiConfig has no temperature: each task sets its own in the task table.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// SourcesConfig holds credentials for the upstream candidate providers.
// An empty key means the provider is unconfigured and serves fallback data.
// GitHubToken is the exception: without it GitHub search runs unauthenticated.
type SourcesConfig struct {
	RapidAPIKey    string
	CourseraAPIKey string
	YouTubeAPIKey  string
	GitHubToken    string
}

type PipelineConfig struct {
	GenerationTimeout time.Duration
	UpstreamTimeout   time.Duration
	CorrelationMode   string
}

type StorageConfig struct {
	MaxUploadSize int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "skillpilot"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Sources: SourcesConfig{
			RapidAPIKey:    getEnv("RAPID_API_KEY", ""),
			CourseraAPIKey: getEnv("COURSERA_API_KEY", ""),
			YouTubeAPIKey:  getEnv("YOUTUBE_API_KEY", ""),
			GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		},
		Pipeline: PipelineConfig{
			GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", "60s"),
			UpstreamTimeout:   getEnvAsDuration("UPSTREAM_TIMEOUT", "15s"),
			CorrelationMode:   strings.ToLower(getEnv("CORRELATION_MODE", "identifier")),
		},
		Storage: StorageConfig{
			MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 10485760),
		},
		LogMode: getEnv("LOG_MODE", "development"),
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
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
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

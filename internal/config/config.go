package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Generator providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Twilio    TwilioConfig
	Telegram  TelegramConfig
	Generator GeneratorConfig
	Storage   StorageConfig
	Deploy    DeployConfig
	// ScratchDir is the base directory for per-user packaging workspaces
	ScratchDir string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// TwilioConfig holds WhatsApp sending credentials
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TelegramConfig holds the optional Telegram channel settings.
// The Telegram bridge is only started when a token is present.
type TelegramConfig struct {
	Token string
}

// GeneratorConfig selects and configures the code generation backend
type GeneratorConfig struct {
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string
	Timeout      time.Duration
}

// StorageConfig holds object storage settings for archive uploads
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// DeployConfig holds the static-hosting deploy trigger settings
type DeployConfig struct {
	BaseURL string
	Token   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	timeoutSec, err := strconv.Atoi(getEnv("GENERATOR_TIMEOUT_SECONDS", "90"))
	if err != nil || timeoutSec <= 0 {
		return nil, fmt.Errorf("GENERATOR_TIMEOUT_SECONDS must be a positive integer")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "siteship"),
			User:     getEnv("DB_USER", "siteship"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_WHATSAPP_FROM"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Generator: GeneratorConfig{
			Provider:     getEnv("GENERATOR_PROVIDER", ProviderGemini),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			Model:        getEnv("GENERATOR_MODEL", "gemini-2.5-pro"),
			Timeout:      time.Duration(timeoutSec) * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:    getEnv("STORAGE_BUCKET", "projects"),
			UseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
		},
		Deploy: DeployConfig{
			BaseURL: os.Getenv("DEPLOY_BASE_URL"),
			Token:   os.Getenv("DEPLOY_TOKEN"),
		},
		ScratchDir: getEnv("SCRATCH_DIR", "./tmp"),
	}

	// Validate required fields
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Twilio.AccountSID == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID is required")
	}
	if cfg.Twilio.AuthToken == "" {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN is required")
	}
	if cfg.Twilio.FromNumber == "" {
		return nil, fmt.Errorf("TWILIO_WHATSAPP_FROM is required")
	}
	if cfg.Storage.Endpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" {
		return nil, fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}
	if cfg.Deploy.BaseURL == "" {
		return nil, fmt.Errorf("DEPLOY_BASE_URL is required")
	}

	switch cfg.Generator.Provider {
	case ProviderGemini:
		if cfg.Generator.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenAI:
		if cfg.Generator.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return nil, fmt.Errorf("unknown GENERATOR_PROVIDER %q", cfg.Generator.Provider)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

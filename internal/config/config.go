// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iyunix/go-easyemail/internal/services/ai"
)

type Config struct {
	ServerPort  string
	Environment string

	// Database
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	JWTSecretKey  string
	EncryptionKey string

	// Language model providers
	DefaultAI      string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	WorkersAIURL   string
	WorkersAIKey   string
	WorkersAIModel string
	AITimeout      time.Duration
	AITemperature  float32

	// Mail providers
	GoogleClientID        string
	GoogleClientSecret    string
	MicrosoftClientID     string
	MicrosoftClientSecret string
	MicrosoftTenant       string
	EmailWatermark        bool
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Environment:  env,
		DatabaseType: strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DatabasePath: getEnv("DATABASE_PATH", "easy_email.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		JWTSecretKey:  getEnv("JWT_SECRET_KEY", ""),
		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		DefaultAI:      getEnv("DEFAULT_AI", "workersai"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		WorkersAIURL:   getEnv("WORKERS_AI_URL", ""),
		WorkersAIKey:   getEnv("WORKERS_AI_KEY", ""),
		WorkersAIModel: getEnv("WORKERS_AI_MODEL", "@cf/meta/llama-3.1-8b-instruct"),
		AITimeout:      time.Duration(getEnvAsInt("AI_TIMEOUT_SECONDS", 45)) * time.Second,
		AITemperature:  getEnvAsFloat32("AI_TEMPERATURE", 0.6),

		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		MicrosoftClientID:     getEnv("MICROSOFT_CLIENT_ID", ""),
		MicrosoftClientSecret: getEnv("MICROSOFT_CLIENT_SECRET", ""),
		MicrosoftTenant:       getEnv("MICROSOFT_TENANT", "common"),
		EmailWatermark:        getEnvAsBool("EMAIL_WATERMARK", true),
	}

	// Validation for production environments
	if cfg.IsProduction() {
		if missing := cfg.MissingProductionKeys(); len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// IsProduction reports whether ENV is set to production.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// MissingProductionKeys lists the variables a production deployment cannot run without.
func (c *Config) MissingProductionKeys() []string {
	missing := []string{}
	if c.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if c.EncryptionKey == "" {
		missing = append(missing, "ENCRYPTION_KEY")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.OpenAIAPIKey == "" && c.WorkersAIURL == "" {
		missing = append(missing, "OPENAI_API_KEY or WORKERS_AI_URL")
	}
	return missing
}

// AI maps the model provider settings onto the gateway configuration.
func (c *Config) AI() *ai.Config {
	aiConfig := ai.DefaultConfig()
	aiConfig.DefaultProvider = c.DefaultAI
	aiConfig.OpenAIKey = c.OpenAIAPIKey
	aiConfig.OpenAIBaseURL = c.OpenAIBaseURL
	aiConfig.OpenAIModel = c.OpenAIModel
	aiConfig.WorkersURL = c.WorkersAIURL
	aiConfig.WorkersKey = c.WorkersAIKey
	aiConfig.WorkersModel = c.WorkersAIModel
	aiConfig.Timeout = c.AITimeout
	aiConfig.Temperature = c.AITemperature
	return aiConfig
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strValue, 32)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as float. Using default value.", key)
		return defaultValue
	}
	return float32(f)
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as bool. Using default value.", key)
		return defaultValue
	}
	return b
}

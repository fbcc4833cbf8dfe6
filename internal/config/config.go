package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kapu/astroweb-go/internal/constants"
)

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Unsplash   UnsplashConfig
	Generation GenerationConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Addr string
	// PublicBaseURL prefixes share links; empty yields relative links.
	PublicBaseURL string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	EnsureSchema bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also covers OpenRouter and other chat-completions compatible hosts.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EnableFallback bool
}

type UnsplashConfig struct {
	AccessKey string
}

type GenerationConfig struct {
	EnableLogo      bool
	LogoModel       string
	EnableHeroImage bool
	StartingCredits int64
}

type LoggingConfig struct {
	Level string
	File  string
	JSON  bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:          getEnv("HTTP_ADDR", ":8080"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:         getEnv("POSTGRES_HOST", "localhost"),
			Port:         getEnvInt("POSTGRES_PORT", 5432),
			User:         getEnv("POSTGRES_USER", "astroweb"),
			Password:     getEnv("POSTGRES_PASSWORD", ""),
			Database:     getEnv("POSTGRES_DB", "astroweb"),
			SSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
			EnsureSchema: getEnvBool("POSTGRES_ENSURE_SCHEMA", true),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", ""),
		},
		OpenAI:   loadOpenAI(),
		Unsplash: UnsplashConfig{
			AccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
		},
		Generation: GenerationConfig{
			EnableLogo:      getEnvBool("GENERATE_LOGO", true),
			LogoModel:       getEnv("LOGO_MODEL", ""),
			EnableHeroImage: getEnvBool("GENERATE_HERO_IMAGE", true),
			StartingCredits: int64(getEnvInt("STARTING_CREDITS", int(constants.AllowanceConfig.StartingCredits))),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
			JSON:  getEnvBool("LOG_JSON", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadOpenAI falls back to OPENROUTER_API_KEY with the OpenRouter endpoint.
func loadOpenAI() OpenAIConfig {
	cfg := OpenAIConfig{
		APIKey:         getEnv("OPENAI_API_KEY", ""),
		BaseURL:        getEnv("OPENAI_BASE_URL", ""),
		Model:          getEnv("OPENAI_MODEL", ""),
		EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
	}
	if cfg.APIKey == "" {
		if key := getEnv("OPENROUTER_API_KEY", ""); key != "" {
			cfg.APIKey = key
			if cfg.BaseURL == "" {
				cfg.BaseURL = constants.APIConfig.OpenRouterURL
			}
			if cfg.Model == "" {
				cfg.Model = "openai/gpt-4o-mini"
			}
		}
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Gemini.APIKey == "" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY, OPENAI_API_KEY or OPENROUTER_API_KEY is required")
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("REDIS_PORT out of range: %d", c.Redis.Port)
	}
	if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
		return fmt.Errorf("POSTGRES_PORT out of range: %d", c.Postgres.Port)
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	if c.Generation.StartingCredits < 0 {
		return fmt.Errorf("STARTING_CREDITS must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

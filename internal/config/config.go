package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Gemini  GeminiConfig
	OpenAI  OpenAIConfig
	Image   ImageConfig
	History HistoryConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	StaticDir    string        `envconfig:"SERVER_STATIC_DIR" default:"web/static"`
}

type LLMConfig struct {
	// Provider selects the model backend: "gemini" or "openai"
	Provider string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	Timeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"90s"`
}

type GeminiConfig struct {
	APIKey        string `envconfig:"GEMINI_API_KEY"`
	Model         string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-pro"`
	FallbackModel string `envconfig:"GEMINI_FALLBACK_MODEL" default:"gemini-1.5-flash"`
}

type OpenAIConfig struct {
	Provider       string `envconfig:"OPENAI_PROVIDER" default:"openai"`
	APIKey         string `envconfig:"OPENAI_API_KEY"`
	APIEndpoint    string `envconfig:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1"`
	Model          string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	DeploymentName string `envconfig:"OPENAI_DEPLOYMENT" default:"gpt-4o"`
	APIVersion     string `envconfig:"OPENAI_API_VERSION" default:"2023-05-15"`
}

type ImageConfig struct {
	// MaxSize is the request guard limit in bytes
	MaxSize int64 `envconfig:"MAX_IMAGE_SIZE" default:"10485760"`

	// MaxDimension is the downscale target before the model call
	MaxDimension int `envconfig:"MAX_IMAGE_DIMENSION" default:"1024"`
}

type HistoryConfig struct {
	Path string `envconfig:"HISTORY_DB_PATH" default:"data/history.db"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateCredentials(); err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully", "provider", cfg.LLM.Provider)
	return &cfg, nil
}

// validateCredentials requires an API key for the selected provider. There is
// deliberately no built-in fallback key.
func (c *Config) validateCredentials() error {
	switch c.LLM.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return errors.New("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return errors.New("LLM_PROVIDER must be \"gemini\" or \"openai\"")
	}
	return nil
}

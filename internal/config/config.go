package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds every runtime setting the application needs. Values are read
// from app.env in the given path, with environment variables taking
// precedence so deployments can override the file.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	AWSRegion      string `mapstructure:"AWS_REGION"`
	EmailFrom      string `mapstructure:"EMAIL_FROM"`
	UploadsBucket  string `mapstructure:"UPLOADS_BUCKET"`
	UploadsBaseURL string `mapstructure:"UPLOADS_BASE_URL"`

	LLMGatewayURL string `mapstructure:"LLM_GATEWAY_URL"`
	LLMAPIKey     string `mapstructure:"LLM_API_KEY"`
	LLMModel      string `mapstructure:"LLM_MODEL"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
}

// LoadConfig reads configuration from app.env (if present) and the process
// environment.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("LLM_MODEL", "gpt-4o-mini")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from the env.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

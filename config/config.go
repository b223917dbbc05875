package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	LogLevel        string
	Provider        string
	OperatorAccount string
	NovaAPIKey      string
	NovaBaseURL     string
	AWSRegion       string
	S3Bucket        string
	PollInterval    time.Duration

	ProxyPort          string
	ProxyUpstream      string
	ProxyAllowedOrigin string
}

var defaults = map[string]any{
	"PORT":                  "3001",
	"LOG_LEVEL":             "info",
	"PROVIDER":              "memory",
	"POOL_OPERATOR_ACCOUNT": "mintug.nova-sdk-6.testnet",
	"NOVA_API_KEY":          "",
	"NOVA_BASE_URL":         "https://nova-sdk.com",
	"AWS_REGION":            "us-east-1",
	"S3_BUCKET_NAME":        "",
	"POLL_INTERVAL":         "5s",
	"PROXY_PORT":            "8787",
	"PROXY_UPSTREAM":        "nova-sdk.com",
	"PROXY_ALLOWED_ORIGIN":  "https://mintug.near.page",
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory when one exists.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	_ = godotenv.Load()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := Config{
		Port:               v.GetString("PORT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Provider:           v.GetString("PROVIDER"),
		OperatorAccount:    v.GetString("POOL_OPERATOR_ACCOUNT"),
		NovaAPIKey:         v.GetString("NOVA_API_KEY"),
		NovaBaseURL:        v.GetString("NOVA_BASE_URL"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET_NAME"),
		PollInterval:       v.GetDuration("POLL_INTERVAL"),
		ProxyPort:          v.GetString("PROXY_PORT"),
		ProxyUpstream:      v.GetString("PROXY_UPSTREAM"),
		ProxyAllowedOrigin: v.GetString("PROXY_ALLOWED_ORIGIN"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.Provider == "dynamo" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET_NAME is required for the dynamo provider")
	}
	return nil
}

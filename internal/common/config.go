package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	DocAI    DocAIConfig
	WhatsApp WhatsAppConfig
	Extract  ExtractConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig holds the sqlite store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DocAIConfig holds the Document AI processor configuration
type DocAIConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	ProcessorID string        `mapstructure:"processor_id"` // full resource name projects/.../processors/...
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// WhatsAppConfig holds the Cloud API client configuration
type WhatsAppConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	AccessToken   string `mapstructure:"access_token"`
	PhoneNumberID string `mapstructure:"phone_number_id"`
	VerifyToken   string `mapstructure:"verify_token"`
}

// ExtractConfig holds thresholds for the extraction pipeline
type ExtractConfig struct {
	MinConfidence float32 `mapstructure:"min_confidence"`
}

// LoadConfig loads configuration from environment variables (RECEIPTD_ prefix)
// and an optional yaml config file.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/receiptd/")

	v.SetEnvPrefix("RECEIPTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// config file not found; env vars and defaults only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.environment", "development")

	v.SetDefault("database.path", "./receipts.db")

	v.SetDefault("docai.endpoint", "https://us-documentai.googleapis.com/v1")
	v.SetDefault("docai.processor_id", "")
	v.SetDefault("docai.access_token", "")
	v.SetDefault("docai.timeout", "45s")

	v.SetDefault("whatsapp.base_url", "https://graph.facebook.com/v19.0")
	v.SetDefault("whatsapp.access_token", "")
	v.SetDefault("whatsapp.phone_number_id", "")
	v.SetDefault("whatsapp.verify_token", "")

	v.SetDefault("extract.min_confidence", 0.60)
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "server addr is required", ErrInvalidInput)
	}
	if c.DocAI.ProcessorID == "" {
		return NewAppError("CONFIG_ERROR", "RECEIPTD_DOCAI_PROCESSOR_ID is required", ErrInvalidInput)
	}
	if c.DocAI.AccessToken == "" {
		return NewAppError("CONFIG_ERROR", "RECEIPTD_DOCAI_ACCESS_TOKEN is required", ErrInvalidInput)
	}
	if c.WhatsApp.VerifyToken == "" {
		return NewAppError("CONFIG_ERROR", "RECEIPTD_WHATSAPP_VERIFY_TOKEN is required", ErrInvalidInput)
	}
	return nil
}

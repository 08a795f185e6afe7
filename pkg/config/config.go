package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"chatsafety-server/pkg/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `json:"logging"`
	HTTP      HTTPConfig      `json:"http"`
	Detection DetectionConfig `json:"detection"`
	Lexicon   LexiconConfig   `json:"lexicon"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Messaging MessagingConfig `json:"messaging"`
	Database  DatabaseConfig  `json:"database"`
	Alerting  AlertingConfig  `json:"alerting"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `json:"format" env:"LOG_FORMAT" default:"json"`
}

// HTTPConfig holds the HTTP server configuration
type HTTPConfig struct {
	Enabled       bool          `json:"enabled" env:"HTTP_ENABLED" default:"true"`
	Port          int           `json:"port" env:"HTTP_PORT" default:"8085"`
	ReadTimeout   time.Duration `json:"read_timeout" env:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout  time.Duration `json:"write_timeout" env:"HTTP_WRITE_TIMEOUT" default:"30s"`
	EnableMetrics bool          `json:"enable_metrics" env:"HTTP_ENABLE_METRICS" default:"true"`
}

// DetectionConfig holds match engine and pipeline thresholds
type DetectionConfig struct {
	ConfidenceThreshold float64 `json:"confidence_threshold" env:"DETECTION_CONFIDENCE_THRESHOLD" default:"0.5"`
	MaxEditDistance     int     `json:"max_edit_distance" env:"DETECTION_MAX_EDIT_DISTANCE" default:"2"`
	MaxLengthDelta      int     `json:"max_length_delta" env:"DETECTION_MAX_LENGTH_DELTA" default:"3"`
}

// LexiconConfig holds lexicon store configuration
type LexiconConfig struct {
	SupportedLanguages []string `json:"supported_languages" env:"LEXICON_SUPPORTED_LANGUAGES" default:"en,es,fr,de,pt"`
	DefaultLanguage    string   `json:"default_language" env:"LEXICON_DEFAULT_LANGUAGE" default:"en"`
}

// SchedulerConfig holds disclaimer scheduler configuration
type SchedulerConfig struct {
	Cooldown time.Duration `json:"cooldown" env:"DISCLAIMER_COOLDOWN" default:"1h"`
}

// MessagingConfig holds AMQP configuration; publishing is disabled when URL is empty
type MessagingConfig struct {
	AMQPUrl      string `json:"amqp_url" env:"AMQP_URL"`
	QueueName    string `json:"queue_name" env:"AMQP_QUEUE_NAME" default:"chatsafety_detections"`
	ExchangeName string `json:"exchange_name" env:"AMQP_EXCHANGE_NAME"`
	RoutingKey   string `json:"routing_key" env:"AMQP_ROUTING_KEY"`
}

// Enabled reports whether AMQP publishing is configured
func (m MessagingConfig) Enabled() bool {
	return m.AMQPUrl != ""
}

// DatabaseConfig holds lexicon persistence configuration; the built-in seed
// lexicon is used when disabled
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled" env:"DB_ENABLED" default:"false"`
	Host     string `json:"host" env:"DB_HOST" default:"localhost"`
	Port     int    `json:"port" env:"DB_PORT" default:"3306"`
	Name     string `json:"name" env:"DB_NAME" default:"chatsafety"`
	Username string `json:"username" env:"DB_USERNAME" default:"chatsafety"`
	Password string `json:"password" env:"DB_PASSWORD"`
}

// AlertingConfig holds notification surface configuration
type AlertingConfig struct {
	WebhookURL string `json:"webhook_url" env:"ALERT_WEBHOOK_URL"`
}

// Load builds the configuration from .env files and environment variables
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env file")
	} else {
		logger.Debug("No .env file found, using environment variables only")
	}

	config := &Config{
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		HTTP: HTTPConfig{
			Enabled:       getEnvBool("HTTP_ENABLED", true),
			Port:          getEnvInt("HTTP_PORT", 8085),
			ReadTimeout:   getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			EnableMetrics: getEnvBool("HTTP_ENABLE_METRICS", true),
		},
		Detection: DetectionConfig{
			ConfidenceThreshold: getEnvFloat("DETECTION_CONFIDENCE_THRESHOLD", 0.5),
			MaxEditDistance:     getEnvInt("DETECTION_MAX_EDIT_DISTANCE", 2),
			MaxLengthDelta:      getEnvInt("DETECTION_MAX_LENGTH_DELTA", 3),
		},
		Lexicon: LexiconConfig{
			SupportedLanguages: getEnvList("LEXICON_SUPPORTED_LANGUAGES", []string{"en", "es", "fr", "de", "pt"}),
			DefaultLanguage:    getEnv("LEXICON_DEFAULT_LANGUAGE", "en"),
		},
		Scheduler: SchedulerConfig{
			Cooldown: getEnvDuration("DISCLAIMER_COOLDOWN", time.Hour),
		},
		Messaging: MessagingConfig{
			AMQPUrl:      getEnv("AMQP_URL", ""),
			QueueName:    getEnv("AMQP_QUEUE_NAME", "chatsafety_detections"),
			ExchangeName: getEnv("AMQP_EXCHANGE_NAME", ""),
			RoutingKey:   getEnv("AMQP_ROUTING_KEY", ""),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 3306),
			Name:     getEnv("DB_NAME", "chatsafety"),
			Username: getEnv("DB_USERNAME", "chatsafety"),
			Password: getEnv("DB_PASSWORD", ""),
		},
		Alerting: AlertingConfig{
			WebhookURL: getEnv("ALERT_WEBHOOK_URL", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate rejects configurations that cannot work
func (c *Config) validate() error {
	if c.Detection.ConfidenceThreshold <= 0 || c.Detection.ConfidenceThreshold >= 1 {
		return errors.NewInvalidInput("DETECTION_CONFIDENCE_THRESHOLD must be in (0, 1)", map[string]interface{}{
			"value": c.Detection.ConfidenceThreshold,
		})
	}

	if c.Detection.MaxEditDistance < 0 {
		return errors.NewInvalidInput("DETECTION_MAX_EDIT_DISTANCE must not be negative")
	}

	if c.Detection.MaxLengthDelta < 0 {
		return errors.NewInvalidInput("DETECTION_MAX_LENGTH_DELTA must not be negative")
	}

	if c.Scheduler.Cooldown <= 0 {
		return errors.NewInvalidInput("DISCLAIMER_COOLDOWN must be positive")
	}

	if c.HTTP.Enabled && (c.HTTP.Port < 1 || c.HTTP.Port > 65535) {
		return errors.NewInvalidInput("HTTP_PORT out of range", map[string]interface{}{
			"port": c.HTTP.Port,
		})
	}

	if len(c.Lexicon.SupportedLanguages) == 0 {
		return errors.NewInvalidInput("LEXICON_SUPPORTED_LANGUAGES must not be empty")
	}

	return nil
}

// Helper function to get an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Helper function to get a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(value) {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	default:
		return defaultValue
	}
}

// Helper function to get an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// Helper function to get a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getEnvFloat retrieves an environment variable and converts it to float64
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatValue
}

// getEnvList retrieves a comma-separated environment variable as a slice
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return defaultValue
	}
	return out
}

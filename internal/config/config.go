package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Auth       AuthConfig       `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	PDF        PDFConfig        `mapstructure:"pdf"`
	Signature  SignatureConfig  `mapstructure:"signature"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address   string          `mapstructure:"address" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles document generation per user
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type AuthConfig struct {
	Provider types.AuthProvider `mapstructure:"provider" validate:"required,oneof=local supabase"`
	Secret   string             `mapstructure:"secret" validate:"required"`
	TokenTTL time.Duration      `mapstructure:"token_ttl"`
	Supabase SupabaseConfig     `mapstructure:"supabase"`
}

type SupabaseConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ServiceKey string `mapstructure:"service_key"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
}

// StorageConfig points at the bucket that holds templates and generated documents
type StorageConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	Region                string `mapstructure:"region"`
	Bucket                string `mapstructure:"bucket"`
	Endpoint              string `mapstructure:"endpoint"`
	PublicBaseURL         string `mapstructure:"public_base_url"`
	UsePathStyle          bool   `mapstructure:"use_path_style"`
	PresignExpiryDuration string `mapstructure:"presign_expiry_duration"`
	DocumentPrefix        string `mapstructure:"document_prefix"`
	TemplatePrefix        string `mapstructure:"template_prefix"`
}

type CacheConfig struct {
	Enabled bool               `mapstructure:"enabled"`
	Backend types.CacheBackend `mapstructure:"backend"`
	TTL     time.Duration      `mapstructure:"ttl"`
	Redis   RedisConfig        `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// HTTPClientConfig configures outbound fetches. RetryMax stays 0 unless an
// operator opts in, user actions are never retried behind their back.
type HTTPClientConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max" validate:"min=0,max=10"`
}

// PDFConfig tunes field rendering. Fields are drawn in the embedded UTF-8
// font; FontSize overrides the per-layout size when set.
type PDFConfig struct {
	FontSize float64 `mapstructure:"font_size"`
}

type SignatureConfig struct {
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	LineWidth float64 `mapstructure:"line_width"`
	Color     string  `mapstructure:"color"`
}

// TemplatesConfig holds fallback template URLs keyed by document type, used
// until a template of that type has been uploaded.
type TemplatesConfig struct {
	Fallback map[string]string `mapstructure:"fallback"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/brokerdesk")

	v.SetEnvPrefix("BROKERDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		fmt.Println("No config file found, using defaults and environment")
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that are
// absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.requests_per_second", 1)
	v.SetDefault("server.rate_limit.burst", 5)
	v.SetDefault("auth.provider", types.AuthProviderLocal)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)
	v.SetDefault("auth.supabase.base_url", "")
	v.SetDefault("auth.supabase.service_key", "")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "brokerdesk")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "brokerdesk")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.connect_timeout", 30*time.Second)
	v.SetDefault("postgres.auto_migrate", false)
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.region", "eu-central-1")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.presign_expiry_duration", "30m")
	v.SetDefault("storage.document_prefix", "documents")
	v.SetDefault("storage.template_prefix", "templates")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", types.CacheBackendMemory)
	v.SetDefault("cache.ttl", 30*time.Minute)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 0.1)
	v.SetDefault("http_client.timeout", 30*time.Second)
	v.SetDefault("http_client.retry_max", 0)
	v.SetDefault("pdf.font_size", 10)
	v.SetDefault("signature.width", 600)
	v.SetDefault("signature.height", 200)
	v.SetDefault("signature.line_width", 2.5)
	v.SetDefault("signature.color", "#1a1a2e")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		HTTPClient: HTTPClientConfig{Timeout: 30 * time.Second},
		PDF:        PDFConfig{FontSize: 10},
		Signature:  SignatureConfig{Width: 600, Height: 200, LineWidth: 2.5, Color: "#1a1a2e"},
		Cache:      CacheConfig{Enabled: true, Backend: types.CacheBackendMemory, TTL: 30 * time.Minute},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// GetURL returns the connection string in URL form, as golang-migrate expects
func (c PostgresConfig) GetURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// GetTemplateFallback returns the configured fallback URL for a document type
func (c TemplatesConfig) GetTemplateFallback(docType types.DocumentType) string {
	if c.Fallback == nil {
		return ""
	}
	return c.Fallback[string(docType)]
}

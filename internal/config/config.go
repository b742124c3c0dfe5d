package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	OCR    OCRConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for captured photo storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OCRProviderConfig holds settings for a single OCR provider.
type OCRProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	Language    string `mapstructure:"language"`
	MaxRetries  int    `mapstructure:"max_retries"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Configured reports whether the provider has enough settings to be wired.
func (p *OCRProviderConfig) Configured() bool {
	return p.Provider != ""
}

// OCRConfig holds OCR recognizer settings. Primary is the cloud,
// layout-capable provider; Local is the on-device fallback.
type OCRConfig struct {
	Primary     OCRProviderConfig `mapstructure:"primary"`
	Local       OCRProviderConfig `mapstructure:"local"`
	MaxImageDim int               `mapstructure:"max_image_dim"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the PHARMATALLY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PHARMATALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "pharmatally")
	v.SetDefault("db.password", "pharmatally_secret")
	v.SetDefault("db.name", "pharmatally_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "pharmatally-scans")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// OCR defaults: azure cloud primary, tesseract local fallback
	v.SetDefault("ocr.primary.provider", "azure")
	v.SetDefault("ocr.primary.endpoint", "")
	v.SetDefault("ocr.primary.api_key", "")
	v.SetDefault("ocr.primary.language", "tr")
	v.SetDefault("ocr.primary.max_retries", 3)
	v.SetDefault("ocr.primary.timeout_secs", 30)
	v.SetDefault("ocr.local.provider", "tesseract")
	v.SetDefault("ocr.local.endpoint", "")
	v.SetDefault("ocr.local.api_key", "")
	v.SetDefault("ocr.local.language", "tur")
	v.SetDefault("ocr.local.max_retries", 1)
	v.SetDefault("ocr.local.timeout_secs", 60)
	v.SetDefault("ocr.max_image_dim", 2048)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "PHARMATALLY_SERVER_PORT",
		"server.read_timeout":      "PHARMATALLY_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "PHARMATALLY_SERVER_WRITE_TIMEOUT",
		"server.environment":       "PHARMATALLY_SERVER_ENVIRONMENT",
		"db.host":                  "PHARMATALLY_DB_HOST",
		"db.port":                  "PHARMATALLY_DB_PORT",
		"db.user":                  "PHARMATALLY_DB_USER",
		"db.password":              "PHARMATALLY_DB_PASSWORD",
		"db.name":                  "PHARMATALLY_DB_NAME",
		"db.sslmode":               "PHARMATALLY_DB_SSLMODE",
		"db.max_open":              "PHARMATALLY_DB_MAX_OPEN",
		"db.max_idle":              "PHARMATALLY_DB_MAX_IDLE",
		"s3.region":                "PHARMATALLY_S3_REGION",
		"s3.bucket":                "PHARMATALLY_S3_BUCKET",
		"s3.endpoint":              "PHARMATALLY_S3_ENDPOINT",
		"s3.access_key":            "PHARMATALLY_S3_ACCESS_KEY",
		"s3.secret_key":            "PHARMATALLY_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "PHARMATALLY_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "PHARMATALLY_S3_PRESIGN_EXPIRY",
		"log.level":                "PHARMATALLY_LOG_LEVEL",
		"log.format":               "PHARMATALLY_LOG_FORMAT",
		"cors.allowed_origins":     "PHARMATALLY_CORS_ALLOWED_ORIGINS",
		"ocr.primary.provider":     "PHARMATALLY_OCR_PRIMARY_PROVIDER",
		"ocr.primary.endpoint":     "PHARMATALLY_OCR_PRIMARY_ENDPOINT",
		"ocr.primary.api_key":      "PHARMATALLY_OCR_PRIMARY_API_KEY",
		"ocr.primary.language":     "PHARMATALLY_OCR_PRIMARY_LANGUAGE",
		"ocr.primary.max_retries":  "PHARMATALLY_OCR_PRIMARY_MAX_RETRIES",
		"ocr.primary.timeout_secs": "PHARMATALLY_OCR_PRIMARY_TIMEOUT_SECS",
		"ocr.local.provider":       "PHARMATALLY_OCR_LOCAL_PROVIDER",
		"ocr.local.endpoint":       "PHARMATALLY_OCR_LOCAL_ENDPOINT",
		"ocr.local.api_key":        "PHARMATALLY_OCR_LOCAL_API_KEY",
		"ocr.local.language":       "PHARMATALLY_OCR_LOCAL_LANGUAGE",
		"ocr.local.max_retries":    "PHARMATALLY_OCR_LOCAL_MAX_RETRIES",
		"ocr.local.timeout_secs":   "PHARMATALLY_OCR_LOCAL_TIMEOUT_SECS",
		"ocr.max_image_dim":        "PHARMATALLY_OCR_MAX_IMAGE_DIM",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PHARMATALLY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PHARMATALLY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.OCR = OCRConfig{
		Primary: OCRProviderConfig{
			Provider:    v.GetString("ocr.primary.provider"),
			Endpoint:    v.GetString("ocr.primary.endpoint"),
			APIKey:      v.GetString("ocr.primary.api_key"),
			Language:    v.GetString("ocr.primary.language"),
			MaxRetries:  v.GetInt("ocr.primary.max_retries"),
			TimeoutSecs: v.GetInt("ocr.primary.timeout_secs"),
		},
		Local: OCRProviderConfig{
			Provider:    v.GetString("ocr.local.provider"),
			Endpoint:    v.GetString("ocr.local.endpoint"),
			APIKey:      v.GetString("ocr.local.api_key"),
			Language:    v.GetString("ocr.local.language"),
			MaxRetries:  v.GetInt("ocr.local.max_retries"),
			TimeoutSecs: v.GetInt("ocr.local.timeout_secs"),
		},
		MaxImageDim: v.GetInt("ocr.max_image_dim"),
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Log          LogConfig
	Payment      PaymentConfig
	Notification NotificationConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// DatabaseConfig holds database connection settings. Driver selects the
// backing store: "sqlite" for the embedded file database, "postgres" for
// a hosted server.
type DatabaseConfig struct {
	Driver   string
	Path     string // sqlite only
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings. When disabled, carts are
// stored in the relational database instead.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// PaymentConfig holds payment gateway settings
type PaymentConfig struct {
	Provider       string // default provider: RAZORPAY or UPI_QR
	KeyID          string
	KeySecret      string
	BaseURL        string
	Currency       string
	MerchantName   string
	MerchantVPA    string        // UPI QR path only
	UPISettleAfter time.Duration // minimum QR display time before confirmation
	PendingTTL     time.Duration // how long an unresolved attempt is kept
}

// NotificationConfig holds the SMS notification settings
type NotificationConfig struct {
	Enabled  bool
	SenderID string
}

// Load loads configuration from the TOML file and environment variables.
// Environment variables with the SMARTSTORE_ prefix override the file,
// which overrides built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SMARTSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("database.driver"),
			Path:     v.GetString("database.path"),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Issuer:     v.GetString("jwt.issuer"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Payment: PaymentConfig{
			Provider:       v.GetString("payment.provider"),
			KeyID:          v.GetString("payment.key_id"),
			KeySecret:      v.GetString("payment.key_secret"),
			BaseURL:        v.GetString("payment.base_url"),
			Currency:       v.GetString("payment.currency"),
			MerchantName:   v.GetString("payment.merchant_name"),
			MerchantVPA:    v.GetString("payment.merchant_vpa"),
			UPISettleAfter: v.GetDuration("payment.upi_settle_after"),
			PendingTTL:     v.GetDuration("payment.pending_ttl"),
		},
		Notification: NotificationConfig{
			Enabled:  v.GetBool("notification.enabled"),
			SenderID: v.GetString("notification.sender_id"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "smartstore")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("http.read_timeout", "15s")
	// The checkout result endpoint holds the connection open while the
	// payment attempt resolves
	v.SetDefault("http.write_timeout", "120s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.cors_allow_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "smartstore.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "smartstore")
	v.SetDefault("database.dbname", "smartstore")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.issuer", "smartstore")
	v.SetDefault("jwt.expiration", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("payment.provider", "RAZORPAY")
	v.SetDefault("payment.base_url", "https://api.razorpay.com")
	v.SetDefault("payment.currency", "INR")
	v.SetDefault("payment.merchant_name", "SmartStore")
	v.SetDefault("payment.upi_settle_after", "8s")
	v.SetDefault("payment.pending_ttl", "30m")

	v.SetDefault("notification.enabled", true)
	v.SetDefault("notification.sender_id", "SMSTRE")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret must be set in production")
	}
	return nil
}

// IsProduction returns true when running with the production profile
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

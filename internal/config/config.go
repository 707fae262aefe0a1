package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
	Admin    AdminConfig    `mapstructure:"admin"`
	OIDC     OIDCConfig     `mapstructure:"oidc"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Comments CommentsConfig `mapstructure:"comments"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port               string    `mapstructure:"port"`
	BaseURL            string    `mapstructure:"base_url"`
	TLS                TLSConfig `mapstructure:"tls"`
	CORSAllowedOrigins []string  `mapstructure:"cors_allowed_origins"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a reverse proxy that overwrites those headers.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite3" or "mysql"
	DSN    string `mapstructure:"dsn"`
}

// SessionConfig holds session cookie configuration.
type SessionConfig struct {
	Lifetime   int    `mapstructure:"lifetime"` // hours
	CookieName string `mapstructure:"cookie_name"`
}

// SecurityConfig holds password hashing and login throttling settings.
type SecurityConfig struct {
	BcryptCost       int           `mapstructure:"bcrypt_cost"`
	LoginMaxAttempts int           `mapstructure:"login_max_attempts"`
	LoginWindow      time.Duration `mapstructure:"login_window"`
}

// AdminConfig describes the reserved administrator account created at startup.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// OIDCConfig holds OIDC client configuration. An empty IssuerURL disables external sign-in.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// CacheConfig holds configuration for the SQLite-backed render cache.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// CommentsConfig holds pagination defaults for comment listings.
type CommentsConfig struct {
	PerPage    int `mapstructure:"per_page"`
	MaxPerPage int `mapstructure:"max_per_page"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// LoadConfig reads configuration from a .env file, an optional config file and
// environment variables prefixed with PORTFOLIO_.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()

	// Every key needs a default so that AutomaticEnv can override it.
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.cors_allowed_origins", []string{})
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "portfolio.db")
	v.SetDefault("session.lifetime", 24)
	v.SetDefault("session.cookie_name", "portfolio_session")
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.login_max_attempts", 5)
	v.SetDefault("security.login_window", "15m")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@localhost")
	v.SetDefault("admin.password", "")
	v.SetDefault("oidc.issuer_url", "")
	v.SetDefault("oidc.client_id", "")
	v.SetDefault("oidc.client_secret", "")
	v.SetDefault("oidc.redirect_url", "")
	v.SetDefault("cache.file_path", "cache.db")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("comments.per_page", 5)
	v.SetDefault("comments.max_per_page", 50)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/go-portfolio-app/")
	v.AddConfigPath("$HOME/.go-portfolio-app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

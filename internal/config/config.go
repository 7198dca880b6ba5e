package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
	CORS     CORSConfig     `mapstructure:"cors"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	S3       S3Config       `mapstructure:"s3"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// SessionConfig controls the session cookie issued on login.
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	Secure     bool          `mapstructure:"secure"`
}

// SecurityConfig carries the server-held secrets.
type SecurityConfig struct {
	// SecretKey signs both session cookies and exercise delete-link tokens.
	SecretKey     string `mapstructure:"secret_key"`
	AdminPassword string `mapstructure:"admin_password"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// OAuthConfig holds Google OAuth client credentials. Federated login is
// disabled when the client ID is empty.
type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"google_client_id"`
	GoogleClientSecret string `mapstructure:"google_client_secret"`
	RedirectURL        string `mapstructure:"redirect_url"`
	// FrontendURL is where the callback redirects the browser after login.
	FrontendURL string `mapstructure:"frontend_url"`
}

// S3Config configures the optional CSV export archive. Archiving is disabled
// when the bucket name is empty.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GoogleEnabled reports whether federated login is configured.
func (c OAuthConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// ArchiveEnabled reports whether export archiving is configured.
func (c S3Config) ArchiveEnabled() bool {
	return c.BucketName != ""
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys map to env vars, e.g. database.url -> DATABASE_URL.
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.url", "postgres://localhost:5432/fittrack?sslmode=disable")
	viper.SetDefault("database.max_conns", 4)
	viper.SetDefault("session.cookie_name", "fittrack_session")
	viper.SetDefault("session.max_age", "24h")
	viper.SetDefault("session.secure", false)
	viper.SetDefault("cors.origins", []string{"http://localhost:8501"})
	viper.SetDefault("oauth.frontend_url", "http://localhost:8501/")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	// Keys without file defaults still need registering so AutomaticEnv can
	// populate them during Unmarshal.
	for _, key := range []string{
		"security.secret_key", "security.admin_password",
		"oauth.google_client_id", "oauth.google_client_secret", "oauth.redirect_url",
		"s3.endpoint", "s3.region", "s3.access_key_id", "s3.secret_access_key", "s3.bucket_name",
	} {
		viper.SetDefault(key, "")
	}

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file is optional; env vars and defaults may be enough.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

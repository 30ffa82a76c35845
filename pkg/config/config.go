package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string `mapstructure:"PORT"`
	AppEnv             string `mapstructure:"APP_ENV"`
	StorageMode        string `mapstructure:"STORAGE_MODE"`
	DataFile           string `mapstructure:"DATA_FILE"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	BaseURL            string `mapstructure:"BASE_URL"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	AdminEmail         string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword      string `mapstructure:"ADMIN_PASSWORD"`
	AllowedEmailsRaw   string `mapstructure:"ALLOWED_EMAILS"`
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendURL        string `mapstructure:"FRONTEND_URL"`
	LoginRatePerMinute int    `mapstructure:"LOGIN_RATE_PER_MINUTE"`
	TrustProxyHeaders  bool   `mapstructure:"TRUST_PROXY_HEADERS"`

	AllowedEmails []string `mapstructure:"-"`
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"APP_ENV":               "local",
	"STORAGE_MODE":          "auto",
	"DATA_FILE":             "data/links.json",
	"DATABASE_URL":          "file:db.sqlite",
	"BASE_URL":              "http://localhost:8080",
	"JWT_SECRET":            defaultJWTSecret,
	"ADMIN_EMAIL":           "admin@3dnav.top",
	"ADMIN_PASSWORD":        "",
	"ALLOWED_EMAILS":        "",
	"GOOGLE_CLIENT_ID":      "",
	"GOOGLE_CLIENT_SECRET":  "",
	"GOOGLE_REDIRECT_URL":   "http://localhost:8080/auth/google/callback",
	"FRONTEND_URL":          "http://localhost:8080/",
	"LOGIN_RATE_PER_MINUTE": 10,
	"TRUST_PROXY_HEADERS":   false,
}

const defaultJWTSecret = "secret"

var storageModes = map[string]bool{"auto": true, "file": true, "memory": true, "sqlite": true}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)
	return FromViper(viper.New())
}

// FromViper applies defaults to v, binds the environment and decodes it.
func FromViper(v *viper.Viper) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.StorageMode = strings.ToLower(strings.TrimSpace(cfg.StorageMode))
	if !storageModes[cfg.StorageMode] {
		return nil, errors.Errorf("invalid STORAGE_MODE %q (want auto, file, memory or sqlite)", cfg.StorageMode)
	}
	if cfg.IsProduction() && (cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret) {
		return nil, errors.New("JWT_SECRET must be set to a non-default value in production")
	}
	if cfg.LoginRatePerMinute <= 0 {
		cfg.LoginRatePerMinute = defaults["LOGIN_RATE_PER_MINUTE"].(int)
	}
	cfg.AllowedEmails = splitList(cfg.AllowedEmailsRaw)
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GoogleEnabled reports whether OAuth credentials are configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

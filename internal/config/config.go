package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is built once at startup and passed into each component.
// Nothing reads the process environment after Load returns.
type Config struct {
	Port string `mapstructure:"PORT"`

	DBURL  string `mapstructure:"DB_URL"`
	DBName string `mapstructure:"DB_NAME"`

	AdminUser   string `mapstructure:"ADMIN_USER"`
	AdminPass   string `mapstructure:"ADMIN_PASS"`
	TokenSecret string `mapstructure:"TOKEN_SECRET"`
	TokenTTLMin int    `mapstructure:"TOKEN_TTL_MIN"`

	MailHost  string `mapstructure:"MAIL_HOST"`
	MailPort  int    `mapstructure:"MAIL_PORT"`
	MailUser  string `mapstructure:"MAIL_USER"`
	MailPass  string `mapstructure:"MAIL_PASS"`
	MailAdmin string `mapstructure:"MAIL_ADMIN"`

	YpayClientID     string `mapstructure:"YPAY_CLIENT_ID"`
	YpayClientSecret string `mapstructure:"YPAY_CLIENT_SECRET"`
	YpayBaseURL      string `mapstructure:"YPAY_BASE_URL"`

	// SiteURL is the public origin of the storefront; redirect and
	// webhook URLs handed to the gateway are derived from it.
	SiteURL     string `mapstructure:"SITE_URL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	PublicDir   string `mapstructure:"PUBLIC_DIR"`
	LogFile     string `mapstructure:"LOG_FILE"`
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3030")
	v.SetDefault("DB_URL", "mongodb://127.0.0.1:27017")
	v.SetDefault("DB_NAME", "edeng")
	v.SetDefault("ADMIN_USER", "")
	v.SetDefault("ADMIN_PASS", "")
	v.SetDefault("TOKEN_SECRET", "")
	v.SetDefault("TOKEN_TTL_MIN", 720)
	v.SetDefault("MAIL_HOST", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USER", "")
	v.SetDefault("MAIL_PASS", "")
	v.SetDefault("MAIL_ADMIN", "")
	v.SetDefault("YPAY_CLIENT_ID", "")
	v.SetDefault("YPAY_CLIENT_SECRET", "")
	v.SetDefault("YPAY_BASE_URL", "https://ypay.co.il/api/v1")
	v.SetDefault("SITE_URL", "https://edengjewellry.com")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,https://edengjewellry.com,https://www.edengjewellry.com")
	v.SetDefault("PUBLIC_DIR", "./public")
	v.SetDefault("LOG_FILE", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("config: TOKEN_SECRET is required")
	}
	return cfg, nil
}

// Origins splits the configured CORS allow-list.
func (c Config) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env    string       `mapstructure:"env"`
	Server ServerConfig `mapstructure:"http_server"`
	Pg     PgConfig     `mapstructure:"postgres"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Stripe StripeConfig `mapstructure:"stripe"`
	Email  EmailConfig  `mapstructure:"email"`
}

type ServerConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	// BaseURL - public address of the web app, used in emails and checkout redirects
	BaseURL string `mapstructure:"base_url"`
}

type PgConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Db       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	ResetTTL       time.Duration `mapstructure:"reset_ttl"`
	TrialDays      int           `mapstructure:"trial_days"`
	LoginPerMinute int           `mapstructure:"login_per_minute"`
	LoginBurst     int           `mapstructure:"login_burst"`
}

type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	PriceIDMonthly string `mapstructure:"price_id_monthly"`
	Currency       string `mapstructure:"currency"`
}

type EmailConfig struct {
	// Provider - "ses" sends through Amazon SES, "log" only logs rendered messages
	Provider string `mapstructure:"provider"`
	Region   string `mapstructure:"region"`
	From     string `mapstructure:"from"`
}

// DSN builds a postgres connection url for pgx and golang-migrate
func (c PgConfig) DSN() string {
	mode := c.SSLMode
	if mode == "" {
		mode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     c.Db,
		RawQuery: "sslmode=" + mode,
	}
	return u.String()
}

// Validate rejects configs the server cannot start with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("http_server.port out of range: %d", c.Server.Port))
	}
	if c.Pg.Host == "" || c.Pg.Db == "" {
		errs = append(errs, errors.New("postgres.host and postgres.db are required"))
	}
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required"))
	}
	if c.Email.Provider != "" && c.Email.Provider != "ses" && c.Email.Provider != "log" {
		errs = append(errs, fmt.Errorf("email.provider must be ses or log: %q", c.Email.Provider))
	}
	if c.Auth.TrialDays < 0 {
		errs = append(errs, errors.New("auth.trial_days must be >= 0"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http_server.host", "0.0.0.0")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.timeout", 5*time.Second)
	v.SetDefault("http_server.base_url", "http://localhost:5173")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("auth.session_ttl", 30*24*time.Hour)
	v.SetDefault("auth.reset_ttl", time.Hour)
	v.SetDefault("auth.trial_days", 14)
	v.SetDefault("auth.login_per_minute", 10)
	v.SetDefault("auth.login_burst", 5)
	v.SetDefault("stripe.currency", "ils")
	v.SetDefault("email.provider", "log")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from", "no-reply@notarycalc.co.il")
}

func resolvePath(cwd, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	if up, ok := findUp(cwd, p, 8); ok {
		return up
	}
	return filepath.Join(cwd, p)
}

func findUp(start, rel string, max int) (string, bool) {
	dir := start
	for i := 0; i <= max; i++ {
		p := filepath.Join(dir, rel)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// LoadConfig reads the .env file, then the YAML config with ${VAR} placeholders expanded
func LoadConfig() (*Config, error) {
	cwd, _ := os.Getwd()

	// 1) .env
	envPath := os.Getenv("ENV_FILE")
	if envPath == "" {
		if up, ok := findUp(cwd, ".env/local.env", 8); ok {
			envPath = up
		}
	} else {
		envPath = resolvePath(cwd, envPath)
	}
	if envPath != "" {
		_ = godotenv.Overload(envPath)
	}

	// 2) YAML
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		up, ok := findUp(cwd, "configs/local.yaml", 8)
		if !ok {
			return nil, errors.New("CONFIG_PATH not set and configs/local.yaml not found")
		}
		path = up
	} else {
		path = resolvePath(cwd, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(raw)))); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Package app opens the external resources shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"notarycalc/internal/config"
	"notarycalc/internal/gateways/email"
	"notarycalc/internal/gateways/stripe"
	"notarycalc/internal/repository/cache/redis"
	"notarycalc/internal/usecase"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

// Deps holds opened connections and adapters.
type Deps struct {
	Pool  *pgxpool.Pool
	Cache *redis.Cache
	// Mailer - SES or log-only, depending on email.provider
	Mailer usecase.Mailer
	// Payments - nil when stripe.secret_key is empty
	Payments usecase.PaymentProvider
}

// Open connects to Postgres and Redis and builds the mail and payment adapters.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Deps, error) {
	pool, err := pgxpool.New(ctx, cfg.Pg.DSN())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping storage: %w", err)
	}

	cache, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	d := &Deps{Pool: pool, Cache: cache}

	d.Mailer, err = NewMailer(ctx, cfg.Email, log)
	if err != nil {
		d.Close()
		return nil, err
	}

	provider, err := stripe.New(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.Currency)
	switch {
	case errors.Is(err, stripe.ErrNoSecret):
		log.Warn("stripe is not configured, billing disabled")
	case err != nil:
		d.Close()
		return nil, fmt.Errorf("init stripe: %w", err)
	default:
		d.Payments = provider
	}
	return d, nil
}

// NewMailer picks the email adapter for the configured provider.
func NewMailer(ctx context.Context, cfg config.EmailConfig, log *slog.Logger) (usecase.Mailer, error) {
	if strings.ToLower(cfg.Provider) != "ses" {
		return email.NewLogMailer(log), nil
	}
	m, err := email.NewSESMailer(ctx, cfg.Region, cfg.From, log)
	if err != nil {
		return nil, fmt.Errorf("init ses: %w", err)
	}
	return m, nil
}

// Close releases every opened connection.
func (d *Deps) Close() {
	if d.Cache != nil {
		_ = d.Cache.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}

// SetupLogger builds the process logger for an environment name.
func SetupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch strings.ToLower(env) {
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return log
}

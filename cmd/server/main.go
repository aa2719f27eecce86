package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"notarycalc/internal/app"
	"notarycalc/internal/config"
	httpGateway "notarycalc/internal/gateways/http"
	calculationRepository "notarycalc/internal/repository/calculation/postgres"
	clientRepository "notarycalc/internal/repository/client/postgres"
	paymentRepository "notarycalc/internal/repository/payment/postgres"
	profileRepository "notarycalc/internal/repository/profile/postgres"
	templateRepository "notarycalc/internal/repository/template/postgres"
	usecaseInternal "notarycalc/internal/usecase"
	"notarycalc/migrations"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := app.SetupLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("starting notarycalc", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	if err := migrations.Up(cfg.Pg.DSN()); err != nil {
		log.Error("failed to apply migrations", slog.Any("err", err))
		os.Exit(1)
	}

	deps, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init dependencies", slog.Any("err", err))
		os.Exit(1)
	}
	defer deps.Close()

	log.Debug("init database")

	profiles := profileRepository.NewProfileRepository(deps.Pool)
	clients := clientRepository.NewClientRepository(deps.Pool)
	calcs := calculationRepository.NewCalculationRepository(deps.Pool)
	templates := templateRepository.NewTemplateRepository(deps.Pool)
	payments := paymentRepository.NewPaymentRepository(deps.Pool)

	useCases := httpGateway.UseCases{
		Auth: usecaseInternal.NewAuth(profiles, deps.Cache, deps.Cache, deps.Mailer, usecaseInternal.AuthSettings{
			SessionTTL:     cfg.Auth.SessionTTL,
			ResetTTL:       cfg.Auth.ResetTTL,
			TrialDays:      cfg.Auth.TrialDays,
			LoginPerMinute: cfg.Auth.LoginPerMinute,
			LoginBurst:     cfg.Auth.LoginBurst,
			BaseURL:        cfg.Server.BaseURL,
		}, log),
		Profile:     usecaseInternal.NewProfile(profiles, clients, calcs),
		Client:      usecaseInternal.NewClient(clients),
		Calculation: usecaseInternal.NewCalculation(calcs, clients),
		Template:    usecaseInternal.NewTemplate(templates),
		Analytics:   usecaseInternal.NewAnalytics(calcs),
		Billing: usecaseInternal.NewBilling(profiles, payments, deps.Payments, deps.Cache, usecaseInternal.BillingSettings{
			PriceID: cfg.Stripe.PriceIDMonthly,
			BaseURL: cfg.Server.BaseURL,
		}, log),
	}

	server := httpGateway.New(useCases,
		*cfg,
		log,
		httpGateway.WithHost(cfg.Server.Host),
		httpGateway.WithPort(uint16(cfg.Server.Port)),
		httpGateway.WithLogger(log),
		httpGateway.WithTimeout(cfg.Server.Timeout),
	)

	log.Info("starting server", slog.String("address", cfg.Server.Host+":"+strconv.Itoa(cfg.Server.Port)))
	if err := server.Run(ctx); err != nil {
		log.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

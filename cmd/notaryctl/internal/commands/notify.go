package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"notarycalc/internal/app"
	"notarycalc/internal/config"
	profileRepository "notarycalc/internal/repository/profile/postgres"
	"notarycalc/internal/usecase"
)

// InitNotifyCommands registers the reminder email commands.
func InitNotifyCommands(rootCmd *cobra.Command) {
	notifyCmd := &cobra.Command{
		Use:   "notify-trials",
		Short: "Email offices whose trial ends soon",
		Long: `notify-trials sends one reminder to every office on trial whose trial ends
within the window and that was not reminded yet. Meant to run from cron.`,
		Args: cobra.NoArgs,
		RunE: runNotifyTrials,
	}
	notifyCmd.Flags().Duration("within", 72*time.Hour, "Remind trials ending within this window")

	rootCmd.AddCommand(notifyCmd)
}

func runNotifyTrials(cmd *cobra.Command, _ []string) error {
	within, err := cmd.Flags().GetDuration("within")
	if err != nil {
		return err
	}
	if within <= 0 {
		return fmt.Errorf("--within must be positive, got %s", within)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := app.SetupLogger(cfg.Env)
	ctx := cmd.Context()

	pool, err := pgxpool.New(ctx, cfg.Pg.DSN())
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer pool.Close()

	mailer, err := app.NewMailer(ctx, cfg.Email, log)
	if err != nil {
		return err
	}

	n := usecase.NewNotifier(profileRepository.NewProfileRepository(pool), mailer, cfg.Server.BaseURL, log)
	sent, err := n.NotifyTrialsEnding(ctx, time.Now(), within)
	log.Info("trial reminders sent", slog.Int("sent", sent), slog.Duration("within", within))
	fmt.Fprintf(cmd.OutOrStdout(), "sent %d reminder(s)\n", sent)
	return err
}

// Package main is the entry point for notaryctl, the operator CLI of notarycalc.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"notarycalc/cmd/notaryctl/internal/commands"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "notaryctl",
		Short: "Notary fee calculator operations tool",
		Long: `notaryctl prints the notary fee schedule, prices service lines offline,
applies database migrations and sends trial-ending reminders.

Commands that touch the database read the same configuration as the server
(CONFIG_PATH, ENV_FILE or configs/local.yaml).`,
		SilenceUsage: true,
	}

	commands.InitFeeCommands(rootCmd)
	commands.InitMigrateCommands(rootCmd)
	commands.InitNotifyCommands(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"notarycalc/internal/config"
	"notarycalc/migrations"
)

// InitMigrateCommands registers the schema migration commands.
func InitMigrateCommands(rootCmd *cobra.Command) {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	migrateCmd.PersistentFlags().String("dsn", "", "Postgres URL, defaults to the configured database")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn, err := resolveDSN(cmd)
			if err != nil {
				return err
			}
			if err := migrations.Up(dsn); err != nil {
				return err
			}
			return printVersion(cmd, dsn)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := cmd.Flags().GetInt("steps")
			if err != nil {
				return err
			}
			dsn, err := resolveDSN(cmd)
			if err != nil {
				return err
			}
			if err := migrations.Down(dsn, steps); err != nil {
				return err
			}
			return printVersion(cmd, dsn)
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back, 0 rolls back everything")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn, err := resolveDSN(cmd)
			if err != nil {
				return err
			}
			return printVersion(cmd, dsn)
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func resolveDSN(cmd *cobra.Command) (string, error) {
	dsn, err := cmd.Flags().GetString("dsn")
	if err != nil {
		return "", err
	}
	if dsn != "" {
		return dsn, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Pg.DSN(), nil
}

func printVersion(cmd *cobra.Command, dsn string) error {
	v, dirty, err := migrations.Version(dsn)
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty)\n", v)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
	return nil
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/a2sh3r/onagui-ledger/internal/database"
	"github.com/a2sh3r/onagui-ledger/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(hashPassphraseCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return database.MigrateUp(cfg.MigrationsPath, cfg.DatabaseURI)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [STEPS]",
	Short: "Roll back migrations, one step by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return database.MigrateDown(cfg.MigrationsPath, cfg.DatabaseURI, steps)
	},
}

var hashPassphraseCmd = &cobra.Command{
	Use:   "hash-passphrase PASSPHRASE",
	Short: "Print the bcrypt hash to use as ADMIN_PASSPHRASE_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashed, err := service.HashPassphrase(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hashed)
		return nil
	},
}

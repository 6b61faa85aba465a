package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/a2sh3r/onagui-ledger/internal/config"
	"github.com/a2sh3r/onagui-ledger/internal/database"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/a2sh3r/onagui-ledger/internal/service"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Operate the ONAGUI ledger database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return logger.Initialize(level)
	},
}

func init() {
	rootCmd.PersistentFlags().String("dsn", "", "database dsn (defaults to DATABASE_URI)")
	rootCmd.PersistentFlags().String("migrations", "", "migrations source (defaults to MIGRATIONS_PATH)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")
}

// Execute runs ledgerctl with os.Args and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// loadConfig applies the persistent flag overrides on top of the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
		cfg.DatabaseURI = dsn
	}
	if src, _ := cmd.Flags().GetString("migrations"); src != "" {
		cfg.MigrationsPath = src
	}
	return cfg, nil
}

func openWallets(ctx context.Context, cfg *config.Config) (service.WalletService, *sql.DB, error) {
	db, err := database.Open(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, nil, err
	}
	settings := repository.Settings{}
	admins := service.NewAdminResolver(service.NewProfileFlagStrategy(repository.NewAdminRepository(db)))
	wallets := service.NewWalletService(
		repository.NewLedgerRepository(db, settings),
		repository.NewWalletRepository(db, settings),
		admins,
		metrics.New(),
	)
	return wallets, db, nil
}

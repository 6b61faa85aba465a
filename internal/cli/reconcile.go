package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(rebuildWalletCmd)

	reconcileCmd.Flags().Bool("repair", false, "rewrite drifted wallet caches from the ledger")
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare every cached wallet balance with the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		repair, _ := cmd.Flags().GetBool("repair")
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		wallets, db, err := openWallets(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := wallets.ReconcileAll(cmd.Context(), repair)
		if err != nil {
			return err
		}
		if err := printJSON(cmd, report); err != nil {
			return err
		}
		if report.Failures > 0 {
			return fmt.Errorf("%d wallets could not be reconciled", report.Failures)
		}
		return nil
	},
}

var rebuildWalletCmd = &cobra.Command{
	Use:   "rebuild-wallet USER_ID",
	Short: "Rebuild one wallet cache from posted ledger entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		wallets, db, err := openWallets(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := wallets.ReconcileWallet(cmd.Context(), userID, true)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

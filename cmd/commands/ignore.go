package commands

// Manage the wallets left out of intersection reports (routers, pool
// authorities, known bots).

import (
	"fmt"

	"top-traders/internal/infra/fs"
	"top-traders/internal/infra/log"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newIgnoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ignore",
		Short: "Manage the ignored wallets list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <address>",
		Short: "Leave a wallet out of intersection reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if _, err := solana.PublicKeyFromBase58(args[0]); err != nil {
				return fmt.Errorf("invalid wallet address %q: %w", args[0], err)
			}
			added, err := fs.AddIgnoredWallet(cfg.App.IgnoredWalletsFile, args[0])
			if err != nil {
				return err
			}
			if added {
				log.LogSuccess("Wallet ignored", zap.String("wallet", args[0]))
			} else {
				log.LogSuccess("Wallet already ignored", zap.String("wallet", args[0]))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <address>",
		Short: "Include a wallet in intersection reports again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := fs.RemoveIgnoredWallet(cfg.App.IgnoredWalletsFile, args[0]); err != nil {
				return err
			}
			log.LogSuccess("Wallet no longer ignored", zap.String("wallet", args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the ignored wallets as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			wallets, err := fs.LoadIgnoredWallets(cfg.App.IgnoredWalletsFile)
			if err != nil {
				return err
			}
			writeJSON(cmd, wallets)
			return nil
		},
	})

	return cmd
}

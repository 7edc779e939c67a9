package commands

import (
	"top-traders/internal/clients_api/dexscreener"
	"top-traders/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download the playwright driver and Chromium",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.LogInfo("Installing playwright driver and Chromium...")
			if err := dexscreener.Install(); err != nil {
				log.LogError("Failed to install browser", zap.Error(err))
				return err
			}
			log.LogSuccess("Browser installed")
			return nil
		},
	}
}

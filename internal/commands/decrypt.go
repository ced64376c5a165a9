package commands

import (
	"github.com/spf13/cobra"

	"github.com/slaner/DataChest/internal/config"
	"github.com/slaner/DataChest/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] file",
		Aliases: []string{"dec"},
		Short:   "Restore a file from a container",
		Args:    singleFile,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := preRun(cfg)(cmd, args); err != nil {
				return err
			}

			cfg.Decrypt = true

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}

	fileFlags(cmd)

	cmd.Flags().BoolP("no-verify", "D", false, "Skip the payload and plaintext checksum checks")

	return cmd
}

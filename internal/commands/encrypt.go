package commands

import (
	"github.com/spf13/cobra"

	"github.com/slaner/DataChest/internal/config"
	"github.com/slaner/DataChest/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] file",
		Aliases: []string{"enc"},
		Short:   "Encrypt a file into a container",
		Args:    singleFile,
		PreRunE: preRun(cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}

	fileFlags(cmd)

	cmd.Flags().Uint16("header-version", 0, "Header version to write, defaults to the latest")
	cmd.Flags().StringP("comment", "m", "", "Comment stored in the header (version 2 and later)")

	return cmd
}

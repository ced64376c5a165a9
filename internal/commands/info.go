package commands

import (
	"github.com/spf13/cobra"

	"github.com/slaner/DataChest/internal/config"
	"github.com/slaner/DataChest/internal/logic"
)

// NewInfoCommand creates a new cobra command that prints a container header.
func NewInfoCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info [flags] file",
		Aliases: []string{"inspect"},
		Short:   "Show the header of a container",
		Args:    singleFile,
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunInfo(cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Bool("json", false, "Print the header as JSON")

	return cmd
}

// NewAlgorithmsCommand creates a new cobra command that lists the supported ciphers.
func NewAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "algorithms",
		Aliases: []string{"algos"},
		Short:   "List the supported ciphers",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logic.RunAlgorithms(cmd.OutOrStdout())
		},
	}
}

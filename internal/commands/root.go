package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/config"
	"github.com/slaner/DataChest/internal/encryption"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "datachest [flags] command [flags] file"
	root.Short = "Single-file encryption container"
	root.Long = `Encrypts a file into a self-describing container with a checksummed header,
and restores it. The cipher is a symmetric block cipher in CBC mode; the key and IV are
derived from a password and IV source given as text (FT:), a file (FF:) or hex (FH:).`

	root.SilenceErrors = true
	root.SilenceUsage = true

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", chest.ErrInvalidParameter, err)
	})

	flags := root.PersistentFlags()

	flags.StringP("algorithm", "a", "aes", "Cipher: aes, des, 3des, blowfish, cast5, twofish or a numeric id")
	flags.StringP("password", "p", "", "Password source (FT:text, FF:path, FH:hex), defaults to user@host")
	flags.BoolP("ask-password", "P", false, "Prompt for the password on the terminal")
	flags.StringP("iv", "i", "", "IV source (FT:text, FF:path, FH:hex), defaults to a built-in value")
	flags.IntP("buffer-size", "b", encryption.DefaultChunkSize, "Cipher buffer size in bytes")
	flags.Bool("verbose", false, "Log processing stages")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print sizes and timing after processing")
	flags.String("config", "", "Path to a JSON configuration file, comments allowed")

	flags.String("encrypt-ext", ".dcf", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewInfoCommand(cfg),
		NewAlgorithmsCommand(),
	)

	return root
}

// fileFlags adds the flags shared by encrypt and decrypt.
func fileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output path, defaults to the input with the suffix added or removed")
	cmd.Flags().BoolP("test", "t", false, "Process without writing output")
	cmd.Flags().BoolP("cleanup", "c", false, "Delete the input after success")
	cmd.Flags().BoolP("overwrite", "w", false, "Replace an existing output")
}

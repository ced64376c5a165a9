// Package commands provides the command-line interface for the datachest tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - header inspection
//
// Settings are resolved through viper, from flags first, then DATACHEST_* environment variables,
// then an optional JSON (with comments) configuration file.
package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/config"
)

// EnvPrefix is the prefix of environment variables mapped onto flags.
const EnvPrefix = "DATACHEST"

// preRun returns a PreRunE handler that resolves settings into cfg and validates them.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		v := viper.New()

		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}

		if err := readConfigFile(v); err != nil {
			return err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return fmt.Errorf("%w: parsing configuration: %w", chest.ErrInvalidParameter, err)
		}

		cfg.File = args[0]

		return cfg.Validate()
	}
}

// readConfigFile loads the file named by --config, if any.
func readConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading configuration file: %w", err)
	}

	v.SetConfigType("json")

	if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
		return fmt.Errorf("%w: parsing configuration file %q: %w", chest.ErrInvalidParameter, path, err)
	}

	return nil
}

// singleFile accepts exactly one positional argument.
func singleFile(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return chest.ErrNoInputFile
	case 1:
		return nil
	default:
		return fmt.Errorf("%w: expected one file, got %d", chest.ErrInvalidParameter, len(args))
	}
}

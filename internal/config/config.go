// Package config holds the settings for one invocation, gathered from flags, environment and an
// optional configuration file.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/encryption"
)

// Suffixes holds the file name suffixes used to derive output paths.
type Suffixes struct {
	Encrypt string `mapstructure:"encrypt-ext"`
	Decrypt string `mapstructure:"decrypt-ext"`
}

// Config holds the configuration for one run.
type Config struct {
	// Common flags
	Algorithm   string `validate:"required" label:"--algorithm"`
	BufferSize  int    `mapstructure:"buffer-size" label:"--buffer-size"`
	Password    string `label:"--password"`
	AskPassword bool   `mapstructure:"ask-password" validate:"exclusive=Password" label:"--ask-password"`
	IV          string `label:"--iv"`
	Verbose     bool
	Quiet       bool
	Stats       bool
	Suffixes    Suffixes `mapstructure:",squash"`

	// Command-specific flags
	Output        string `validate:"exclusive=Test" label:"--output"`
	Test          bool   `label:"--test"`
	Cleanup       bool   `validate:"exclusive=Test" label:"--cleanup"`
	Overwrite     bool   `validate:"exclusive=Test" label:"--overwrite"`
	HeaderVersion uint16 `mapstructure:"header-version" label:"--header-version"`
	Comment       string `label:"--comment"`
	NoVerify      bool   `mapstructure:"no-verify" label:"--no-verify"`
	JSON          bool
	Decrypt       bool `mapstructure:"-"`

	// Positional arguments
	File string `mapstructure:"-" validate:"required" label:"file"`
}

// Validate checks option combinations and values.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := registerExclusive(validate); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return translate(err)
	}

	if c.BufferSize != 0 && c.BufferSize < encryption.MinChunkSize {
		return fmt.Errorf("%w: %d, minimum is %d", encryption.ErrInvalidBufferSize, c.BufferSize, encryption.MinChunkSize)
	}

	if _, err := encryption.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}

	return nil
}

// translate maps validator failures to the errors callers classify on.
func translate(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("validating configuration: %w", err)
	}

	fe := errs[0]

	switch fe.Tag() {
	case "exclusive":
		return fmt.Errorf("%w: %s cannot be combined with %s", chest.ErrAmbiguousOption, fe.Field(), label(fe.Param()))
	case "required":
		if fe.StructField() == "File" {
			return chest.ErrNoInputFile
		}

		return fmt.Errorf("%w: %s is required", chest.ErrInvalidParameter, fe.Field())
	default:
		return fmt.Errorf("%w: %s failed %q", chest.ErrInvalidParameter, fe.Field(), fe.Tag())
	}
}

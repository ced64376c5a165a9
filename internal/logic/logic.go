// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/config"
	"github.com/slaner/DataChest/internal/encryption"
	"github.com/slaner/DataChest/internal/header"
	"github.com/slaner/DataChest/internal/keys"
	"github.com/slaner/DataChest/internal/logging"
)

// Run encrypts or decrypts the configured file.
// A run whose only failure is deleting the input returns the cleanup error.
func Run(cfg *config.Config) error {
	start := time.Now()

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	codec := chest.New(chest.WithLogger(logging.New(os.Stderr, cfg.Verbose)))

	var res chest.Result

	if cfg.Decrypt {
		res, err = codec.Decrypt(req)
	} else {
		res, err = codec.Encrypt(req)
	}

	if err != nil {
		return fmt.Errorf("processing %q: %w", cfg.File, err)
	}

	report(cfg, res)

	if cfg.Stats {
		printStats(res, time.Since(start))
	}

	if res.Status == chest.CleanupFailed {
		return fmt.Errorf("deleting %q: %w", res.Input, res.CleanupErr)
	}

	return nil
}

// buildRequest turns the configuration into a codec request.
func buildRequest(cfg *config.Config) (chest.Request, error) {
	algorithm, err := encryption.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return chest.Request{}, err
	}

	password := cfg.Password

	if cfg.AskPassword {
		if password, err = promptPassword(os.Stdin, os.Stderr); err != nil {
			return chest.Request{}, err
		}
	}

	return chest.Request{
		Params: chest.Params{
			Algorithm:     algorithm,
			Password:      keys.ParseSource(password),
			IV:            keys.ParseSource(cfg.IV),
			BufferSize:    cfg.BufferSize,
			HeaderVersion: header.Version(cfg.HeaderVersion),
			Comment:       cfg.Comment,
			Verify:        !cfg.NoVerify,
		},
		Input:     cfg.File,
		Output:    outputPath(cfg),
		Test:      cfg.Test,
		Cleanup:   cfg.Cleanup,
		Overwrite: cfg.Overwrite,
	}, nil
}

// outputPath returns the explicit output, or derives one from the input and the configured suffixes.
// Test mode has no output.
func outputPath(cfg *config.Config) string {
	if cfg.Output != "" || cfg.Test {
		return cfg.Output
	}

	filename := cfg.File
	ext := cfg.Suffixes.Encrypt

	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.Suffixes.Encrypt)
		ext = cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

func report(cfg *config.Config, res chest.Result) {
	if cfg.Quiet {
		return
	}

	if cfg.Test {
		fmt.Printf("Verified %q\n", res.Input) //nolint:forbidigo

		return
	}

	fmt.Printf("Processed %q -> %q\n", res.Input, res.Output) //nolint:forbidigo

	if cfg.Cleanup && res.Status == chest.Success {
		fmt.Printf("Deleted %q\n", res.Input) //nolint:forbidigo
	}
}

func printStats(res chest.Result, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Header:    v%s, %d bytes\n", res.Header.Version(), res.Header.Size())
	fmt.Fprintf(os.Stderr, "  Raw:       %s\n", humanize.IBytes(res.Header.RawSize()))
	fmt.Fprintf(os.Stderr, "  Encrypted: %s\n", humanize.IBytes(res.Header.EncryptedSize()))
	//nolint:gosec // OutputSize is never negative
	fmt.Fprintf(os.Stderr, "  Written:   %s\n", humanize.IBytes(uint64(max(0, res.OutputSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}

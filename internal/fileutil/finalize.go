// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrFileAlreadyExists is returned when an output path is taken and overwriting was not requested.
var ErrFileAlreadyExists = errors.New("file already exists")

// TempContext holds state for an atomic file write operation.
// Content is written to a temporary file next to the output and renamed into place by Commit.
type TempContext struct {
	OutPath string
	TmpFile *os.File
	TmpName string

	overwrite bool
	committed bool
}

// NewTempContext creates a temp file for atomic writing to outPath.
// Unless overwrite is set, an existing outPath is rejected up front.
// Caller must defer CleanupOnError.
func NewTempContext(outPath string, overwrite bool) (*TempContext, error) {
	if err := checkFree(outPath, overwrite); err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		OutPath:   outPath,
		TmpFile:   tmpFile,
		TmpName:   tmpFile.Name(),
		overwrite: overwrite,
	}, nil
}

// Write appends to the temporary file.
func (tc *TempContext) Write(p []byte) (int, error) {
	return tc.TmpFile.Write(p)
}

// Commit closes the temporary file, moves it to the output path and returns the written size.
func (tc *TempContext) Commit(perm os.FileMode) (int64, error) {
	if err := tc.TmpFile.Chmod(perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.TmpFile.Sync(); err != nil {
		return 0, fmt.Errorf("syncing temporary file: %w", err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := checkFree(tc.OutPath, tc.overwrite); err != nil {
		return 0, err
	}

	if err := os.Rename(tc.TmpName, tc.OutPath); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	tc.committed = true

	info, err := os.Stat(tc.OutPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", tc.OutPath, err)
	}

	return info.Size(), nil
}

// CleanupOnError closes the temp file and removes it if the write failed or was never committed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:gosec,errcheck // best-effort cleanup

	if *errp != nil || !tc.committed {
		os.Remove(tc.TmpName) //nolint:gosec,errcheck // best-effort cleanup
	}
}

// SamePath reports whether a and b refer to the same file, or to the same path if either is missing.
func SamePath(a, b string) bool {
	ia, errA := os.Stat(a)
	ib, errB := os.Stat(b)

	if errA == nil && errB == nil {
		return os.SameFile(ia, ib)
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	return errA == nil && errB == nil && absA == absB
}

func checkFree(path string, overwrite bool) error {
	if overwrite {
		return nil
	}

	_, err := os.Lstat(path)

	switch {
	case err == nil:
		return fmt.Errorf("%w: %q", ErrFileAlreadyExists, path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking output %q: %w", path, err)
	}
}

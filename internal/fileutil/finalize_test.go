package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/slaner/DataChest/internal/fileutil"
)

func TestCommit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out.dcf")

	tc, err := fileutil.NewTempContext(out, false)
	if err != nil {
		t.Fatal(err)
	}

	var werr error
	defer tc.CleanupOnError(&werr)

	if _, werr = tc.Write([]byte("container")); werr != nil {
		t.Fatal(werr)
	}

	size, werr := tc.Commit(0o600)
	if werr != nil {
		t.Fatal(werr)
	}

	if size != int64(len("container")) {
		t.Errorf("Commit size = %d", size)
	}

	if _, err := os.Stat(tc.TmpName); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary file still present: %v", err)
	}
}

func TestCleanupRemovesPartialOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out.dcf")

	func() {
		tc, err := fileutil.NewTempContext(out, false)
		if err != nil {
			t.Fatal(err)
		}

		failure := errors.New("cipher failed")
		defer tc.CleanupOnError(&failure)

		if _, err := tc.Write([]byte("half")); err != nil {
			t.Fatal(err)
		}
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 0 {
		t.Errorf("directory not empty after failed write: %v", entries)
	}
}

func TestExistingOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "taken")

	if err := os.WriteFile(out, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := fileutil.NewTempContext(out, false); !errors.Is(err, fileutil.ErrFileAlreadyExists) {
		t.Errorf("NewTempContext on existing file = %v, want %v", err, fileutil.ErrFileAlreadyExists)
	}

	tc, err := fileutil.NewTempContext(out, true)
	if err != nil {
		t.Fatal(err)
	}

	var werr error
	defer tc.CleanupOnError(&werr)

	if _, werr = tc.Write([]byte("new")); werr != nil {
		t.Fatal(werr)
	}

	if _, werr = tc.Commit(0o600); werr != nil {
		t.Fatal(werr)
	}

	if b, _ := os.ReadFile(out); string(b) != "new" {
		t.Errorf("overwritten content = %q", b)
	}
}

func TestMissingDirectory(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "nope", "out")

	if _, err := fileutil.NewTempContext(out, false); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("NewTempContext in missing dir = %v, want not-exist error", err)
	}
}

func TestSamePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a")

	if err := os.WriteFile(a, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.SamePath(a, filepath.Join(dir, ".", "a")) {
		t.Error("SamePath did not match equivalent paths")
	}

	if fileutil.SamePath(a, filepath.Join(dir, "b")) {
		t.Error("SamePath matched different paths")
	}
}

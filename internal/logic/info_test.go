package logic_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/config"
	"github.com/slaner/DataChest/internal/encryption"
	"github.com/slaner/DataChest/internal/header"
	"github.com/slaner/DataChest/internal/keys"
	"github.com/slaner/DataChest/internal/logic"
)

func container(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	in := filepath.Join(dir, "hello.txt")
	out := filepath.Join(dir, "hello.txt.dcf")

	if err := os.WriteFile(in, []byte("hello world"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := chest.New().Encrypt(chest.Request{
		Params: chest.Params{
			Algorithm:     encryption.AES,
			Password:      keys.TextSource("pw"),
			HeaderVersion: header.Version2,
			Comment:       "greeting",
		},
		Input:  in,
		Output: out,
	})
	if err != nil {
		t.Fatalf("Encrypt() = %v", err)
	}

	return out
}

func TestRunInfo(t *testing.T) {
	t.Parallel()

	path := container(t)

	var buf bytes.Buffer

	if err := logic.RunInfo(&config.Config{File: path}, &buf); err != nil {
		t.Fatalf("RunInfo() = %v", err)
	}

	out := buf.String()

	for _, want := range []string{"Version:", "Raw size:", "11 B (11 bytes)", "Encrypted size:", "16 B (16 bytes)", `"greeting"`} {
		if !strings.Contains(out, want) {
			t.Errorf("RunInfo() output missing %q:\n%s", want, out)
		}
	}
}

func TestRunInfoJSON(t *testing.T) {
	t.Parallel()

	path := container(t)

	var buf bytes.Buffer

	if err := logic.RunInfo(&config.Config{File: path, JSON: true}, &buf); err != nil {
		t.Fatalf("RunInfo() = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if doc["file"] != path {
		t.Errorf("file = %v, want %q", doc["file"], path)
	}

	if doc["version"] != float64(2) {
		t.Errorf("version = %v, want 2", doc["version"])
	}

	if doc["raw_size"] != float64(11) {
		t.Errorf("raw_size = %v, want 11", doc["raw_size"])
	}

	if sum, _ := doc["header_checksum"].(string); !strings.HasPrefix(sum, "0x") || len(sum) != 10 {
		t.Errorf("header_checksum = %v, want 0x-prefixed hex", doc["header_checksum"])
	}
}

func TestRunInfoRejectsPlainFiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0o600); err != nil {
		t.Fatal(err)
	}

	err := logic.RunInfo(&config.Config{File: path}, &bytes.Buffer{})
	if got := chest.CodeOf(err); got != chest.InvalidSignature {
		t.Errorf("CodeOf(RunInfo()) = %v, want %v", got, chest.InvalidSignature)
	}
}

func TestRunAlgorithms(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logic.RunAlgorithms(&buf)

	for _, p := range encryption.Providers() {
		if !strings.Contains(buf.String(), p.Name) {
			t.Errorf("RunAlgorithms() output missing %q", p.Name)
		}
	}
}

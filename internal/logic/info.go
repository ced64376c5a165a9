package logic

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/config"
	"github.com/slaner/DataChest/internal/encryption"
	"github.com/slaner/DataChest/internal/header"
)

// RunInfo prints the verified header of the configured container.
func RunInfo(cfg *config.Config, w io.Writer) error {
	h, err := chest.New().Inspect(cfg.File)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return writeJSON(w, cfg.File, h)
	}

	fmt.Fprintf(w, "%s\n", cfg.File)

	for _, f := range h.Describe() {
		fmt.Fprintf(w, "  %-20s %s\n", f.Label+":", formatValue(f.Value))
	}

	return nil
}

// RunAlgorithms lists the supported ciphers.
func RunAlgorithms(w io.Writer) {
	fmt.Fprintf(w, "%-3s %-10s %-9s %s\n", "ID", "NAME", "KEY", "BLOCK")

	for _, p := range encryption.Providers() {
		fmt.Fprintf(w, "%-3d %-10s %-9s %d bits\n", p.Algorithm, p.Name, fmt.Sprintf("%d bits", p.KeySize*8), p.BlockSize*8)
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case uint64:
		return fmt.Sprintf("%s (%d bytes)", humanize.IBytes(v), v)
	case uint16:
		return fmt.Sprintf("%d bytes", v)
	case string:
		if v == "" {
			return "(none)"
		}

		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

func writeJSON(w io.Writer, path string, h header.Header) error {
	fields := map[string]any{"file": path}

	for _, f := range h.Describe() {
		key := strings.ReplaceAll(strings.ToLower(f.Label), " ", "_")

		switch v := f.Value.(type) {
		case header.Version:
			fields[key] = uint32(v)
		case header.Checksum:
			fields[key] = v.String()
		case uint16:
			fields[key] = uint32(v)
		default:
			fields[key] = v
		}
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("building header document: %w", err)
	}

	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding header document: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
		return fmt.Errorf("writing header document: %w", err)
	}

	return nil
}

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/curator/internal/core/domain"
)

var style = styles.DefaultStyles()

// writeRecords writes records as JSON Lines in field order.
func writeRecords(w io.Writer, records []domain.Record) error {
	bw := bufio.NewWriter(w)
	for i, r := range records {
		data, err := r.MarshalJSON()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeRecordsFile writes records to dir/name.jsonl, creating dir if needed.
func writeRecordsFile(dir, name string, records []domain.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name+".jsonl")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := writeRecords(f, records); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// namedPart is one output of a partition command.
type namedPart struct {
	name    string
	records []domain.Record
}

// emitParts prints part sizes and, when outDir is set, writes each part.
func emitParts(cmd *cobra.Command, outDir string, parts []namedPart) error {
	width := 0
	for _, p := range parts {
		width = max(width, len(p.name)+1)
	}

	for _, p := range parts {
		line := style.KeyValue(p.name, width, len(p.records))
		if outDir != "" {
			path, err := writeRecordsFile(outDir, p.name, p.records)
			if err != nil {
				return err
			}
			line += " " + style.Muted.Render("-> "+path)
		}
		cmd.Println(line)
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

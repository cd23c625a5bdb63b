package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/jobmatch/internal/observability"
)

// Output formats accepted by --format.
const (
	formatJSON = "json"
	formatText = "text"
)

// writeResult renders v in the selected format to the out file, or to w when out is empty.
func (o *globalOptions) writeResult(w io.Writer, out string, v any) error {
	switch o.format {
	case "", formatJSON:
		return writeJSON(w, out, v)
	case formatText:
		var buf bytes.Buffer
		if !observability.NewPrinter(&buf).Print(v) {
			return fmt.Errorf("text output is not supported for %T", v)
		}
		return writeOutput(w, out, buf.Bytes())
	default:
		return fmt.Errorf("invalid --format %q: must be %s or %s", o.format, formatJSON, formatText)
	}
}

// writeJSON writes v as indented JSON to the out file, or to w when out is empty.
func writeJSON(w io.Writer, out string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output JSON: %w", err)
	}
	return writeOutput(w, out, append(data, '\n'))
}

func writeOutput(w io.Writer, out string, data []byte) error {
	if out == "" {
		_, err := w.Write(data)
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(out)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}
	return nil
}

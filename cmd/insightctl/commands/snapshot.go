package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"deliveryhub/models"
)

// readSnapshot decodes a {historico, atual} document from path, or from in
// when path is "-".
func readSnapshot(path string, in io.Reader) (models.InsightsSnapshot, error) {
	var snapshot models.InsightsSnapshot
	r := in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return snapshot, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}

// writeJSON encodes value to path, or to out when path is "-".
func writeJSON(path string, out io.Writer, value interface{}, pretty bool) error {
	w := out
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

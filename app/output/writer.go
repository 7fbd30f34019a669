package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/g4dge/antifeed/app/feed"
)

// Writer serializes the final item list as an indented UTF-8 JSON
// array, fully replacing any prior content at the output path.
type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Write(items []feed.Item) error {
	if items == nil {
		items = []feed.Item{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	// Keep non-ASCII and HTML characters readable in the output file
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(items); err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(w.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

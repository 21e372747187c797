package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"hanzi/internal/domain"
)

// JSONCodec handles the current export document
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads an export document or a bare character array
func (c *JSONCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	snap, err := domain.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return snap, nil
}

// Export writes the snapshot as indented JSON with non-ASCII text kept as is
func (c *JSONCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

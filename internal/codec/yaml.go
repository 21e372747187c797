package codec

import (
	"errors"
	"fmt"
	"io"

	"hanzi/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles the export document in YAML form
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads a YAML export document or a bare sequence of characters
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty import document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	if doc.Kind == yaml.SequenceNode {
		var chars []domain.SnapshotCharacter
		if err := doc.Decode(&chars); err != nil {
			return nil, fmt.Errorf("failed to parse YAML character list: %w", err)
		}
		return &domain.Snapshot{Characters: chars}, nil
	}

	var snap domain.Snapshot
	if err := doc.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &snap, nil
}

// Export writes the snapshot as YAML
func (c *YAMLCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}

	return nil
}

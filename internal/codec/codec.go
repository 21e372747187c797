package codec

import (
	"fmt"
	"io"

	"hanzi/internal/domain"
)

// Importer parses an import file into a snapshot
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes a snapshot in some format
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
}

// NewImporter returns the importer for format: "json", "yaml" or "legacy".
func NewImporter(format string) (Importer, error) {
	switch format {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "legacy":
		return NewLegacyCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}

// NewExporter returns the exporter for format: "json" or "yaml".
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Package codec reads and writes session documents and renders them as SVG.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformed marks input that cannot become a session: bad syntax,
	// missing nodes or links, or inconsistent node fields.
	ErrMalformed = errors.New("codec: malformed document")

	ErrUnsupportedFormat = errors.New("codec: unsupported format")
)

// Importer parses a session document.
type Importer interface {
	Parse(r io.Reader) (*Document, error)
	Format() string
}

// Exporter writes a session document.
type Exporter interface {
	Export(doc *Document, w io.Writer) error
	Format() string
}

// Codec can do both; only session formats implement it.
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the session codec for "json" or "yaml".
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// ForPath picks a session codec by file extension.
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("%q has no extension: %w", path, ErrUnsupportedFormat)
	}
	return ForFormat(ext)
}

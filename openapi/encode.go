package openapi

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a Document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// MarshalIndentJSON returns the document as indented JSON.
func (d *Document) MarshalIndentJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Encode writes the document to w in the given format.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		data, err := d.MarshalIndentJSON()
		if err != nil {
			return fmt.Errorf("openapi: encode json: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("openapi: write: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("openapi: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("openapi: unsupported format %q", format)
	}
}

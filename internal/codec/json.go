package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports an archive from JSON
func (c *JSONCodec) Parse(r io.Reader) (*Archive, error) {
	var archive Archive
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&archive); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &archive, nil
}

// Export writes an archive to JSON
func (c *JSONCodec) Export(archive *Archive, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(archive); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/schema"
)

// Supported artifact formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnsupportedFormat is returned for artifact formats other than JSON and YAML.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrInvalidArtifact is returned when an artifact is not a well-formed document.
var ErrInvalidArtifact = errors.New("invalid block artifact")

// ParseFormat normalizes a format name or file extension ("yml", ".json").
func ParseFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
}

// Parse decodes an exported artifact. An empty format sniffs the content:
// documents starting with '{' are JSON, everything else is YAML.
func Parse(data []byte, format string) (schema.Bundle, error) {
	if format == "" {
		format = FormatYAML
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			format = FormatJSON
		}
	}

	f, err := ParseFormat(format)
	if err != nil {
		return schema.Bundle{}, err
	}
	decode := schema.DecodeYAML
	if f == FormatJSON {
		decode = schema.DecodeJSON
	}
	b, err := decode(data)
	if err != nil {
		return schema.Bundle{}, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return b, nil
}

// Encode serializes a bundle in the given format. JSON is pretty-printed.
func Encode(b schema.Bundle, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == FormatJSON {
		data, err := b.MarshalIndentJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return data, nil
	}
	return b.EncodeYAML()
}

// Package source loads question banks from files and over HTTP.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"spice-theory/internal/domain"
)

// Format is the encoding of a bank document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor guesses the encoding from a file name or URL path.
func FormatFor(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a bank document.
func Decode(data []byte, format Format) (domain.Bank, error) {
	var bank domain.Bank
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &bank); err != nil {
			return domain.Bank{}, fmt.Errorf("parse yaml bank: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&bank); err != nil {
			return domain.Bank{}, fmt.Errorf("parse json bank: %w", err)
		}
	}
	return bank, nil
}

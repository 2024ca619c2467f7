// Package importer parses exports from other password managers into vault
// items. Supported formats: Bitwarden JSON, LastPass CSV, 1Password CSV.
package importer

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/passguard/passguard/pkg/vault"
)

// Source identifies the export format.
type Source string

const (
	SourceBitwarden Source = "bitwarden"
	SourceLastPass  Source = "lastpass"
	Source1Password Source = "1password"
)

// Result holds the parsed items plus anything the parser could not use.
type Result struct {
	Items    []vault.Item
	Warnings []string
	Skipped  []SkippedItem
}

// SkippedItem records an entry that could not be converted.
type SkippedItem struct {
	Name   string
	Reason string
}

// Parser converts one export format into vault items.
type Parser interface {
	Parse(data []byte) (*Result, error)
	Source() Source
}

// NewParser returns the parser for a source name.
func NewParser(source string) (Parser, error) {
	switch Source(strings.ToLower(source)) {
	case SourceBitwarden:
		return &BitwardenParser{}, nil
	case SourceLastPass:
		return &LastPassParser{}, nil
	case Source1Password:
		return &OnePasswordParser{}, nil
	default:
		return nil, fmt.Errorf("importer: unknown source %q (want bitwarden, lastpass, or 1password)", source)
	}
}

// sanitizeTag canonicalizes an imported item name into a tag. Blank names
// get a positional fallback so every imported item stays addressable.
func sanitizeTag(name string, counter *int) string {
	tag := norm.NFC.String(strings.TrimSpace(name))
	if tag == "" {
		tag = fmt.Sprintf("imported-%d", *counter)
	}
	*counter++
	return tag
}

// Package manifest reads the optional Clean Language package manifest
// (spec.md §6.3 "a TOML-style file declaring package metadata. Not
// required to compile a single file."). Compiling a single source file
// never touches this package; it exists for tooling (the future package
// manager out of scope per spec.md §1) that wants to resolve a package's
// declared name, version, and entry point ahead of reading any source.
//
// No pack example repo carries a TOML dependency for anything resembling
// this (go-dws has no manifest format at all), so rather than introduce an
// ungrounded third-party parser for a handful of `key = "value"` lines,
// this is a small hand-rolled scanner covering the TOML subset the format
// actually needs: top-level assignments and one `[dependencies]` table.
// Arrays, inline tables, multi-line strings, and nested tables are not
// supported (see DESIGN.md).
package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Manifest is one package's declared metadata.
type Manifest struct {
	Name         string
	Version      string
	Entry        string
	Dependencies map[string]string
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses manifest source text.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{Dependencies: map[string]string{}}
	section := ""

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := stripComment(scanner.Text())
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "[") {
			if !strings.HasSuffix(text, "]") {
				return nil, fmt.Errorf("manifest: line %d: malformed table header %q", line, text)
			}
			section = strings.TrimSpace(text[1 : len(text)-1])
			continue
		}

		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("manifest: line %d: expected `key = value`, got %q", line, text)
		}
		key = strings.TrimSpace(key)
		val, err := unquote(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("manifest: line %d: %w", line, err)
		}

		switch section {
		case "":
			switch key {
			case "name":
				m.Name = val
			case "version":
				m.Version = val
			case "entry":
				m.Entry = val
			default:
				return nil, fmt.Errorf("manifest: line %d: unknown top-level key %q", line, key)
			}
		case "dependencies":
			m.Dependencies[key] = val
		default:
			return nil, fmt.Errorf("manifest: line %d: unknown table [%s]", line, section)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return m, nil
}

func stripComment(line string) string {
	inString := false
	for i, r := range line {
		switch r {
		case '"':
			inString = !inString
		case '#':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

func unquote(s string) (string, error) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strconv.Unquote(s)
	}
	return "", fmt.Errorf("value %q is not a quoted string (only string values are supported)", s)
}

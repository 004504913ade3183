package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds node, edge and column identifiers.
const maxIdentifierLength = 256

// ValidateIdentifier checks a node, edge or column identifier from an input
// document. kind names the identifier in the diagnostic ("node id", "edge id").
//
// Rules:
//   - not empty
//   - at most 256 bytes
//   - no control characters
//   - no surrounding whitespace
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "%s cannot be empty", kind)
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidDocument, "%s too long (max %d characters)", kind, maxIdentifierLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "%s %q contains control characters", kind, id)
		}
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidDocument, "%s %q has leading or trailing whitespace", kind, id)
	}
	return nil
}

// Document formats recognized by file extension.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DocumentFormat returns the document format implied by path's extension.
// It returns ErrCodeInvalidPath for an empty path or a path containing a
// null byte, and ErrCodeInvalidFormat for an unrecognized extension.
func DocumentFormat(path string) (string, error) {
	if path == "" {
		return "", New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", New(ErrCodeInvalidFormat, "unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

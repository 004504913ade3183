package document

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lineageview/pkg/errors"
)

// Read decodes a document in the given format ([errors.FormatJSON] or
// [errors.FormatYAML]) and validates it.
func Read(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case errors.FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case errors.FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return Document{}, errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", format)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ReadFile reads a document from disk. The format is chosen by extension.
func ReadFile(path string) (Document, error) {
	format, err := errors.DocumentFormat(path)
	if err != nil {
		return Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Write encodes doc in the given format. JSON output is indented with two
// spaces.
func Write(w io.Writer, doc Document, format string) error {
	switch format {
	case errors.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
	case errors.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", format)
	}
	return nil
}

// WriteFile writes doc to path in the format implied by its extension.
// The file is created with 0644 permissions.
func WriteFile(path string, doc Document) error {
	format, err := errors.DocumentFormat(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

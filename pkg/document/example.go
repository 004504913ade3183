package document

import (
	"bytes"
	_ "embed"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageview/pkg/errors"
)

//go:embed example.json
var exampleJSON []byte

// Example returns the built-in e-commerce lineage document: three raw
// tables feeding an Airflow pipeline, which populates a fact and a dimension
// table read by a Looker dashboard.
func Example() Document {
	doc, err := Read(bytes.NewReader(exampleJSON), errors.FormatJSON)
	if err != nil {
		panic("document: invalid built-in example: " + err.Error())
	}
	return doc
}

// LoadOrExample reads the document at path. If path is empty, missing, or
// cannot be decoded, the built-in [Example] is returned instead and a warning
// is logged; the visualization is never empty. A document that decodes but
// is structurally invalid is still reported as an error.
//
// The boolean result reports whether the fallback was used.
func LoadOrExample(path string, logger *log.Logger) (Document, bool, error) {
	if logger == nil {
		logger = log.Default()
	}
	if path == "" {
		logger.Debug("no lineage document given, using built-in example")
		return Example(), true, nil
	}

	doc, err := ReadFile(path)
	if err == nil {
		logger.Debug("loaded lineage document", "path", path, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
		return doc, false, nil
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeFileNotFound, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		logger.Warn("could not read lineage document, using built-in example", "path", path, "err", errors.UserMessage(err))
		return Example(), true, nil
	default:
		return Document{}, false, err
	}
}

package cli

import (
	"bytes"
	"testing"

	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/errors"
)

func TestWriteExample(t *testing.T) {
	tests := []struct {
		format, readAs string
	}{
		{"json", errors.FormatJSON},
		{"yaml", errors.FormatYAML},
		{"yml", errors.FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeExample(&buf, tt.format); err != nil {
				t.Fatalf("writeExample(%q) error = %v", tt.format, err)
			}
			doc, err := document.Read(&buf, tt.readAs)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(doc.Nodes) != 7 || len(doc.Edges) != 7 {
				t.Errorf("decoded %d nodes, %d edges; want 7 and 7", len(doc.Nodes), len(doc.Edges))
			}
		})
	}
}

func TestWriteExampleUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExample(&buf, "xml"); err == nil {
		t.Error("writeExample(xml) error = nil, want an error")
	}
}

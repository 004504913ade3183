package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , Pdf", []string{"svg", "pdf"}},
		{"duplicates", "svg,svg", []string{"svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "pdf", "png"}, false},
		{"json is not a render format", []string{"json"}, true},
		{"mixed valid invalid", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		multiple              bool
		want                  string
	}{
		{"lineage.json", "", "svg", false, "lineage.svg"},
		{"lineage.json", "", "png", true, "lineage.png"},
		{"lineage.json", "out/diagram.svg", "svg", false, "out/diagram.svg"},
		{"lineage.json", "out/diagram.svg", "pdf", true, "out/diagram.pdf"},
		{"", "", "svg", false, "example.svg"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.format, tt.multiple); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.input, tt.output, tt.format, tt.multiple, got, tt.want)
		}
	}
}

func TestRunRenderSVG(t *testing.T) {
	c := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "diagram.svg")

	opts := renderOpts{
		output:  out,
		formats: []string{formatSVG},
		noCache: true,
		state:   stateOpts{expand: []string{"dim_customer"}},
	}
	if err := c.runRender(t.Context(), "", opts); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("output does not start with <svg: %.40q", svg)
	}
	if got := strings.Count(svg, "edge--column"); got < 5 {
		t.Errorf("column edge paths = %d, want at least 5", got)
	}
}

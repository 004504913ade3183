package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/render"
	"github.com/matzehuels/lineageview/pkg/render/svg"
)

// Output formats accepted by --format.
const (
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

var validFormats = []string{formatSVG, formatPDF, formatPNG}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats []string // output formats: svg, pdf, png
	scale   float64  // PNG zoom factor
	ports   bool     // draw column port markers
	title   string   // SVG <title>
	noCache bool
	state   stateOpts
}

// renderCommand creates the render command for exporting diagram snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render [lineage.json]",
		Short: "Render the diagram to SVG, PDF or PNG",
		Long: `Render the diagram to SVG, PDF or PNG.

The snapshot shows the fitted viewport exactly as the interactive view would
draw it, including expanded tables, column edges and highlight classes.
PDF and PNG output require rsvg-convert (librsvg) on PATH.`,
		Example: `  lineageview render lineage.json
  lineageview render lineage.json -e fact_orders,dim_customer -f svg,png
  lineageview render --expand-all --highlight-column dim_customer:full_name`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), inputArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG zoom factor")
	cmd.Flags().BoolVar(&opts.ports, "ports", false, "draw column port markers on expanded tables")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG title (default: input name)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	opts.state.register(cmd)

	return cmd
}

// parseFormats parses the --format flag. An empty flag means SVG.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown format %q: want one of %s", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

// outputPath returns where format is written. A single format uses the
// --output path as is; multiple formats treat it as a base name.
func outputPath(input, output, format string, multiple bool) string {
	if output == "" {
		return defaultOutput(input, "."+format)
	}
	if !multiple {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	d, cached, err := c.buildDiagram(ctx, input, opts.noCache, opts.state)
	if err != nil {
		return err
	}

	title := opts.title
	if title == "" {
		title = filepath.Base(defaultOutput(input, ""))
	}
	svgOpts := []svg.Option{svg.WithSize(d.Surface().ViewportSize()), svg.WithTitle(title)}
	if opts.ports {
		svgOpts = append(svgOpts, svg.WithPorts())
	}

	frame := d.Frame()
	doc := svg.Render(frame, svgOpts...)

	var written []string
	for _, format := range opts.formats {
		data := doc
		switch format {
		case formatPDF:
			data, err = render.ToPDF(ctx, doc)
		case formatPNG:
			data, err = render.ToPNG(ctx, doc, opts.scale)
		}
		if err != nil {
			return fmt.Errorf("convert to %s: %w", format, err)
		}

		path := outputPath(input, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %s", describeInput(input))
	for _, path := range written {
		printFile(path)
	}
	printStats(len(frame.Nodes), len(frame.Edges), len(frame.ColumnEdges), cached)
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/errors"
)

// layoutCommand creates the layout command for computing diagram frames.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		state   stateOpts
	)

	cmd := &cobra.Command{
		Use:   "layout [lineage.json]",
		Short: "Compute the diagram layout and write the frame as JSON",
		Long: `Compute the diagram layout and write the frame as JSON.

The frame holds everything a surface needs to draw the diagram: node boxes
in graph coordinates, routed table and column edge paths, system group boxes,
the fitted viewport transform and the highlight classes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), inputArg(args), output, noCache, state)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.frame.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	state.register(cmd)

	return cmd
}

// runLayout loads the document, lays it out and writes the frame.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, state stateOpts) error {
	d, cached, err := c.buildDiagram(ctx, input, noCache, state)
	if err != nil {
		return err
	}

	frame := d.Frame()
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode frame")
	}
	data = append(data, '\n')

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if output == "" {
		output = defaultOutput(input, ".frame.json")
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(frame.Nodes), len(frame.Edges), len(frame.ColumnEdges), cached)
	printNewline()
	printNextStep("Render", "lineageview render "+input)
	return nil
}

// buildDiagram runs the shared headless pipeline: engine, load, expansion
// and highlight. It reports whether the layout came from the cache.
func (c *CLI) buildDiagram(ctx context.Context, input string, noCache bool, state stateOpts) (*diagram.Diagram, bool, error) {
	engine, closeCache, err := c.newEngine(noCache)
	if err != nil {
		return nil, false, err
	}
	defer closeCache()

	hits := c.cacheStats.Hits()
	prog := newProgress(c.Logger)

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %s...", describeInput(input)))
	spinner.Start()
	d, err := c.loadDiagram(ctx, input, engine)
	spinner.Stop()
	if err != nil {
		return nil, false, err
	}
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	prog.done(fmt.Sprintf("Laid out %d nodes with %s", d.Graph().NodeCount(), engine.Name()))

	if err := state.apply(d); err != nil {
		return nil, false, err
	}
	return d, c.cacheStats.Hits() > hits, nil
}

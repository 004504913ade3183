package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// stateOpts describes the expansion and highlight state a headless command
// puts the diagram in before taking its frame.
type stateOpts struct {
	expand          []string
	expandAll       bool
	highlightNode   string
	highlightColumn string
}

func (o *stateOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.expand, "expand", "e", nil, "table node(s) to expand (comma-separated)")
	cmd.Flags().BoolVar(&o.expandAll, "expand-all", false, "expand every table")
	cmd.Flags().StringVar(&o.highlightNode, "highlight-node", "", "highlight a node and its direct neighbors")
	cmd.Flags().StringVar(&o.highlightColumn, "highlight-column", "", "highlight column lineage for node:column")
	cmd.MarkFlagsMutuallyExclusive("highlight-node", "highlight-column")
	_ = cmd.RegisterFlagCompletionFunc("expand", completeNodes(true))
	_ = cmd.RegisterFlagCompletionFunc("highlight-node", completeNodes(false))
	_ = cmd.RegisterFlagCompletionFunc("highlight-column", completeColumnRefs)
}

// apply expands and highlights through the diagram's controller and
// highlighter, then refits so the snapshot shows the expanded cards.
func (o *stateOpts) apply(d *diagram.Diagram) error {
	ctrl := d.Controller()
	g := d.Graph()

	if o.expandAll {
		ctrl.ExpandAll()
	}
	for _, id := range o.expand {
		n, ok := g.Node(id)
		if !ok {
			return errors.New(errors.ErrCodeUnknownNode, "cannot expand %q: no such node", id)
		}
		if !n.IsTable() {
			return errors.New(errors.ErrCodeInvalidInput, "cannot expand %q: only tables have columns", id)
		}
		if !g.IsExpanded(id) {
			ctrl.ToggleExpanded(id)
		}
	}
	if o.expandAll || len(o.expand) > 0 {
		ctrl.Fit()
	}

	switch {
	case o.highlightNode != "":
		if !d.Highlighter().HighlightNode(o.highlightNode) {
			return errors.New(errors.ErrCodeUnknownNode, "cannot highlight %q: no such node", o.highlightNode)
		}
	case o.highlightColumn != "":
		ref, err := parseColumnRef(o.highlightColumn)
		if err != nil {
			return err
		}
		if n, ok := g.Node(ref.NodeID); !ok || !n.HasColumn(ref.Column) {
			return errors.New(errors.ErrCodeUnknownNode, "cannot highlight %s: no such column", ref)
		}
		d.Highlighter().HighlightColumn(ref.NodeID, ref.Column)
	}
	return nil
}

// parseColumnRef splits "node:column" at the first colon.
func parseColumnRef(s string) (lineage.ColumnRef, error) {
	node, column, ok := strings.Cut(s, ":")
	if !ok || node == "" || column == "" {
		return lineage.ColumnRef{}, errors.New(errors.ErrCodeInvalidInput, "column reference %q: want node:column", s)
	}
	return lineage.ColumnRef{NodeID: node, Column: column}, nil
}

// defaultOutput derives an output path from the input: lineage.json becomes
// lineage<suffix>. Without an input the example name is used.
func defaultOutput(input, suffix string) string {
	if input == "" {
		return "example" + suffix
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(input, ext) {
			return strings.TrimSuffix(input, ext) + suffix
		}
	}
	return input + suffix
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func describeInput(input string) string {
	if input == "" {
		return "built-in example"
	}
	return fmt.Sprintf("%q", input)
}

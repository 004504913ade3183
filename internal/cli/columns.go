package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// Directions shown in the columns table.
const (
	dirUpstream   = "upstream"
	dirDownstream = "downstream"
)

// columnsCommand creates the columns command for printing column lineage.
func (c *CLI) columnsCommand() *cobra.Command {
	var (
		node   string
		column string
	)

	cmd := &cobra.Command{
		Use:   "columns [lineage.json]",
		Short: "Print column-level lineage of a table",
		Long: `Print column-level lineage of a table.

For every column of --node (or only --column) the table lists the columns it
is derived from (upstream) and the columns derived from it (downstream),
one hop in each direction, together with the edge and the pipeline that
carries the mapping.`,
		Example: `  lineageview columns --node dim_customer
  lineageview columns lineage.json --node raw_customers --column first_name`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := document.LoadOrExample(inputArg(args), c.Logger)
			if err != nil {
				return err
			}
			g, err := doc.Graph()
			if err != nil {
				return err
			}
			rows, err := columnRows(g, node, column)
			if err != nil {
				return err
			}
			n, _ := g.Node(node)
			fmt.Println(StyleTitle.Render(n.DisplayLabel()) + " " + StyleDim.Render(n.Subtitle()))
			if len(rows) == 0 {
				printInfo("No column lineage")
				return nil
			}
			fmt.Println(columnsTable(rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&node, "node", "n", "", "table node to inspect")
	cmd.Flags().StringVarP(&column, "column", "c", "", "restrict to one column")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.RegisterFlagCompletionFunc("node", completeNodes(true))
	_ = cmd.RegisterFlagCompletionFunc("column", completeNodeColumns)

	return cmd
}

// columnRows lists one-hop column lineage for the node's columns as
// [column, direction, other column, edge, pipeline] rows.
func columnRows(g *lineage.Graph, nodeID, column string) ([][]string, error) {
	n, ok := g.Node(nodeID)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode, "no such node %q", nodeID)
	}
	if !n.IsTable() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q is a %s; only tables have columns", nodeID, n.Type)
	}

	names := make([]string, 0, len(n.Columns))
	for _, col := range n.Columns {
		names = append(names, col.Name)
	}
	if column != "" {
		if !n.HasColumn(column) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q has no column %q", nodeID, column)
		}
		names = []string{column}
	}

	var rows [][]string
	for _, name := range names {
		for _, l := range g.ColumnLineageReverse(nodeID, name) {
			rows = append(rows, []string{name, dirUpstream, l.Source().String(), l.EdgeID, l.PipelineNode})
		}
		for _, l := range g.ColumnLineageForward(nodeID, name) {
			rows = append(rows, []string{name, dirDownstream, l.Target().String(), l.EdgeID, l.PipelineNode})
		}
	}
	return rows, nil
}

func columnsTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Column", "Direction", "Lineage", "Edge", "Via").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 0:
				return cell.Foreground(colorWhite)
			case 1:
				if row < len(rows) && rows[row][1] == dirUpstream {
					return cell.Foreground(colorPurple)
				}
				return cell.Foreground(colorCyan)
			case 2:
				return cell.Foreground(colorYellow)
			}
			return cell.Foreground(colorDim)
		})
	return t.Render()
}

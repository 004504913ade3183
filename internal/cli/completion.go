package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lineageview.

Node ids and node:column references complete from the document given as the
first argument, or from the built-in example.

  $ source <(lineageview completion bash)
  $ lineageview completion zsh > "${fpath[1]}/_lineageview"
  $ lineageview completion fish | source
  PS> lineageview completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

type completionFunc func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// completionGraph loads the document named by args quietly. Completion must
// never print, so a bad document falls back to the example without a warning.
func completionGraph(args []string) (*lineage.Graph, bool) {
	doc, _, err := document.LoadOrExample(inputArg(args), log.New(io.Discard))
	if err != nil {
		return nil, false
	}
	g, err := doc.Graph()
	if err != nil {
		return nil, false
	}
	return g, true
}

// completeNodes completes node ids, optionally tables only.
func completeNodes(tablesOnly bool) completionFunc {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		g, ok := completionGraph(args)
		if !ok {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return nodeCandidates(g, tablesOnly, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// completeColumnRefs completes node:column references.
func completeColumnRefs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	g, ok := completionGraph(args)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return columnCandidates(g, "", toComplete, true), cobra.ShellCompDirectiveNoFileComp
}

// completeNodeColumns completes the columns of the node chosen with --node.
func completeNodeColumns(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	node, _ := cmd.Flags().GetString("node")
	g, ok := completionGraph(args)
	if !ok || node == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return columnCandidates(g, node, toComplete, false), cobra.ShellCompDirectiveNoFileComp
}

func nodeCandidates(g *lineage.Graph, tablesOnly bool, prefix string) []string {
	var out []string
	for _, n := range g.Nodes() {
		if tablesOnly && !n.IsTable() {
			continue
		}
		if strings.HasPrefix(n.ID, prefix) {
			out = append(out, n.ID)
		}
	}
	return out
}

// columnCandidates lists the columns of node, or of every table when node is
// empty. qualified selects node:column over bare column names.
func columnCandidates(g *lineage.Graph, node, prefix string, qualified bool) []string {
	var out []string
	for _, n := range g.Nodes() {
		if node != "" && n.ID != node {
			continue
		}
		for _, col := range n.Columns {
			s := col.Name
			if qualified {
				s = lineage.ColumnRef{NodeID: n.ID, Column: col.Name}.String()
			}
			if strings.HasPrefix(s, prefix) {
				out = append(out, s)
			}
		}
	}
	return out
}

package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/errors"
)

// exampleCommand creates the example command that prints the built-in document.
func (c *CLI) exampleCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print the built-in example lineage document",
		Long: `Print the built-in example lineage document.

The example is what every command falls back to when no input is given or the
input cannot be read. Use it as a starting point for your own documents.`,
		Example: `  lineageview example > lineage.json
  lineageview example -f yaml -o lineage.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := document.WriteFile(output, document.Example()); err != nil {
					return err
				}
				printSuccess("Example written")
				printFile(output)
				printNextStep("Explore", "lineageview view "+output)
				return nil
			}
			return writeExample(os.Stdout, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", errors.FormatJSON, "output format: json, yaml (ignored with --output)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file; the format follows the extension")

	return cmd
}

func writeExample(w io.Writer, format string) error {
	if format == "yml" {
		format = errors.FormatYAML
	}
	return document.Write(w, document.Example(), format)
}

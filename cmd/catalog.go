package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the reference documents",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reference documents in navigation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newChecklist(nil)
		if err != nil {
			return err
		}
		c, err := svc.Catalog(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ORDER\tSLUG\tTITLE\tSOURCE\t")
		for _, e := range c.Entries {
			order := "-"
			if e.OrderSet {
				order = strconv.Itoa(e.Order)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", order, e.Slug, e.Title, e.SourcePath)
		}
		return w.Flush()
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Render a reference document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		svc, err := newChecklist(nil)
		if err != nil {
			return err
		}
		_, body, err := svc.Document(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if raw {
			fmt.Print(body)
			return nil
		}
		out, err := renderMarkdown(body)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)

	catalogShowCmd.Flags().Bool("raw", false, "Print the markdown source instead of rendering it")
}

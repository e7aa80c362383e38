package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/a11yscope/internal/utils"
)

var checkCmd = &cobra.Command{
	Use:   "check <pageID> [slug]",
	Short: "Show the checklist of a page for one reference document",
	Long: `Show the checklist of a page for one reference document. Without a slug
the first document in navigation order is shown. Each test reports the
latest recorded result, or pending when none exists.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "page")
		if err != nil {
			return err
		}
		slug := ""
		if len(args) == 2 {
			slug = args[1]
		}
		showDoc, _ := cmd.Flags().GetBool("doc")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc, err := newChecklist(db)
		if err != nil {
			return err
		}
		v, err := svc.View(cmd.Context(), ids[0], slug)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", v.Page.URL)
		for _, e := range v.Links {
			marker := " "
			if e.Slug == v.Active.Slug {
				marker = ">"
			}
			fmt.Printf("  %s %-32s %s\n", marker, e.Slug, e.Title)
		}
		fmt.Println()

		if showDoc {
			_, body, err := svc.Document(cmd.Context(), v.Active.Slug)
			if err != nil {
				return err
			}
			out, err := renderMarkdown(body)
			if err != nil {
				return err
			}
			fmt.Print(out)
		}

		if len(v.Items) == 0 {
			fmt.Printf("No tests belong to %q.\n", v.Active.Title)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TEST ID\tNAME\tSTATUS\tRECORDED\t")
		for _, item := range v.Items {
			recorded := "-"
			if item.Latest != nil {
				recorded = item.Latest.CreatedAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", item.Test.ID, utils.Truncate(item.Test.Name, 50), item.Status, recorded)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("doc", false, "Render the reference document above the checklist")
}

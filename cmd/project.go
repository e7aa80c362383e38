package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/a11yscope/internal/utils"
	"github.com/sw33tLie/a11yscope/pkg/checklist"
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := db.CreateProject(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Created project %d (%s)\n", p.ID, p.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with page progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		summaries, err := checklist.ProjectSummaries(cmd.Context(), db)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No projects yet. Create one with 'a11yscope project add <name>'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPAGES\tUNCHECKED\tIN PROGRESS\tPASSING\tFAILING\t")
		for _, s := range summaries {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t\n",
				s.Project.ID, utils.Truncate(s.Project.Name, 40), s.Total, s.Unchecked, s.InProgress, s.Passing, s.Failing)
		}
		return w.Flush()
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <projectID>",
	Short: "Show the pages of a project and their results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "project")
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := checklist.Report(cmd.Context(), db, ids[0])
		if err != nil {
			return err
		}

		s := report.Summary
		fmt.Printf("%s: %d pages, %d unchecked, %d in progress, %d passing, %d failing\n\n",
			s.Project.Name, s.Total, s.Unchecked, s.InProgress, s.Passing, s.Failing)
		if len(report.Pages) == 0 {
			fmt.Println("No pages yet. Add one with 'a11yscope page add' or 'a11yscope page crawl'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tPASS\tFAIL\tPENDING\tUPDATED\t")
		for _, p := range report.Pages {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t\n",
				p.Page.ID, utils.Truncate(p.Page.URL, 70), p.Passing, p.Failing, p.Pending, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
}

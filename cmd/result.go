package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/a11yscope/pkg/storage"
)

// resultCmd represents the result command
var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Record and review test results",
}

func newRecordCmd(value storage.ResultValue) *cobra.Command {
	name := strings.ToLower(string(value))
	return &cobra.Command{
		Use:   name + " <pageID> <testID>",
		Short: fmt.Sprintf("Record a %s result for a test on a page", name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args, "page", "test")
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc, err := newChecklist(db)
			if err != nil {
				return err
			}
			r, err := svc.Submit(cmd.Context(), ids[0], ids[1], string(value))
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s for test %d on page %d (result %d)\n", r.Value, r.TestID, r.PageID, r.ID)
			return nil
		},
	}
}

var resultHistoryCmd = &cobra.Command{
	Use:   "history <pageID>",
	Short: "Print every result recorded for a page, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "page")
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := db.GetPage(cmd.Context(), ids[0]); err != nil {
			return err
		}
		history, err := db.ListResults(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		names, err := testNames(cmd.Context(), db)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tRECORDED\tTEST\tVALUE\t")
		for _, r := range history {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), names[r.TestID], r.Value)
		}
		return w.Flush()
	},
}

var resultLatestCmd = &cobra.Command{
	Use:   "latest <pageID>",
	Short: "Print the current result of every reviewed test on a page, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "page")
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := db.GetPage(cmd.Context(), ids[0]); err != nil {
			return err
		}
		latest, err := db.LatestResults(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		if len(latest) == 0 {
			fmt.Println("No results recorded for this page yet.")
			return nil
		}
		names, err := testNames(cmd.Context(), db)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TEST\tVALUE\tRECORDED\t")
		for _, r := range latest {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", names[r.TestID], r.Value, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func testNames(ctx context.Context, db *storage.DB) (map[int64]string, error) {
	tests, err := db.ListTests(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(tests))
	for _, t := range tests {
		names[t.ID] = t.Name
	}
	return names, nil
}

func init() {
	rootCmd.AddCommand(resultCmd)
	resultCmd.AddCommand(newRecordCmd(storage.Pass))
	resultCmd.AddCommand(newRecordCmd(storage.Fail))
	resultCmd.AddCommand(resultHistoryCmd)
	resultCmd.AddCommand(resultLatestCmd)
}

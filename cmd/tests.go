package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/a11yscope/internal/utils"
	"github.com/sw33tLie/a11yscope/pkg/catalog"
	"github.com/sw33tLie/a11yscope/pkg/storage"
	"github.com/sw33tLie/a11yscope/pkg/testsuite"
)

// testsCmd represents the tests command
var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "Manage test definitions",
	Long: `Manage test definitions. A test name starts with the chapter it belongs
to followed by a dot, e.g. "7.images-alt" is listed under the document
whose slug starts with "7-".`,
}

var testsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a test definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetString("description")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		t, err := db.CreateTest(cmd.Context(), args[0], desc)
		if err != nil {
			return err
		}
		fmt.Printf("Added test %d: %s\n", t.ID, t.Name)
		return nil
	},
}

var testsImportCmd = &cobra.Command{
	Use:   "import <file.json|->",
	Short: "Import test definitions from a JSON file",
	Long: `Import test definitions from a JSON file, or stdin with "-". The file is
either an array or an object with a "tests" array; each element is a name
or an object with "name" and "description". Existing names are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		defs, err := testsuite.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		added, err := db.UpsertTests(cmd.Context(), testsuite.Items(defs))
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d tests (%d already present)\n", added, len(defs)-added)
		return nil
	},
}

var testsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List test definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		slug, _ := cmd.Flags().GetString("slug")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		tests, err := db.ListTests(cmd.Context())
		if err != nil {
			return err
		}
		if slug != "" {
			tests = catalog.MatchTests[storage.Test](slug, tests)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\t")
		for _, t := range tests {
			fmt.Fprintf(w, "%d\t%s\t%s\t\n", t.ID, t.Name, utils.Truncate(t.Description, 60))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(testsCmd)
	testsCmd.AddCommand(testsAddCmd)
	testsCmd.AddCommand(testsImportCmd)
	testsCmd.AddCommand(testsListCmd)

	testsAddCmd.Flags().StringP("description", "d", "", "Test description")
	testsListCmd.Flags().StringP("slug", "s", "", "Only list tests belonging to this document slug")
}

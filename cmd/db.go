package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/a11yscope/internal/utils"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the a11yscope database",
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the sqlite3 client on the a11yscope database",
	Long: `Open the sqlite3 client on the configured database (db.path). The
schema of the projects, pages, tests and results tables is printed first.
Results are append-only; editing them by hand rewrites page history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := utils.GetAbsDBPath(viper.GetString("db.path"))
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("no a11yscope database at %s (create one with 'a11yscope project add')", dbPath)
		}

		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("'db shell' needs the sqlite3 client on PATH; use 'a11yscope db stats' for a summary without it")
		}

		fmt.Printf("--> Schema of %s:\n", dbPath)
		schema := exec.CommandContext(cmd.Context(), sqlitePath, dbPath, ".schema")
		schema.Stdout = os.Stdout
		schema.Stderr = os.Stderr
		if err := schema.Run(); err != nil {
			utils.Log.Warnf("Could not print schema: %v", err)
		}
		fmt.Println("\n--> sqlite3 session (Ctrl+D to exit)")

		session := exec.Command(sqlitePath, "-header", "-column", dbPath)
		session.Stdin = os.Stdin
		session.Stdout = os.Stdout
		session.Stderr = os.Stderr
		return session.Run()
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints row counts for projects, pages, tests and results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "PROJECTS\tPAGES\tTESTS\tRESULTS\t")
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t\n", stats.Projects, stats.Pages, stats.Tests, stats.Results)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(statsCmd)
}

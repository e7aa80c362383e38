package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/a11yscope/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long: `Start the JSON API server. Projects, pages, reference documents and
checklists are served under /api; results are recorded with
POST /api/pages/{id}/results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc, err := newChecklist(db)
		if err != nil {
			return err
		}
		// Fail fast on an unreadable content directory.
		if _, err := svc.Catalog(cmd.Context()); err != nil {
			return err
		}

		srv := server.New(db, svc, viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(cmd.Context(), viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "b", ":8080", "HTTP listen address")
	serveCmd.Flags().StringP("username", "u", "", "Username for basic auth (optional)")
	serveCmd.Flags().StringP("password", "p", "", "Password for basic auth (optional)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("server.username", serveCmd.Flags().Lookup("username"))
	viper.BindPFlag("server.password", serveCmd.Flags().Lookup("password"))
}

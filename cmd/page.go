package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/a11yscope/internal/utils"
	"github.com/sw33tLie/a11yscope/pkg/crawler"
	"github.com/sw33tLie/a11yscope/pkg/whttp"
)

// pageCmd represents the page command
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage the pages of a project",
}

var pageAddCmd = &cobra.Command{
	Use:   "add <projectID> <url>",
	Short: "Add a page to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "project")
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		page, created, err := db.CreatePage(cmd.Context(), ids[0], args[1], title)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Added page %d: %s\n", page.ID, page.URL)
		} else {
			fmt.Printf("Page %d already exists: %s\n", page.ID, page.URL)
		}
		return nil
	},
}

var pageListCmd = &cobra.Command{
	Use:   "list <projectID>",
	Short: "List the pages of a project",
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

		if _, err := db.GetProject(cmd.Context(), ids[0]); err != nil {
			return err
		}
		pages, err := db.ListPages(cmd.Context(), ids[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tTITLE\t")
		for _, p := range pages {
			fmt.Fprintf(w, "%d\t%s\t%s\t\n", p.ID, p.URL, utils.Truncate(p.Title, 50))
		}
		return w.Flush()
	},
}

var pageCrawlCmd = &cobra.Command{
	Use:   "crawl <projectID> <startURL>",
	Short: "Discover pages by following same-site links and add them to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "project")
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := db.GetProject(cmd.Context(), ids[0]); err != nil {
			return err
		}

		client, err := whttp.NewClient(viper.GetString("proxy"), viper.GetInt("crawl.retries"))
		if err != nil {
			return err
		}
		cfg := crawler.Config{
			Client:      client,
			Limit:       viper.GetInt("crawl.limit"),
			MaxDepth:    viper.GetInt("crawl.depth"),
			Concurrency: viper.GetInt("crawl.concurrency"),
			Log:         utils.Log,
		}

		utils.Log.Infof("Crawling %s (limit %d, depth %d)", args[1], cfg.Limit, cfg.MaxDepth)
		pages, err := crawler.Crawl(cmd.Context(), args[1], cfg)
		if err != nil && len(pages) == 0 {
			return err
		}
		if err != nil {
			utils.Log.Warnf("Crawl stopped early: %v", err)
		}

		added := 0
		for _, p := range pages {
			if dryRun {
				fmt.Println(p.URL)
				continue
			}
			page, created, err := db.CreatePage(cmd.Context(), ids[0], p.URL, p.Title)
			if err != nil {
				utils.Log.Warnf("Could not add %s: %v", p.URL, err)
				continue
			}
			if created {
				added++
				utils.Log.Debugf("Added page %d: %s", page.ID, page.URL)
			}
		}
		if !dryRun {
			fmt.Printf("Discovered %d pages, added %d new\n", len(pages), added)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.AddCommand(pageAddCmd)
	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageCrawlCmd)

	pageAddCmd.Flags().StringP("title", "t", "", "Page title")

	pageCrawlCmd.Flags().Bool("dry-run", false, "Print discovered URLs without adding them")
	pageCrawlCmd.Flags().IntP("limit", "n", 25, "Maximum number of pages to discover")
	pageCrawlCmd.Flags().IntP("depth", "d", 2, "Maximum link depth from the start page")
	pageCrawlCmd.Flags().IntP("concurrency", "c", 5, "Number of concurrent fetches")
	pageCrawlCmd.Flags().Int("retries", 3, "Retries per request")
	viper.BindPFlag("crawl.limit", pageCrawlCmd.Flags().Lookup("limit"))
	viper.BindPFlag("crawl.depth", pageCrawlCmd.Flags().Lookup("depth"))
	viper.BindPFlag("crawl.concurrency", pageCrawlCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("crawl.retries", pageCrawlCmd.Flags().Lookup("retries"))
}

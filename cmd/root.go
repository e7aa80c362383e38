package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/a11yscope/content"
	"github.com/sw33tLie/a11yscope/internal/utils"
	"github.com/sw33tLie/a11yscope/pkg/checklist"
	"github.com/sw33tLie/a11yscope/pkg/storage"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	       _ _
	  __ _/ / |_   _ ___  ___ ___  _ __   ___
	 / _' | | | | | / __|/ __/ _ \| '_ \ / _ \
	| (_| | | | |_| \__ \ (_| (_) | |_) |  __/
	 \__,_|_|_|\__, |___/\___\___/| .__/ \___|
	           |___/              |_|
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a11yscope",
	Short: "Track manual accessibility testing across the pages of a site.",
	Long: LOGO + `
a11yscope keeps a checklist of accessibility tests for every page of your
projects. Reference documents group the tests into chapters; record a pass
or fail per test and page, and the latest result always wins.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.a11yscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy used when crawling (Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default a11yscope.sqlite)")
	rootCmd.PersistentFlags().String("content", "", "Directory of reference documents (default: bundled documents)")

	viper.BindPFlag("proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("dbpath"))
	viper.BindPFlag("content.dir", rootCmd.PersistentFlags().Lookup("content"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("db.path", "a11yscope.sqlite")
	viper.SetDefault("content.dir", "")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")
	viper.SetDefault("crawl.concurrency", 5)
	viper.SetDefault("crawl.limit", 25)
	viper.SetDefault("crawl.depth", 2)
	viper.SetDefault("crawl.retries", 3)
	viper.SetDefault("proxy", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".a11yscope")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("A11YSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".a11yscope.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				utils.Log.Debugf("Could not create config file: %v", err)
			}
		} else {
			utils.Log.Warnf("Could not read config file: %v", err)
		}
	} else {
		utils.Log.Debugf("Using config file %s", viper.ConfigFileUsed())
	}
}

// openDB opens the configured database.
func openDB() (*storage.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		dbPath = "a11yscope.sqlite"
	}
	absPath, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not resolve db path: %w", err)
	}
	utils.Log.Debugf("Opening database %s", absPath)
	return storage.Open(absPath)
}

// contentSource returns the reference documents: the configured directory,
// or the bundled set when none is configured.
func contentSource() (fs.FS, string, error) {
	dir := viper.GetString("content.dir")
	if dir == "" {
		return content.FS, content.Dir, nil
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, "", err
	}
	return os.DirFS(expanded), ".", nil
}

func newChecklist(db *storage.DB) (*checklist.Service, error) {
	fsys, dir, err := contentSource()
	if err != nil {
		return nil, err
	}
	return &checklist.Service{DB: db, Content: fsys, Dir: dir, Log: utils.Log}, nil
}

// parseIDs parses positional id arguments in order, naming each by kinds.
func parseIDs(args []string, kinds ...string) ([]int64, error) {
	ids := make([]int64, len(kinds))
	for i, kind := range kinds {
		id, err := utils.ParseID(kind, args[i])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"karst-backend/lib/scrapers/lezec"
	"karst-backend/lib/telemetry"
	catalogdb "karst-backend/services/catalog/db"
	ticksdb "karst-backend/services/ticks/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	_ "modernc.org/sqlite"
)

var (
	dbPath  string
	baseURL string
	delay   time.Duration
	debug   bool
	dumpDir string
)

var rootCmd = &cobra.Command{
	Use:   "karst-cli",
	Short: "karst-cli manages the Moravský Kras climbing catalog and diary imports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(debug)
		err := telemetry.SetupFromEnv(cmd.Context(), "karst-cli")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "karst.db", "path to the sqlite database")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", lezec.DefaultBaseURL, "base url of lezec.cz")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", lezec.DefaultDelay, "delay between requests to lezec.cz")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump-pages", "", "write every fetched page to this directory")
}

func Execute() {
	defer telemetry.Shutdown(context.Background())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDatabase() (*sql.DB, error) {
	sqlite, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	for _, schema := range []string{catalogdb.Schema, ticksdb.Schema} {
		_, err = sqlite.Exec(schema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			sqlite.Close()
			return nil, err
		}
	}
	return sqlite, nil
}

func newClient() (*lezec.Client, error) {
	client, err := lezec.NewClient(baseURL, delay)
	if err != nil {
		return nil, err
	}
	if dumpDir != "" {
		if err := client.EnablePageDump(dumpDir); err != nil {
			return nil, err
		}
	}
	return client, nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

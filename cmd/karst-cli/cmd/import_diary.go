package cmd

import (
	"fmt"

	"karst-backend/services/catalog"
	"karst-backend/services/diaryimport"
	"karst-backend/services/ticks"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var importUser string

func init() {
	importDiaryCmd.Flags().StringVar(&importUser, "user", "", "local user to record ticks for (defaults to the diary name)")
	rootCmd.AddCommand(importDiaryCmd)
}

var importDiaryCmd = &cobra.Command{
	Use:   "import-diary <diary name>",
	Short: "Import Moravský Kras ticks from a public lezec.cz diary.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		displayName := args[0]
		user := importUser
		if user == "" {
			user = displayName
		}

		db, err := openDatabase()
		if err != nil {
			fatal(err)
		}
		defer db.Close()

		client, err := newClient()
		if err != nil {
			fatal(err)
		}

		importer := diaryimport.NewImporter(
			client,
			catalog.NewService(db),
			ticks.NewService(db),
		)
		result := importer.Run(cmd.Context(), user, displayName)

		fmt.Println(result.Message)
		if !result.Success {
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"matched", "created", "existing", "not found", "errors"})
		t.AppendRow(table.Row{
			result.Matched,
			result.Created,
			result.Existing,
			result.NotFound,
			result.Errors,
		})
		t.Render()
	},
}

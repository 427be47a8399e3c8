package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"karst-backend/lib/scrapers/lezec"
	"karst-backend/services/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeType       string
	scrapeLocation   int
	scrapeLimit      int
	scrapeOutput     string
	scrapeImport     bool
	scrapeRouteTypes = map[string]string{
		"boulder":  lezec.RouteTypeBoulder,
		"mountain": lezec.RouteTypeMountain,
		"rock":     lezec.RouteTypeRock,
		"all":      "",
	}
)

func init() {
	scrapeCatalogCmd.Flags().StringVar(&scrapeType, "type", "boulder", "route type: boulder, mountain, rock or all")
	scrapeCatalogCmd.Flags().IntVar(&scrapeLocation, "location", lezec.LocationMoravskyKras, "lezec.cz location id, 0 for all")
	scrapeCatalogCmd.Flags().IntVar(&scrapeLimit, "limit", 0, "stop after this many routes, 0 for all")
	scrapeCatalogCmd.Flags().StringVar(&scrapeOutput, "output", "", "write scraped routes as json to this file instead of stdout")
	scrapeCatalogCmd.Flags().BoolVar(&scrapeImport, "import", false, "load scraped routes into the catalog database")
	rootCmd.AddCommand(scrapeCatalogCmd)
}

var scrapeCatalogCmd = &cobra.Command{
	Use:   "scrape-catalog",
	Short: "Scrape the lezec.cz route list into json or the local catalog.",
	Run: func(cmd *cobra.Command, args []string) {
		routeType, ok := scrapeRouteTypes[scrapeType]
		if !ok {
			fatal(fmt.Errorf("unknown route type %q", scrapeType))
		}

		client, err := newClient()
		if err != nil {
			fatal(err)
		}

		routes, err := client.FetchRoutes(cmd.Context(), lezec.RouteFilter{
			Type:       routeType,
			LocationID: scrapeLocation,
		})
		if err != nil {
			fatal(err)
		}
		if scrapeLimit > 0 && len(routes) > scrapeLimit {
			routes = routes[:scrapeLimit]
		}

		if scrapeImport {
			db, err := openDatabase()
			if err != nil {
				fatal(err)
			}
			defer db.Close()

			imported, err := catalog.NewService(db).ImportRoutes(cmd.Context(), routes)
			if err != nil {
				fatal(err)
			}

			t := newTable()
			t.AppendHeader(table.Row{"scraped", "imported"})
			t.AppendRow(table.Row{len(routes), imported})
			t.Render()
			return
		}

		out := os.Stdout
		if scrapeOutput != "" {
			out, err = os.Create(scrapeOutput)
			if err != nil {
				fatal(err)
			}
			defer out.Close()
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(routes); err != nil {
			fatal(err)
		}
	},
}

package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kittclouds/wikiqa/internal/errors"
)

// SearchCmd lists entities matching a text fragment.
var SearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find entities by label, description or alias",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchLimit int

func init() {
	SearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum hits (default from config)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	limit := searchLimit
	if limit <= 0 {
		limit = cfg.Search.Limit
	}

	backends, closeAll, err := openBackends()
	if err != nil {
		return err
	}
	defer closeAll()

	for _, b := range backends {
		hits, err := b.SearchEntities(text, limit)
		if err != nil {
			return errors.Wrapf(err, "%s", b.name)
		}
		pterm.DefaultSection.Println(b.name)
		if len(hits) == 0 {
			pterm.Info.Println("No matches")
			continue
		}
		data := pterm.TableData{{"ID", "Label", "Description"}}
		for _, h := range hits {
			data = append(data, []string{h.ID, h.Label, h.Description})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}
	return nil
}

package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kittclouds/wikiqa/internal/errors"
)

// StatsCmd prints entity, property and statement counts.
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show backend statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	backends, closeAll, err := openBackends()
	if err != nil {
		return err
	}
	defer closeAll()

	data := pterm.TableData{{"Backend", "Path", "Entities", "Properties", "Statements"}}
	for _, b := range backends {
		st, err := b.GetDatabaseStats()
		if err != nil {
			return errors.Wrapf(err, "%s", b.name)
		}
		path := cfg.Relational.Path
		if b.name == BackendDocument {
			path = cfg.Document.Path
		}
		data = append(data, []string{b.name, path,
			itoa(st.EntitiesCount), itoa(st.PropertiesCount), itoa(st.StatementsCount)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

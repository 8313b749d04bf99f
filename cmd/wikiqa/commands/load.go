package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/store"
)

// LoadCmd imports entities into the selected backends.
var LoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Import entities from a JSON file or the built-in sample",
	Long: `Import entities into the selected backends.

The file holds either an array of records or an object mapping entity ids
to records. Malformed records are skipped and reported; the rest of the
batch still loads.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

var (
	loadSample     bool
	loadShowErrors int
)

func init() {
	LoadCmd.Flags().BoolVar(&loadSample, "sample", false, "Load the built-in sample entities")
	LoadCmd.Flags().IntVar(&loadShowErrors, "show-errors", 10, "Maximum number of record errors to print")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadSample == (len(args) == 1) {
		return errors.New("give either a file or --sample")
	}

	backends, closeAll, err := openBackends()
	if err != nil {
		return err
	}
	defer closeAll()

	data := pterm.TableData{{"Backend", "Stored", "Skipped", "Failed"}}
	var failed []error
	for _, b := range backends {
		var res store.ImportResult
		if loadSample {
			res = b.Seed()
		} else {
			res, err = b.StoreWikidata(args[0])
			if err != nil {
				return errors.Wrapf(err, "%s", b.name)
			}
		}
		data = append(data, []string{b.name, itoa(res.Stored), itoa(res.Skipped), itoa(res.Failed)})
		failed = append(failed, res.Errors...)
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	for i, e := range failed {
		if i == loadShowErrors {
			pterm.Warning.Printfln("... %d more", len(failed)-i)
			break
		}
		pterm.Warning.Println(e.Error())
	}
	if len(failed) == 0 {
		pterm.Success.Println("Import complete")
	}
	return nil
}

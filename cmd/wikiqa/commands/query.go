package commands

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/store"
)

// QueryCmd answers a natural-language question.
var QueryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Answer a natural-language question",
	Long: `Answer a question such as "What is the capital of China?" or
"中国的首都是什么". An unanswerable question prints no answers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

var queryJSON bool

func init() {
	QueryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print answers as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	q := strings.Join(args, " ")

	backends, closeAll, err := openBackends()
	if err != nil {
		return err
	}
	defer closeAll()

	results := make(map[string][]store.Answer, len(backends))
	for _, b := range backends {
		answers, err := b.NaturalLanguageQuery(q)
		if err != nil {
			return errors.Wrapf(err, "%s", b.name)
		}
		results[b.name] = answers
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, b := range backends {
		pterm.DefaultSection.Println(b.name)
		answers := results[b.name]
		if len(answers) == 0 {
			pterm.Info.Println("No answer found")
			continue
		}
		data := pterm.TableData{{"Property", "Value"}}
		for _, a := range answers {
			data = append(data, []string{a.Label, a.Value})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}
	return nil
}

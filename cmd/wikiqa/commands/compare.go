package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kittclouds/wikiqa/internal/bench"
	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/logger"
)

// CompareCmd runs the question workload against both backends.
var CompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare query latency of the relational and document backends",
	Long: `Run the configured question workload against both backends, each
question several times, and print per-question and overall averages.

Both backends must already hold data (see 'wikiqa load').`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

var compareIterations int

func init() {
	CompareCmd.Flags().IntVarP(&compareIterations, "iterations", "i", 0, "Runs per question (default from config)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if BackendFlag != BackendAll {
		return errors.New("compare needs both backends; drop --backend")
	}
	iterations := compareIterations
	if iterations <= 0 {
		iterations = cfg.Bench.Iterations
	}

	backends, closeAll, err := openBackends()
	if err != nil {
		return err
	}
	defer closeAll()

	a := bench.Target{Name: backends[0].name, Backend: backends[0]}
	b := bench.Target{Name: backends[1].name, Backend: backends[1]}

	spinner, _ := pterm.DefaultSpinner.Start("Running benchmark...")
	rep := bench.Run(a, b, cfg.Questions(), bench.Options{Iterations: iterations, Logger: logger.Logger})
	if spinner != nil {
		_ = spinner.Stop()
	}

	return renderReport(rep)
}

func renderReport(rep *bench.Report) error {
	pterm.DefaultHeader.WithFullWidth().Printfln("%s vs %s, %d runs per question", rep.A.Name, rep.B.Name, rep.Iterations)

	data := pterm.TableData{{"Question", rep.A.Name, rep.B.Name, "Answers", "Winner"}}
	for _, row := range rep.Rows {
		data = append(data, []string{
			row.Question,
			cell(row.A),
			cell(row.B),
			answers(row),
			row.Winner,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	for _, s := range []bench.Summary{rep.A, rep.B} {
		if s.StatsErr != nil {
			pterm.Warning.Printfln("%s stats unavailable: %v", s.Name, s.StatsErr)
		} else if s.Stats != nil && s.Stats.StatementsCount > 0 {
			pterm.Info.Printfln("%s: %d entities, %d statements, %s per 1000 statements",
				s.Name, s.Stats.EntitiesCount, s.Stats.StatementsCount, ms(s.PerThousandStatements))
		}
		if s.Failures > 0 {
			pterm.Warning.Printfln("%s failed %d question(s)", s.Name, s.Failures)
		}
	}

	if rep.Compared == 0 {
		pterm.Warning.Println("No question could be compared")
		return nil
	}
	pterm.Success.Printfln("%s is faster: %s vs %s average (%.2fx) over %d question(s)",
		rep.Winner, ms(rep.A.Average), ms(rep.B.Average), rep.Ratio, rep.Compared)
	return nil
}

func cell(m bench.Measurement) string {
	if m.Failed {
		return pterm.Red("failed")
	}
	return ms(m.Average)
}

func answers(row bench.Row) string {
	s := fmt.Sprintf("%d / %d", row.A.ResultCount, row.B.ResultCount)
	if row.A.Unstable || row.B.Unstable {
		s += " " + pterm.Yellow("unstable")
	}
	return s
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d)/float64(time.Millisecond))
}

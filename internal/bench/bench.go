// Package bench times identical question workloads against two storage
// backends and reports comparable latency figures.
//
// Runs are strictly sequential: for each question every run on A completes
// before the first run on B. A run that returns an error (or panics) marks
// that question as failed for that backend; its remaining runs are skipped
// and the question is left out of both backends' overall averages.
package bench

import (
	"time"

	"go.uber.org/zap"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/logger"
	"github.com/kittclouds/wikiqa/internal/store"
)

// DefaultIterations is used when Options.Iterations is not positive.
const DefaultIterations = 5

// DefaultQuestions is the demo workload.
var DefaultQuestions = []string{
	"What is the population of China?",
	"What is the capital of France?",
	"What is the capital of China?",
	"What is the population of France?",
	"What is the capital of United States?",
	"What is the population of India?",
}

// Backend is the part of store.Backend the harness drives.
type Backend interface {
	NaturalLanguageQuery(question string) ([]store.Answer, error)
	GetDatabaseStats() (*store.Stats, error)
}

// Target is a named backend under test.
type Target struct {
	Name    string
	Backend Backend
}

// Options tunes a run.
type Options struct {
	Iterations int
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *zap.SugaredLogger
}

// Measurement is one backend's timings for one question.
type Measurement struct {
	Runs    []time.Duration
	Average time.Duration
	// ResultCount is the answer count of the first run.
	ResultCount int
	// Unstable is set when a later run returned a different answer count.
	Unstable bool
	Failed   bool
	Err      error
}

// Row is the comparison for one question.
type Row struct {
	Question string
	A, B     Measurement
	// Winner is the faster target's name, empty when either side failed.
	Winner string
}

// Excluded reports whether the row is left out of the overall averages.
func (r Row) Excluded() bool {
	return r.A.Failed || r.B.Failed
}

// Summary aggregates one target over all comparable questions.
type Summary struct {
	Name     string
	Average  time.Duration
	Failures int
	Stats    *store.Stats
	StatsErr error
	// PerThousandStatements is Average scaled to 1000 stored statements;
	// zero when the statement count is unknown or zero.
	PerThousandStatements time.Duration
}

// Report is the outcome of Run.
type Report struct {
	Iterations int
	Rows       []Row
	A, B       Summary
	// Compared counts the questions both backends answered without error.
	Compared int
	// Winner has the lower overall average; a tie goes to A. Empty when no
	// question could be compared.
	Winner string
	// Ratio is slower/faster average, 1 when both are zero.
	Ratio float64
}

// Run executes questions against a and b and builds the report.
func Run(a, b Target, questions []string, opts Options) *Report {
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log := logger.Named(opts.Logger, "bench")

	rep := &Report{
		Iterations: opts.Iterations,
		A:          Summary{Name: a.Name},
		B:          Summary{Name: b.Name},
	}
	rep.A.Stats, rep.A.StatsErr = a.Backend.GetDatabaseStats()
	rep.B.Stats, rep.B.StatsErr = b.Backend.GetDatabaseStats()

	var sumA, sumB time.Duration
	for _, q := range questions {
		row := Row{Question: q}
		row.A = measure(a, q, opts, log)
		row.B = measure(b, q, opts, log)

		if row.A.Failed {
			rep.A.Failures++
		}
		if row.B.Failed {
			rep.B.Failures++
		}
		if !row.Excluded() {
			row.Winner = winner(a.Name, b.Name, row.A.Average, row.B.Average)
			sumA += row.A.Average
			sumB += row.B.Average
			rep.Compared++
		}
		rep.Rows = append(rep.Rows, row)
	}

	if rep.Compared > 0 {
		rep.A.Average = sumA / time.Duration(rep.Compared)
		rep.B.Average = sumB / time.Duration(rep.Compared)
		rep.Winner = winner(a.Name, b.Name, rep.A.Average, rep.B.Average)
	}
	rep.Ratio = Ratio(rep.A.Average, rep.B.Average)
	rep.A.PerThousandStatements = perThousand(rep.A.Average, rep.A.Stats)
	rep.B.PerThousandStatements = perThousand(rep.B.Average, rep.B.Stats)

	log.Infow("benchmark finished",
		logger.FieldCount, len(questions),
		"compared", rep.Compared,
		"winner", rep.Winner,
		"ratio", rep.Ratio,
	)
	return rep
}

func measure(t Target, q string, opts Options, log *zap.SugaredLogger) Measurement {
	var m Measurement
	for i := 0; i < opts.Iterations; i++ {
		start := opts.Clock()
		answers, err := query(t.Backend, q)
		elapsed := opts.Clock().Sub(start)

		if err != nil {
			m.Failed = true
			m.Err = err
			log.Warnw("query failed",
				logger.FieldBackend, t.Name,
				logger.FieldQuestion, q,
				"run", i,
				logger.FieldError, err,
			)
			return m
		}
		if elapsed < 0 {
			elapsed = 0
		}

		if i == 0 {
			m.ResultCount = len(answers)
		} else if len(answers) != m.ResultCount {
			m.Unstable = true
		}
		m.Runs = append(m.Runs, elapsed)
	}

	var total time.Duration
	for _, d := range m.Runs {
		total += d
	}
	m.Average = total / time.Duration(len(m.Runs))

	log.Debugw("question measured",
		logger.FieldBackend, t.Name,
		logger.FieldQuestion, q,
		logger.FieldDurationMS, float64(m.Average)/float64(time.Millisecond),
		logger.FieldCount, m.ResultCount,
	)
	return m
}

// query runs one question, turning a panic into an error.
func query(b Backend, q string) (answers []store.Answer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("query panicked: %v", r)
		}
	}()
	return b.NaturalLanguageQuery(q)
}

func winner(a, b string, avgA, avgB time.Duration) string {
	if avgB < avgA {
		return b
	}
	return a
}

// Ratio returns slower/faster for two averages, 1 when both are zero.
// A zero average against a non-zero one yields +Inf.
func Ratio(x, y time.Duration) float64 {
	slow, fast := x, y
	if fast > slow {
		slow, fast = fast, slow
	}
	if slow == 0 {
		return 1
	}
	return float64(slow) / float64(fast)
}

func perThousand(avg time.Duration, st *store.Stats) time.Duration {
	if st == nil || st.StatementsCount == 0 {
		return 0
	}
	return avg * 1000 / time.Duration(st.StatementsCount)
}

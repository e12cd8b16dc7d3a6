// Package report holds the chart datasets a run produces. Rendering
// is an external collaborator; each dataset is exactly the table one
// chart is drawn from, written as a descriptively named CSV.
package report

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Dataset is one chart's input table.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Report is the full output of one run.
type Report struct {
	RunID     string
	CreatedAt time.Time
	Questions int
	Datasets  []Dataset
}

// Builder accumulates datasets for a run under a fresh ULID.
type Builder struct {
	report Report
}

// NewBuilder starts a report with a generated run id.
func NewBuilder(questions int) *Builder {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return &Builder{
		report: Report{
			RunID:     ulid.MustNew(ulid.Now(), entropy).String(),
			CreatedAt: time.Now().UTC(),
			Questions: questions,
		},
	}
}

// Add appends one dataset.
func (b *Builder) Add(name string, columns []string, rows [][]string) {
	b.report.Datasets = append(b.report.Datasets, Dataset{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	})
}

// Report returns the accumulated report.
func (b *Builder) Report() *Report {
	return &b.report
}

// Dataset returns a dataset by name.
func (r *Report) Dataset(name string) (Dataset, bool) {
	for _, ds := range r.Datasets {
		if ds.Name == name {
			return ds, true
		}
	}
	return Dataset{}, false
}

// Package loader reads the warehouse CSV extracts into memory. The
// upstream warehouse has already joined first-posted and accepted
// answers onto each question; the loader validates that contract and
// converts types, it never re-derives the joins.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/cognicore/tagstats/pkg/tagstats/internalerr"
	"github.com/cognicore/tagstats/pkg/tagstats/question"
)

// questionColumns is the required header of the question extract.
var questionColumns = []string{
	"id", "title", "tags", "creation_date", "accepted_answer_id",
	"view_count", "score", "num_answers",
	"f_answer_id", "f_creation_date", "f_score", "f_score_rank",
	"a_answer_id", "a_creation_date", "a_score", "a_time_rank", "a_score_rank",
	"time_to_f", "time_to_a",
}

// LoadQuestions reads the question extract from a CSV file. Any
// schema or parse problem is fatal: a run either loads the whole
// extract or aborts.
func LoadQuestions(path string) ([]question.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	qs, err := ReadQuestions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qs, nil
}

// ReadQuestions parses the question extract from r.
func ReadQuestions(r io.Reader) ([]question.Question, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, questionColumns)
	if err != nil {
		return nil, err
	}

	var qs []question.Question
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		q, err := parseQuestion(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// columnIndex maps required column names to their positions,
// reporting the first missing column by name.
func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %s", internalerr.ErrMissingColumn, name)
		}
	}
	return idx, nil
}

type rowReader struct {
	record []string
	cols   map[string]int
	err    error
}

func (r *rowReader) raw(col string) string {
	return strings.TrimSpace(r.record[r.cols[col]])
}

func (r *rowReader) str(col string) string {
	return r.raw(col)
}

func (r *rowReader) int64(col string) int64 {
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(r.raw(col), 10, 64)
	if err != nil {
		r.err = fmt.Errorf("%w: column %s: %q", internalerr.ErrInvalidValue, col, r.raw(col))
	}
	return v
}

// int64OrZero treats an empty cell as 0 (nullable counts).
func (r *rowReader) int64OrZero(col string) int64 {
	if r.raw(col) == "" {
		return 0
	}
	return r.int64(col)
}

func (r *rowReader) int64Ptr(col string) *int64 {
	if r.raw(col) == "" {
		return nil
	}
	v := r.int64(col)
	if r.err != nil {
		return nil
	}
	return &v
}

func (r *rowReader) time(col string) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(r.raw(col), time.UTC)
	if err != nil {
		r.err = fmt.Errorf("%w: column %s: %q", internalerr.ErrInvalidValue, col, r.raw(col))
	}
	return t.UTC()
}

func (r *rowReader) timePtr(col string) *time.Time {
	if r.raw(col) == "" {
		return nil
	}
	t := r.time(col)
	if r.err != nil {
		return nil
	}
	return &t
}

func parseQuestion(record []string, cols map[string]int) (question.Question, error) {
	row := &rowReader{record: record, cols: cols}

	q := question.Question{
		ID:               row.int64("id"),
		Title:            row.str("title"),
		Tags:             row.str("tags"),
		CreationDate:     row.time("creation_date"),
		AcceptedAnswerID: row.int64Ptr("accepted_answer_id"),
		ViewCount:        row.int64("view_count"),
		Score:            row.int64("score"),
		NumAnswers:       row.int64OrZero("num_answers"),
		TimeToFirst:      row.int64Ptr("time_to_f"),
		TimeToAccepted:   row.int64Ptr("time_to_a"),
	}

	q.First = parseFirstBlock(row)
	q.Accepted = parseAcceptedBlock(row)
	if row.err != nil {
		return question.Question{}, row.err
	}

	if q.Tags == "" {
		return question.Question{}, fmt.Errorf("%w: question %d", internalerr.ErrEmptyTags, q.ID)
	}
	if q.AcceptedAnswerID != nil && q.Accepted == nil {
		return question.Question{}, fmt.Errorf("%w: question %d has accepted_answer_id but no accepted-answer block", internalerr.ErrInvalidValue, q.ID)
	}
	return q, nil
}

// parseFirstBlock reads the first-answer columns, which are nullable
// as a unit: either all present or all empty.
func parseFirstBlock(row *rowReader) *question.FirstAnswer {
	blank, err := blockState(row, "f_answer_id", "f_creation_date", "f_score", "f_score_rank")
	if err != nil {
		row.err = err
		return nil
	}
	if blank {
		return nil
	}
	return &question.FirstAnswer{
		ID:           row.int64("f_answer_id"),
		CreationDate: row.time("f_creation_date"),
		Score:        row.int64("f_score"),
		ScoreRank:    row.int64("f_score_rank"),
	}
}

func parseAcceptedBlock(row *rowReader) *question.AcceptedAnswer {
	blank, err := blockState(row, "a_answer_id", "a_creation_date", "a_score", "a_time_rank", "a_score_rank")
	if err != nil {
		row.err = err
		return nil
	}
	if blank {
		return nil
	}
	return &question.AcceptedAnswer{
		ID:           row.int64("a_answer_id"),
		CreationDate: row.time("a_creation_date"),
		Score:        row.int64("a_score"),
		TimeRank:     row.int64("a_time_rank"),
		ScoreRank:    row.int64("a_score_rank"),
	}
}

// blockState reports whether a nullable-as-a-unit column block is
// entirely blank, erroring when it is only partially filled.
func blockState(row *rowReader, cols ...string) (blank bool, err error) {
	filled := 0
	for _, col := range cols {
		if row.raw(col) != "" {
			filled++
		}
	}
	switch filled {
	case 0:
		return true, nil
	case len(cols):
		return false, nil
	default:
		return false, fmt.Errorf("%w: partial %s block", internalerr.ErrInvalidValue, cols[0])
	}
}

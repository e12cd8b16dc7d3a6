package explode

import (
	"fmt"
	"strings"

	"github.com/cognicore/tagstats/pkg/tagstats/features"
	"github.com/cognicore/tagstats/pkg/tagstats/internalerr"
)

// Row is one (question, tag) pair of the long-format table. The full
// derived record rides along so downstream aggregations can group any
// of its fields by tag.
type Row struct {
	Tag string
	Q   features.Derived
}

// Explode splits each question's pipe-delimited tags column into one
// row per tag. Row order is (question order, tag order within the
// question); a question with k tags contributes exactly k rows.
//
// Every question is required to carry at least one tag. A blank tags
// column violates the extract's contract and fails the run rather
// than silently dropping the question.
func Explode(qs []features.Derived) ([]Row, error) {
	rows := make([]Row, 0, len(qs)*3)
	for _, q := range qs {
		if strings.TrimSpace(q.Tags) == "" {
			return nil, fmt.Errorf("%w: question %d has no tags", internalerr.ErrEmptyTags, q.ID)
		}
		for _, tag := range q.SplitTags() {
			if tag == "" {
				return nil, fmt.Errorf("%w: question %d has a blank tag token in %q", internalerr.ErrEmptyTags, q.ID, q.Tags)
			}
			rows = append(rows, Row{Tag: tag, Q: q})
		}
	}
	return rows, nil
}

// FilterTags keeps only rows whose tag is in the given set,
// preserving order. Used to restrict the exploded table to a
// precomputed top-N tag set before the heavier aggregations.
func FilterTags(rows []Row, keep map[string]struct{}) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.Tag]; ok {
			out = append(out, r)
		}
	}
	return out
}

// TagSet builds a membership set from tag names.
func TagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

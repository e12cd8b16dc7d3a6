package agg

import (
	"sort"

	"github.com/cognicore/tagstats/pkg/tagstats/explode"
)

// NumericFn extracts a numeric field from an exploded row. ok=false
// means the value is null for that row and is skipped by medians.
type NumericFn func(explode.Row) (float64, bool)

// FlagFn extracts a boolean field from an exploded row for the
// percentage aggregations.
type FlagFn func(explode.Row) bool

// Common extractors over the derived record.
var (
	TimeToFirst NumericFn = func(r explode.Row) (float64, bool) {
		if r.Q.TimeToFirst == nil {
			return 0, false
		}
		return float64(*r.Q.TimeToFirst), true
	}
	TimeToAccepted NumericFn = func(r explode.Row) (float64, bool) {
		if r.Q.TimeToAccepted == nil {
			return 0, false
		}
		return float64(*r.Q.TimeToAccepted), true
	}
	ViewCount NumericFn = func(r explode.Row) (float64, bool) {
		return float64(r.Q.ViewCount), true
	}

	IsAnswered FlagFn = func(r explode.Row) bool { return r.Q.IsAnswered }
	FAnswerIn  FlagFn = func(r explode.Row) bool { return r.Q.FAnswerIn }
	AAnswerIn  FlagFn = func(r explode.Row) bool { return r.Q.AAnswerIn }
)

// TagCount is one row of the count-by-tag aggregate.
type TagCount struct {
	Tag   string
	Count int64
}

// CountByTag counts exploded rows per tag, sorted by count descending
// with ties broken by tag name. The sum of counts equals the exploded
// row count, not the question count.
func CountByTag(rows []explode.Row) []TagCount {
	counts := make(map[string]int64)
	for _, r := range rows {
		counts[r.Tag]++
	}

	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// TopN truncates a ranked aggregate to its first n rows. Applying it
// twice with the same n is the same as applying it once.
func TopN[T any](stats []T, n int) []T {
	if n <= 0 || n >= len(stats) {
		return stats
	}
	return stats[:n]
}

// TagNames extracts the tag column of a count aggregate.
func TagNames(counts []TagCount) []string {
	names := make([]string, len(counts))
	for i, c := range counts {
		names[i] = c.Tag
	}
	return names
}

// TagMedian is one row of a median-by-tag aggregate. HasMedian is
// false when every value in the group was null; such groups stay in
// the table and the renderer omits them.
type TagMedian struct {
	Tag       string
	Count     int64
	Median    float64
	HasMedian bool
}

// MedianByTag computes the null-skipping median of f per tag, sorted
// by median ascending ("fastest first") with ties broken by tag name.
// Groups with no defined median sort last.
func MedianByTag(rows []explode.Row, f NumericFn) []TagMedian {
	groups := make(map[string][]float64)
	counts := make(map[string]int64)
	for _, r := range rows {
		counts[r.Tag]++
		if v, ok := f(r); ok {
			groups[r.Tag] = append(groups[r.Tag], v)
		}
	}

	out := make([]TagMedian, 0, len(counts))
	for tag, n := range counts {
		m := TagMedian{Tag: tag, Count: n}
		m.Median, m.HasMedian = Median(groups[tag])
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HasMedian != out[j].HasMedian {
			return out[i].HasMedian
		}
		if out[i].Median != out[j].Median {
			return out[i].Median < out[j].Median
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// Median returns the interpolated median of vals, ok=false for an
// empty input. The input slice is not modified.
func Median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// TagPercent is one row of a percentage-by-tag aggregate:
// Percent = rows with the flag set / rows in the group, in [0,1].
type TagPercent struct {
	Tag     string
	Count   int64
	Percent float64
}

// PercentByTag computes the share of rows with f set per tag, sorted
// by percent descending with ties broken by tag name.
func PercentByTag(rows []explode.Row, f FlagFn) []TagPercent {
	counts := make(map[string]int64)
	hits := make(map[string]int64)
	for _, r := range rows {
		counts[r.Tag]++
		if f(r) {
			hits[r.Tag]++
		}
	}

	out := make([]TagPercent, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagPercent{
			Tag:     tag,
			Count:   n,
			Percent: float64(hits[tag]) / float64(n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percent != out[j].Percent {
			return out[i].Percent > out[j].Percent
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// BucketFn maps an exploded row onto a secondary grouping key, e.g.
// the posting month or hour.
type BucketFn func(explode.Row) string

// Common buckets.
var (
	MonthBucket BucketFn = func(r explode.Row) string {
		return r.Q.MonthPosted.Format("2006-01")
	}
	WeekBucket BucketFn = func(r explode.Row) string {
		return r.Q.WeekPosted.Format("2006-01-02")
	}
	HourBucket BucketFn = func(r explode.Row) string {
		return twoDigit(r.Q.HourPosted)
	}
)

// TagBucketCount is one cell of a tag × bucket aggregate.
type TagBucketCount struct {
	Tag    string
	Bucket string
	Count  int64
}

// CountByTagBucket counts exploded rows per (tag, bucket), sorted by
// tag then bucket.
func CountByTagBucket(rows []explode.Row, bucket BucketFn) []TagBucketCount {
	type key struct{ tag, bucket string }
	counts := make(map[key]int64)
	for _, r := range rows {
		counts[key{r.Tag, bucket(r)}]++
	}

	out := make([]TagBucketCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, TagBucketCount{Tag: k.tag, Bucket: k.bucket, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tag != out[j].Tag {
			return out[i].Tag < out[j].Tag
		}
		return out[i].Bucket < out[j].Bucket
	})
	return out
}

func twoDigit(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

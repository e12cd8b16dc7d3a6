package agg

import (
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/tagstats/pkg/tagstats/explode"
	"github.com/cognicore/tagstats/pkg/tagstats/features"
	"github.com/cognicore/tagstats/pkg/tagstats/question"
)

func explodeAll(t *testing.T, qs []features.Derived) []explode.Row {
	t.Helper()
	rows, err := explode.Explode(qs)
	if err != nil {
		t.Fatalf("Explode: %v", err)
	}
	return rows
}

func q(id int64, tags string) features.Derived {
	return features.Derived{Question: question.Question{ID: id, Tags: tags}}
}

func TestCountByTagConservation(t *testing.T) {
	rows := explodeAll(t, []features.Derived{
		q(1, "python|pandas"),
		q(2, "python|csv"),
		q(3, "python"),
	})

	counts := CountByTag(rows)

	var total int64
	byTag := make(map[string]int64)
	for _, c := range counts {
		total += c.Count
		byTag[c.Tag] = c.Count
	}

	// Sum of per-tag counts equals exploded row count, not question
	// count.
	if total != int64(len(rows)) {
		t.Errorf("Total %d, want %d exploded rows", total, len(rows))
	}
	if byTag["python"] != 3 || byTag["pandas"] != 1 || byTag["csv"] != 1 {
		t.Errorf("Unexpected counts: %v", byTag)
	}
}

func TestCountByTagSortAndTieBreak(t *testing.T) {
	rows := explodeAll(t, []features.Derived{
		q(1, "b|a"),
		q(2, "a|b"),
		q(3, "zzz"),
	})

	counts := CountByTag(rows)

	// Count descending, ties by tag name.
	want := []TagCount{{"a", 2}, {"b", 2}, {"zzz", 1}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("CountByTag = %v, want %v", counts, want)
	}
}

func TestTopNIdempotent(t *testing.T) {
	rows := explodeAll(t, []features.Derived{
		q(1, "a|b|c|d"),
		q(2, "a|b"),
		q(3, "a"),
	})
	counts := CountByTag(rows)

	once := TopN(counts, 2)
	twice := TopN(once, 2)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("TopN not idempotent: %v vs %v", once, twice)
	}
	if len(once) != 2 {
		t.Errorf("TopN(2) kept %d rows", len(once))
	}

	if got := TopN(counts, 100); len(got) != len(counts) {
		t.Errorf("TopN larger than input should be a no-op")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
		want float64
		ok   bool
	}{
		{"odd", []float64{3, 1, 2}, 2, true},
		{"even", []float64{1, 2, 3, 4}, 2.5, true},
		{"single", []float64{7}, 7, true},
		{"empty", nil, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Median(tc.vals)
			if ok != tc.ok || got != tc.want {
				t.Errorf("Median(%v) = %v,%v, want %v,%v", tc.vals, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMedianByTagSkipsNulls(t *testing.T) {
	sec := func(v int64) *int64 { return &v }

	a := q(1, "a")
	a.TimeToAccepted = sec(100)
	b := q(2, "a")
	b.TimeToAccepted = sec(300)
	c := q(3, "a") // null time_to_a, excluded from the median
	d := q(4, "b") // all-null group

	rows := explodeAll(t, []features.Derived{a, b, c, d})
	medians := MedianByTag(rows, TimeToAccepted)

	if len(medians) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(medians))
	}

	// Defined medians sort first, ascending.
	first := medians[0]
	if first.Tag != "a" || !first.HasMedian || first.Median != 200 {
		t.Errorf("Group a = %+v, want median 200 over non-null values", first)
	}
	if first.Count != 3 {
		t.Errorf("Group a count = %d, want 3 (nulls still count rows)", first.Count)
	}

	last := medians[1]
	if last.Tag != "b" || last.HasMedian {
		t.Errorf("All-null group should have no median: %+v", last)
	}
}

func TestPercentByTagBounds(t *testing.T) {
	a := q(1, "go")
	a.IsAnswered = true
	b := q(2, "go")
	c := q(3, "rust")
	c.IsAnswered = true

	rows := explodeAll(t, []features.Derived{a, b, c})
	stats := PercentByTag(rows, IsAnswered)

	for _, s := range stats {
		if s.Percent < 0 || s.Percent > 1 {
			t.Errorf("Percent out of [0,1]: %+v", s)
		}
	}

	byTag := make(map[string]float64)
	for _, s := range stats {
		byTag[s.Tag] = s.Percent
	}
	if byTag["go"] != 0.5 || byTag["rust"] != 1 {
		t.Errorf("Unexpected rates: %v", byTag)
	}
}

func TestCountByTagBucket(t *testing.T) {
	jan := q(1, "go")
	jan.MonthPosted = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := q(2, "go")
	feb.MonthPosted = time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC)
	feb2 := q(3, "go|rust")
	feb2.MonthPosted = time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := explodeAll(t, []features.Derived{jan, feb, feb2})
	cells := CountByTagBucket(rows, MonthBucket)

	want := []TagBucketCount{
		{"go", "2017-01", 1},
		{"go", "2017-02", 2},
		{"rust", "2017-02", 1},
	}
	if !reflect.DeepEqual(cells, want) {
		t.Errorf("CountByTagBucket = %v, want %v", cells, want)
	}
}

func TestCountByTagWeekBucket(t *testing.T) {
	w1 := q(1, "go")
	w1.WeekPosted = time.Date(2017, 6, 11, 0, 0, 0, 0, time.UTC)
	w2 := q(2, "go")
	w2.WeekPosted = time.Date(2017, 6, 18, 0, 0, 0, 0, time.UTC)
	w3 := q(3, "go")
	w3.WeekPosted = time.Date(2017, 6, 18, 0, 0, 0, 0, time.UTC)

	cells := CountByTagBucket(explodeAll(t, []features.Derived{w1, w2, w3}), WeekBucket)

	want := []TagBucketCount{
		{"go", "2017-06-11", 1},
		{"go", "2017-06-18", 2},
	}
	if !reflect.DeepEqual(cells, want) {
		t.Errorf("CountByTagBucket = %v, want %v", cells, want)
	}
}

func TestMedianByTagViewCount(t *testing.T) {
	low := q(1, "go")
	low.Question.ViewCount = 10
	high := q(2, "go")
	high.Question.ViewCount = 100
	other := q(3, "rust")
	other.Question.ViewCount = 7

	medians := MedianByTag(explodeAll(t, []features.Derived{low, high, other}), ViewCount)

	byTag := make(map[string]TagMedian)
	for _, m := range medians {
		byTag[m.Tag] = m
	}

	goStat := byTag["go"]
	if !goStat.HasMedian || goStat.Median != 55 {
		t.Errorf("go = %+v, want median 55", goStat)
	}
	rustStat := byTag["rust"]
	if !rustStat.HasMedian || rustStat.Median != 7 {
		t.Errorf("rust = %+v, want median 7", rustStat)
	}
}

package agg

import (
	"testing"

	"github.com/cognicore/tagstats/pkg/tagstats/features"
	"github.com/cognicore/tagstats/pkg/tagstats/words"
)

func titled(id int64, tags, title string) features.Derived {
	d := q(id, tags)
	d.Title = title
	return d
}

func TestWordsByTagCountsAndMaxNorm(t *testing.T) {
	tok := words.NewTokenizer([]string{"how", "to", "in", "a"})

	rows := explodeAll(t, []features.Derived{
		titled(1, "pandas", "How to merge dataframes in pandas"),
		titled(2, "pandas", "Merge two dataframes"),
		titled(3, "go", "How to merge maps"),
	})

	out := WordsByTag(rows, tok, 0)

	byKey := make(map[[2]string]TagWord)
	for _, w := range out {
		byKey[[2]string{w.Tag, w.Word}] = w
	}

	merge := byKey[[2]string{"pandas", "merge"}]
	if merge.Count != 2 {
		t.Errorf("pandas/merge count = %d, want 2", merge.Count)
	}
	if merge.MaxNorm != 1 {
		t.Errorf("Top word should normalize to 1, got %v", merge.MaxNorm)
	}

	two := byKey[[2]string{"pandas", "two"}]
	if two.Count != 1 || two.MaxNorm != 0.5 {
		t.Errorf("pandas/two = %+v, want count 1, max_norm 0.5", two)
	}

	if _, ok := byKey[[2]string{"pandas", "how"}]; ok {
		t.Error("Stopword survived aggregation")
	}
	if _, ok := byKey[[2]string{"go", "merge"}]; !ok {
		t.Error("Words should group per tag")
	}
}

func TestWordsByTagTopNKeepsBoundaryTies(t *testing.T) {
	tok := words.NewTokenizer(nil)

	rows := explodeAll(t, []features.Derived{
		titled(1, "go", "alpha alpha alpha beta beta gamma delta"),
	})

	// topN=2: "beta" holds rank 2 with count 2; "gamma" and "delta"
	// are below the boundary and dropped.
	out := WordsByTag(rows, tok, 2)
	if len(out) != 2 {
		t.Fatalf("Expected 2 words, got %v", out)
	}

	// With "gamma gamma" added, rank 2 is a count-2 three-way tie and
	// all tied words are kept.
	rows = explodeAll(t, []features.Derived{
		titled(1, "go", "alpha alpha alpha beta beta gamma gamma delta delta"),
	})
	out = WordsByTag(rows, tok, 2)
	if len(out) != 4 {
		t.Fatalf("Boundary ties should all be kept, got %v", out)
	}
}

func TestWordsByTagDeterministicOrder(t *testing.T) {
	tok := words.NewTokenizer(nil)
	rows := explodeAll(t, []features.Derived{
		titled(1, "go", "zeta alpha"),
		titled(2, "c", "omega"),
	})

	out := WordsByTag(rows, tok, 0)

	// Tags sort ascending; equal counts break ties by word.
	want := []string{"omega", "alpha", "zeta"}
	for i, w := range out {
		if w.Word != want[i] {
			t.Fatalf("Order = %v", out)
		}
	}
}

package agg

import (
	"sort"

	"github.com/cognicore/tagstats/pkg/tagstats/explode"
	"github.com/cognicore/tagstats/pkg/tagstats/words"
)

// TagWord is one row of the tag × title-word aggregate. MaxNorm is
// the count scaled by the most frequent word within the same tag, so
// the word-cloud sizing is comparable across tags.
type TagWord struct {
	Tag     string
	Word    string
	Count   int64
	MaxNorm float64
}

// WordsByTag tokenizes question titles and counts words per (tag,
// word). Each tag keeps its topN words by count; rows tied with the
// boundary count are all kept. Output is sorted by tag, then count
// descending, then word.
func WordsByTag(rows []explode.Row, tok *words.Tokenizer, topN int) []TagWord {
	counts := make(map[string]map[string]int64)
	for _, r := range rows {
		byWord := counts[r.Tag]
		if byWord == nil {
			byWord = make(map[string]int64)
			counts[r.Tag] = byWord
		}
		for _, w := range tok.Tokenize(r.Q.Title) {
			byWord[w]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var out []TagWord
	for _, tag := range tags {
		byWord := counts[tag]
		group := make([]TagWord, 0, len(byWord))
		var max int64
		for w, n := range byWord {
			group = append(group, TagWord{Tag: tag, Word: w, Count: n})
			if n > max {
				max = n
			}
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].Count != group[j].Count {
				return group[i].Count > group[j].Count
			}
			return group[i].Word < group[j].Word
		})

		// Non-strict truncation: keep everything tied with the
		// topN-th count.
		if topN > 0 && len(group) > topN {
			boundary := group[topN-1].Count
			cut := topN
			for cut < len(group) && group[cut].Count == boundary {
				cut++
			}
			group = group[:cut]
		}

		for i := range group {
			group[i].MaxNorm = float64(group[i].Count) / float64(max)
		}
		out = append(out, group...)
	}
	return out
}

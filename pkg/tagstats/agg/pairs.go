package agg

import (
	"sort"

	"github.com/cognicore/tagstats/pkg/tagstats/explode"
)

// PairStat is one cell of the tag-adjacency aggregate: an ordered tag
// pair, the number of questions carrying both tags, and the share of
// those questions with an accepted answer. Both orderings of a pair
// are present with identical Count and PercAnswered, which is what a
// symmetric heatmap wants.
type PairStat struct {
	TagX         string
	TagY         string
	Count        int64
	PercAnswered float64
}

// PairAdjacency self-joins the exploded table on question id and
// aggregates ordered tag pairs, discarding self-pairs. A question
// with k surviving tags contributes k·(k−1) ordered pairs. Rows come
// back sorted by (TagX, TagY).
//
// Rows are expected grouped by question, which Explode and FilterTags
// both preserve.
func PairAdjacency(rows []explode.Row) []PairStat {
	type key struct{ x, y string }
	counts := make(map[key]int64)
	answered := make(map[key]int64)

	flush := func(tags []string, isAnswered bool) {
		for i := 0; i < len(tags); i++ {
			for j := 0; j < len(tags); j++ {
				if i == j {
					continue
				}
				k := key{tags[i], tags[j]}
				counts[k]++
				if isAnswered {
					answered[k]++
				}
			}
		}
	}

	var (
		curID       int64
		curTags     []string
		curAnswered bool
		started     bool
	)
	for _, r := range rows {
		if !started || r.Q.ID != curID {
			if started {
				flush(curTags, curAnswered)
			}
			started = true
			curID = r.Q.ID
			curTags = curTags[:0]
			curAnswered = r.Q.IsAnswered
		}
		curTags = append(curTags, r.Tag)
	}
	if started {
		flush(curTags, curAnswered)
	}

	out := make([]PairStat, 0, len(counts))
	for k, n := range counts {
		out = append(out, PairStat{
			TagX:         k.x,
			TagY:         k.y,
			Count:        n,
			PercAnswered: float64(answered[k]) / float64(n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TagX != out[j].TagX {
			return out[i].TagX < out[j].TagX
		}
		return out[i].TagY < out[j].TagY
	})
	return out
}

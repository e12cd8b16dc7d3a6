// Package tagstats wires the analysis pipeline together: load the
// question extract, derive time/tag features, explode tags, aggregate,
// and emit one dataset per chart.
package tagstats

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cognicore/tagstats/pkg/tagstats/agg"
	"github.com/cognicore/tagstats/pkg/tagstats/config"
	"github.com/cognicore/tagstats/pkg/tagstats/explode"
	"github.com/cognicore/tagstats/pkg/tagstats/features"
	"github.com/cognicore/tagstats/pkg/tagstats/loader"
	"github.com/cognicore/tagstats/pkg/tagstats/question"
	"github.com/cognicore/tagstats/pkg/tagstats/report"
	"github.com/cognicore/tagstats/pkg/tagstats/store"
	"github.com/cognicore/tagstats/pkg/tagstats/words"
)

// Engine runs the batch analysis. Every transformation produces a new
// table; intermediate slices are never mutated, so several
// aggregations can reuse the same exploded table.
type Engine struct {
	cfg   config.Config
	store store.Store
}

// Options configures an Engine instance.
type Options struct {
	Config config.Config
	// Store is optional; when set, every run's aggregates are
	// snapshotted for later inspection.
	Store store.Store
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	return &Engine{
		cfg:   opts.Config,
		store: opts.Store,
	}
}

// Close releases the snapshot store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Run executes the full pipeline over an already-loaded extract and
// returns the chart datasets. The run either fully succeeds or
// returns the first error; there is no partial-result mode.
func (e *Engine) Run(ctx context.Context, qs []question.Question, yearly []loader.YearlyViews) (*report.Report, error) {
	loc, err := e.cfg.Location()
	if err != nil {
		return nil, err
	}

	deriver := features.NewDeriver(loc, e.cfg.SLAWindow())
	derived := e.filterYears(deriver.DeriveAll(qs))

	exploded, err := explode.Explode(derived)
	if err != nil {
		return nil, err
	}

	// All tag aggregations run over the top-1000 tag universe; the
	// heavier ones restrict further.
	tagCounts := agg.CountByTag(exploded)
	base := explode.FilterTags(exploded, explode.TagSet(agg.TagNames(agg.TopN(tagCounts, e.cfg.TopTags))))

	top40 := agg.TopN(agg.CountByTag(base), e.cfg.TopAdjacencyTags)
	rows40 := explode.FilterTags(base, explode.TagSet(agg.TagNames(top40)))
	rows30 := explode.FilterTags(base, explode.TagSet(agg.TagNames(agg.TopN(top40, e.cfg.TopTrendTags))))
	rows20 := explode.FilterTags(base, explode.TagSet(agg.TagNames(agg.TopN(top40, e.cfg.TopHourTags))))

	b := report.NewBuilder(len(derived))

	addTopTags(b, top40)
	addTagBuckets(b, "tag_monthly_trend", "month", agg.CountByTagBucket(rows30, agg.MonthBucket))
	addTagBuckets(b, "tag_weekly_trend", "week", agg.CountByTagBucket(rows30, agg.WeekBucket))
	addTagBuckets(b, "tag_hour_distribution", "hour", agg.CountByTagBucket(rows20, agg.HourBucket))
	addHourWeekday(b, agg.CountByHourWeekday(derived))
	addTagPercents(b, "tag_answer_rate", "perc_answered", agg.PercentByTag(rows40, agg.IsAnswered))
	addTagPercents(b, "tag_accepted_within_sla", "perc_within_sla", agg.PercentByTag(rows40, agg.AAnswerIn))
	addTagPercents(b, "tag_first_answer_within_sla", "perc_within_sla", agg.PercentByTag(rows40, agg.FAnswerIn))
	addTagMedians(b, "tag_median_time_to_answer", "median_seconds", agg.MedianByTag(rows40, agg.TimeToAccepted))
	addTagMedians(b, "tag_median_time_to_first_answer", "median_seconds", agg.MedianByTag(rows40, agg.TimeToFirst))
	addTagMedians(b, "tag_median_views", "median_views", agg.MedianByTag(rows40, agg.ViewCount))

	pairs := agg.PairAdjacency(rows40)
	addPairCounts(b, pairs)
	addPairAnswerRates(b, pairs)

	tok := words.NewTokenizer(e.cfg.Stopwords)
	addTagWords(b, agg.WordsByTag(rows40, tok, e.cfg.TopWords))

	addBucketRates(b, "weekday_answer_rate", "weekday", agg.AnswerRateByWeekday(derived))
	addBucketRates(b, "hour_answer_rate", "hour", agg.AnswerRateByHour(derived))
	addBucketRates(b, "num_tags_distribution", "num_tags", agg.NumTagsDistribution(derived))
	addYearlyViews(b, yearly)

	rep := b.Report()
	if e.store != nil {
		if err := e.store.SaveReport(ctx, rep); err != nil {
			return nil, fmt.Errorf("snapshot run %s: %w", rep.RunID, err)
		}
	}
	return rep, nil
}

// filterYears applies the calendar-year bounds in the target zone.
func (e *Engine) filterYears(qs []features.Derived) []features.Derived {
	if e.cfg.YearStart == 0 && e.cfg.YearEnd == 0 {
		return qs
	}

	out := make([]features.Derived, 0, len(qs))
	for _, q := range qs {
		year := q.MonthPosted.Year()
		if e.cfg.YearStart != 0 && year < e.cfg.YearStart {
			continue
		}
		if e.cfg.YearEnd != 0 && year > e.cfg.YearEnd {
			continue
		}
		out = append(out, q)
	}
	return out
}

func addTopTags(b *report.Builder, counts []agg.TagCount) {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Tag, formatInt(c.Count)}
	}
	b.Add("top_tags", []string{"tag", "count"}, rows)
}

func addTagBuckets(b *report.Builder, name, bucketCol string, cells []agg.TagBucketCount) {
	rows := make([][]string, len(cells))
	for i, c := range cells {
		rows[i] = []string{c.Tag, c.Bucket, formatInt(c.Count)}
	}
	b.Add(name, []string{"tag", bucketCol, "count"}, rows)
}

func addHourWeekday(b *report.Builder, cells []agg.HourWeekdayCell) {
	rows := make([][]string, len(cells))
	for i, c := range cells {
		rows[i] = []string{c.Weekday.String(), formatInt(int64(c.Hour)), formatInt(c.Count)}
	}
	b.Add("questions_hour_weekday", []string{"weekday", "hour", "count"}, rows)
}

func addTagPercents(b *report.Builder, name, percCol string, stats []agg.TagPercent) {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{s.Tag, formatInt(s.Count), formatFloat(s.Percent)}
	}
	b.Add(name, []string{"tag", "count", percCol}, rows)
}

func addTagMedians(b *report.Builder, name, medianCol string, stats []agg.TagMedian) {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		// An all-null group has no median; the cell stays empty and
		// the renderer omits the row.
		median := ""
		if s.HasMedian {
			median = formatFloat(s.Median)
		}
		rows[i] = []string{s.Tag, formatInt(s.Count), median}
	}
	b.Add(name, []string{"tag", "count", medianCol}, rows)
}

func addPairCounts(b *report.Builder, pairs []agg.PairStat) {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.TagX, p.TagY, formatInt(p.Count)}
	}
	b.Add("tag_adjacency_count", []string{"tag_x", "tag_y", "count"}, rows)
}

func addPairAnswerRates(b *report.Builder, pairs []agg.PairStat) {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.TagX, p.TagY, formatFloat(p.PercAnswered)}
	}
	b.Add("tag_adjacency_answer_rate", []string{"tag_x", "tag_y", "perc_answered"}, rows)
}

func addTagWords(b *report.Builder, tagWords []agg.TagWord) {
	rows := make([][]string, len(tagWords))
	for i, w := range tagWords {
		rows[i] = []string{w.Tag, w.Word, formatInt(w.Count), formatFloat(w.MaxNorm)}
	}
	b.Add("tag_title_words", []string{"tag", "word", "count", "max_norm"}, rows)
}

func addBucketRates(b *report.Builder, name, bucketCol string, rates []agg.BucketRate) {
	rows := make([][]string, len(rates))
	for i, r := range rates {
		rows[i] = []string{r.Bucket, formatInt(r.Count), formatFloat(r.Percent)}
	}
	b.Add(name, []string{bucketCol, "count", "percent"}, rows)
}

func addYearlyViews(b *report.Builder, yearly []loader.YearlyViews) {
	if len(yearly) == 0 {
		return
	}
	rows := make([][]string, len(yearly))
	for i, y := range yearly {
		rows[i] = []string{strconv.Itoa(y.Year), formatInt(y.Views), formatFloat(y.PercTotal)}
	}
	b.Add("yearly_views", []string{"year", "views", "perc_total"}, rows)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

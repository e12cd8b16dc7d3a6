package agg

import (
	"time"

	"github.com/cognicore/tagstats/pkg/tagstats/features"
)

// HourWeekdayCell is one cell of the posting-time heatmap, computed
// over the question table rather than the exploded one.
type HourWeekdayCell struct {
	Weekday time.Weekday
	Hour    int // 0-23
	Count   int64
}

// CountByHourWeekday counts questions per (weekday, hour) cell. All
// 168 cells are present, zero counts included, ordered Monday-first
// then by hour so the heatmap axes come out stable.
func CountByHourWeekday(qs []features.Derived) []HourWeekdayCell {
	var grid [7][24]int64
	for _, q := range qs {
		grid[features.WeekdayIndex(q.WeekdayPosted)][q.HourPosted]++
	}

	out := make([]HourWeekdayCell, 0, 7*24)
	for _, day := range features.Weekdays() {
		for hour := 0; hour < 24; hour++ {
			out = append(out, HourWeekdayCell{
				Weekday: day,
				Hour:    hour,
				Count:   grid[features.WeekdayIndex(day)][hour],
			})
		}
	}
	return out
}

// BucketRate is a count plus a flag share for one calendar bucket
// (weekday or hour) over the question table.
type BucketRate struct {
	Bucket  string
	Count   int64
	Percent float64
}

// AnswerRateByWeekday computes the accepted-answer share per weekday,
// Monday-first. Empty buckets stay in the table with a zero rate.
func AnswerRateByWeekday(qs []features.Derived) []BucketRate {
	var counts, hits [7]int64
	for _, q := range qs {
		idx := features.WeekdayIndex(q.WeekdayPosted)
		counts[idx]++
		if q.IsAnswered {
			hits[idx]++
		}
	}

	out := make([]BucketRate, 0, 7)
	for _, day := range features.Weekdays() {
		idx := features.WeekdayIndex(day)
		rate := BucketRate{Bucket: day.String(), Count: counts[idx]}
		if counts[idx] > 0 {
			rate.Percent = float64(hits[idx]) / float64(counts[idx])
		}
		out = append(out, rate)
	}
	return out
}

// AnswerRateByHour computes the accepted-answer share per posting
// hour, 00 through 23.
func AnswerRateByHour(qs []features.Derived) []BucketRate {
	var counts, hits [24]int64
	for _, q := range qs {
		counts[q.HourPosted]++
		if q.IsAnswered {
			hits[q.HourPosted]++
		}
	}

	out := make([]BucketRate, 0, 24)
	for hour := 0; hour < 24; hour++ {
		rate := BucketRate{Bucket: twoDigit(hour), Count: counts[hour]}
		if counts[hour] > 0 {
			rate.Percent = float64(hits[hour]) / float64(counts[hour])
		}
		out = append(out, rate)
	}
	return out
}

// NumTagsDistribution counts questions per tag-count value, ascending.
func NumTagsDistribution(qs []features.Derived) []BucketRate {
	counts := make(map[int]int64)
	max := 0
	for _, q := range qs {
		counts[q.NumTags]++
		if q.NumTags > max {
			max = q.NumTags
		}
	}

	total := int64(len(qs))
	out := make([]BucketRate, 0, max)
	for n := 1; n <= max; n++ {
		rate := BucketRate{Bucket: twoDigit(n), Count: counts[n]}
		if total > 0 {
			rate.Percent = float64(counts[n]) / float64(total)
		}
		out = append(out, rate)
	}
	return out
}

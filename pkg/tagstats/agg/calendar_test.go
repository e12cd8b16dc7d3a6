package agg

import (
	"testing"
	"time"

	"github.com/cognicore/tagstats/pkg/tagstats/features"
)

func at(id int64, weekday time.Weekday, hour int, answered bool) features.Derived {
	d := q(id, "go")
	d.WeekdayPosted = weekday
	d.HourPosted = hour
	d.IsAnswered = answered
	return d
}

func TestCountByHourWeekdayGrid(t *testing.T) {
	qs := []features.Derived{
		at(1, time.Monday, 9, false),
		at(2, time.Monday, 9, true),
		at(3, time.Sunday, 23, false),
	}

	cells := CountByHourWeekday(qs)
	if len(cells) != 7*24 {
		t.Fatalf("Expected full 168-cell grid, got %d", len(cells))
	}

	// Monday-first ordering, hours within day.
	if cells[0].Weekday != time.Monday || cells[0].Hour != 0 {
		t.Errorf("Grid starts at %v %d", cells[0].Weekday, cells[0].Hour)
	}
	if cells[9].Count != 2 {
		t.Errorf("Monday 09 count = %d, want 2", cells[9].Count)
	}
	last := cells[len(cells)-1]
	if last.Weekday != time.Sunday || last.Hour != 23 || last.Count != 1 {
		t.Errorf("Grid ends at %+v", last)
	}
}

func TestAnswerRateByWeekday(t *testing.T) {
	qs := []features.Derived{
		at(1, time.Monday, 9, true),
		at(2, time.Monday, 10, false),
		at(3, time.Friday, 9, true),
	}

	rates := AnswerRateByWeekday(qs)
	if len(rates) != 7 {
		t.Fatalf("Expected 7 weekday buckets, got %d", len(rates))
	}
	if rates[0].Bucket != "Monday" || rates[0].Percent != 0.5 {
		t.Errorf("Monday = %+v, want rate 0.5", rates[0])
	}
	if rates[6].Bucket != "Sunday" || rates[6].Count != 0 || rates[6].Percent != 0 {
		t.Errorf("Empty Sunday should stay with zero rate: %+v", rates[6])
	}
	for _, r := range rates {
		if r.Percent < 0 || r.Percent > 1 {
			t.Errorf("Rate out of [0,1]: %+v", r)
		}
	}
}

func TestAnswerRateByHour(t *testing.T) {
	qs := []features.Derived{
		at(1, time.Monday, 0, true),
		at(2, time.Tuesday, 0, true),
		at(3, time.Friday, 23, false),
	}

	rates := AnswerRateByHour(qs)
	if len(rates) != 24 {
		t.Fatalf("Expected 24 hour buckets, got %d", len(rates))
	}
	if rates[0].Bucket != "00" || rates[0].Percent != 1 {
		t.Errorf("Hour 00 = %+v", rates[0])
	}
	if rates[23].Bucket != "23" || rates[23].Count != 1 {
		t.Errorf("Hour 23 = %+v", rates[23])
	}
}

func TestNumTagsDistribution(t *testing.T) {
	one := q(1, "go")
	one.NumTags = 1
	three := q(2, "a|b|c")
	three.NumTags = 3
	alsoThree := q(3, "x|y|z")
	alsoThree.NumTags = 3

	dist := NumTagsDistribution([]features.Derived{one, three, alsoThree})
	if len(dist) != 3 {
		t.Fatalf("Expected buckets 1..3, got %v", dist)
	}
	if dist[1].Count != 0 {
		t.Errorf("Bucket 2 should be empty: %+v", dist[1])
	}
	if dist[2].Count != 2 || dist[2].Percent != 2.0/3.0 {
		t.Errorf("Bucket 3 = %+v", dist[2])
	}
}

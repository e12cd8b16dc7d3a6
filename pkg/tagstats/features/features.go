package features

import (
	"time"

	"github.com/cognicore/tagstats/pkg/tagstats/question"
)

// Derived is a question plus the per-row features the aggregations
// group on. Deriving never mutates the input; each run builds a fresh
// slice.
type Derived struct {
	question.Question

	NumTags       int
	HourPosted    int          // 0-23 in the target zone
	WeekdayPosted time.Weekday // in the target zone
	WeekPosted    time.Time    // Sunday-start week floor, target zone
	MonthPosted   time.Time    // month floor, target zone

	IsAnswered bool // accepted answer exists
	FAnswerIn  bool // first answer arrived inside the SLA window
	AAnswerIn  bool // accepted answer arrived inside the SLA window
}

// Deriver computes row features. Pure: the same question always maps
// to the same Derived.
type Deriver struct {
	loc *time.Location
	sla time.Duration
}

// NewDeriver creates a deriver for the given target zone and
// fast-answer window.
func NewDeriver(loc *time.Location, sla time.Duration) *Deriver {
	return &Deriver{loc: loc, sla: sla}
}

// Derive computes the feature block for one question.
func (d *Deriver) Derive(q question.Question) Derived {
	local := q.CreationDate.In(d.loc)

	return Derived{
		Question:      q,
		NumTags:       q.NumTags(),
		HourPosted:    local.Hour(),
		WeekdayPosted: local.Weekday(),
		WeekPosted:    FloorWeek(local),
		MonthPosted:   FloorMonth(local),
		IsAnswered:    q.Accepted != nil,
		FAnswerIn:     d.withinSLA(q.TimeToFirst),
		AAnswerIn:     d.withinSLA(q.TimeToAccepted),
	}
}

// DeriveAll maps Derive over a batch, preserving order.
func (d *Deriver) DeriveAll(qs []question.Question) []Derived {
	out := make([]Derived, len(qs))
	for i, q := range qs {
		out[i] = d.Derive(q)
	}
	return out
}

// withinSLA reports whether a time-to-answer is present and strictly
// inside the window. An absent duration means no such answer.
func (d *Deriver) withinSLA(seconds *int64) bool {
	if seconds == nil {
		return false
	}
	return time.Duration(*seconds)*time.Second < d.sla
}

// FloorWeek truncates a local time to midnight of the enclosing
// Sunday-start week.
func FloorWeek(t time.Time) time.Time {
	day := FloorDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// FloorMonth truncates a local time to midnight of the first of the
// month.
func FloorMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FloorDay truncates a local time to midnight.
func FloorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekdayIndex maps a weekday onto the Monday-first axis order the
// charts use: Monday=0 .. Sunday=6.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Weekdays lists the seven weekdays in chart axis order.
func Weekdays() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

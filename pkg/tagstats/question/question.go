package question

import (
	"strings"
	"time"
)

// TagDelimiter separates tag names inside the raw tags column.
// It is matched literally, never as a pattern.
const TagDelimiter = "|"

// Question is one row of the warehouse extract: a Stack Overflow
// question joined with its first-posted and accepted answers.
type Question struct {
	ID           int64
	Title        string
	Tags         string // pipe-delimited, never empty
	CreationDate time.Time
	ViewCount    int64
	Score        int64
	NumAnswers   int64 // null in the extract is loaded as 0

	AcceptedAnswerID *int64

	// First and Accepted are nullable as a unit: either the whole
	// block is present or the question has no such answer.
	First    *FirstAnswer
	Accepted *AcceptedAnswer

	// Seconds from question creation to the corresponding answer.
	TimeToFirst    *int64
	TimeToAccepted *int64
}

// FirstAnswer is the earliest-posted answer to a question.
type FirstAnswer struct {
	ID           int64
	CreationDate time.Time
	Score        int64
	ScoreRank    int64
}

// AcceptedAnswer is the answer the asker marked as resolving.
type AcceptedAnswer struct {
	ID           int64
	CreationDate time.Time
	Score        int64
	TimeRank     int64
	ScoreRank    int64
}

// NumTags counts the tags in the raw tags column: delimiter
// occurrences plus one. Explode of the same question produces exactly
// this many rows.
func (q Question) NumTags() int {
	return strings.Count(q.Tags, TagDelimiter) + 1
}

// SplitTags returns the raw tag names in original order. Tokens are
// not trimmed or case-folded; they must match the stored spelling.
func (q Question) SplitTags() []string {
	return strings.Split(q.Tags, TagDelimiter)
}

// Package review tracks per-question spaced repetition state. Review
// outcomes recorded during quiz sessions drive an expanding interval
// schedule; due questions feed the weakness-weighted selection policy
// and the stats surface.
package review

import "time"

// BaseIntervals defines the expanding review schedule in days.
// Stage 0 = first review after the question is first answered.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// MaxStage is the highest stage index in BaseIntervals.
const MaxStage = 5

// GraduationHits is the consecutive-correct count at which a question
// graduates to the long maintenance interval.
const GraduationHits = 6

// GraduatedIntervalDays is the review interval for graduated questions.
const GraduatedIntervalDays = 90

// State is the review schedule for one question.
type State struct {
	QuestionID      string    `json:"question_id"`
	Stage           int       `json:"stage"`
	ConsecutiveHits int       `json:"consecutive_hits"`
	Graduated       bool      `json:"graduated"`
	LastReview      time.Time `json:"last_review"`
	NextReview      time.Time `json:"next_review"`
}

// CurrentIntervalDays returns the interval to apply after the next
// correct answer.
func (s *State) CurrentIntervalDays() int {
	if s.Graduated {
		return GraduatedIntervalDays
	}
	stage := s.Stage
	if stage > MaxStage {
		stage = MaxStage
	}
	return BaseIntervals[stage]
}

// IsDue reports whether the question is due for review at now.
func (s *State) IsDue(now time.Time) bool {
	return !now.Before(s.NextReview)
}

// OverdueDays returns how many days past due the question is, zero if
// not yet due.
func (s *State) OverdueDays(now time.Time) float64 {
	if !s.IsDue(now) {
		return 0
	}
	return now.Sub(s.NextReview).Hours() / 24
}

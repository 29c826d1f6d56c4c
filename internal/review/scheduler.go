package review

import (
	"sort"
	"time"
)

// Scheduler manages review schedules for all questions seen so far.
// It is rebuilt at startup by replaying recorded answer events in
// chronological order, so it carries no persistence of its own.
type Scheduler struct {
	reviews map[string]*State
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{reviews: make(map[string]*State)}
}

// Record updates the schedule for one answered question. The first
// answer for a question initializes its state; later answers advance or
// reset the expanding schedule.
func (s *Scheduler) Record(questionID string, correct bool, now time.Time) {
	rs := s.reviews[questionID]
	if rs == nil {
		rs = &State{QuestionID: questionID}
		s.reviews[questionID] = rs
	}

	rs.LastReview = now

	if correct {
		rs.ConsecutiveHits++
		if !rs.Graduated {
			if rs.ConsecutiveHits >= GraduationHits {
				rs.Graduated = true
			} else if rs.Stage < MaxStage {
				rs.Stage++
			}
		}
		rs.NextReview = now.AddDate(0, 0, rs.CurrentIntervalDays())
	} else {
		rs.ConsecutiveHits = 0
		rs.Stage = 0
		rs.Graduated = false
		rs.NextReview = now.AddDate(0, 0, BaseIntervals[0])
	}
}

// Due returns the questions due for review at now, most overdue first,
// ties broken by ascending id.
func (s *Scheduler) Due(now time.Time) []string {
	type dueQ struct {
		id      string
		overdue float64
	}
	var due []dueQ
	for id, rs := range s.reviews {
		if rs.IsDue(now) {
			due = append(due, dueQ{id: id, overdue: rs.OverdueDays(now)})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].overdue != due[j].overdue {
			return due[i].overdue > due[j].overdue
		}
		return due[i].id < due[j].id
	})

	ids := make([]string, len(due))
	for i, d := range due {
		ids[i] = d.id
	}
	return ids
}

// Get returns the review state for a question, or nil if never answered.
func (s *Scheduler) Get(questionID string) *State {
	return s.reviews[questionID]
}

// Len returns the number of tracked questions.
func (s *Scheduler) Len() int {
	return len(s.reviews)
}

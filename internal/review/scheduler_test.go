package review

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestRecordFirstAnswerInitializesState(t *testing.T) {
	s := NewScheduler()
	s.Record("django-1", true, t0)

	rs := s.Get("django-1")
	if rs == nil {
		t.Fatal("expected state after first record")
	}
	if rs.ConsecutiveHits != 1 {
		t.Errorf("hits = %d, want 1", rs.ConsecutiveHits)
	}
	if rs.Stage != 1 {
		t.Errorf("stage = %d, want 1", rs.Stage)
	}
	want := t0.AddDate(0, 0, BaseIntervals[1])
	if !rs.NextReview.Equal(want) {
		t.Errorf("next review = %v, want %v", rs.NextReview, want)
	}
}

func TestWrongAnswerResetsSchedule(t *testing.T) {
	s := NewScheduler()
	now := t0
	for i := 0; i < 3; i++ {
		s.Record("q", true, now)
		now = now.AddDate(0, 0, 7)
	}
	s.Record("q", false, now)

	rs := s.Get("q")
	if rs.ConsecutiveHits != 0 || rs.Stage != 0 {
		t.Errorf("expected full reset, got hits=%d stage=%d", rs.ConsecutiveHits, rs.Stage)
	}
	want := now.AddDate(0, 0, BaseIntervals[0])
	if !rs.NextReview.Equal(want) {
		t.Errorf("next review = %v, want %v", rs.NextReview, want)
	}
}

func TestGraduationAfterConsecutiveHits(t *testing.T) {
	s := NewScheduler()
	now := t0
	for i := 0; i < GraduationHits; i++ {
		s.Record("q", true, now)
		now = now.AddDate(0, 0, 30)
	}

	rs := s.Get("q")
	if !rs.Graduated {
		t.Fatalf("expected graduation after %d hits", GraduationHits)
	}
	if rs.CurrentIntervalDays() != GraduatedIntervalDays {
		t.Errorf("interval = %d, want %d", rs.CurrentIntervalDays(), GraduatedIntervalDays)
	}
}

func TestDueOrdersMostOverdueFirst(t *testing.T) {
	s := NewScheduler()
	s.Record("fresh", true, t0)
	s.Record("stale", true, t0.AddDate(0, 0, -20))

	due := s.Due(t0.AddDate(0, 0, 10))
	if len(due) != 2 {
		t.Fatalf("due = %v, want both questions", due)
	}
	if due[0] != "stale" {
		t.Errorf("due[0] = %s, want stale", due[0])
	}
}

func TestDueExcludesNotYetDue(t *testing.T) {
	s := NewScheduler()
	s.Record("q", true, t0)

	if got := s.Due(t0.AddDate(0, 0, 1)); len(got) != 0 {
		t.Errorf("due = %v, want empty before interval elapses", got)
	}
	if got := s.Due(t0.AddDate(0, 0, 4)); len(got) != 1 {
		t.Errorf("due = %v, want one entry after interval", got)
	}
}

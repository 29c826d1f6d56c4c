// Package flashcard is the interactive quiz screen: one question at a
// time, reveal the answer, self-grade. It is the root Bubble Tea model;
// all engine calls are local and fast, so the update loop stays
// synchronous.
package flashcard

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qbank/internal/engine"
	"github.com/abhisek/qbank/internal/extract"
	"github.com/abhisek/qbank/internal/quiz"
	"github.com/abhisek/qbank/internal/ui/layout"
)

type phase int

const (
	phasePrompt phase = iota
	phaseRevealed
	phaseSummary
)

// Model runs one quiz session as the root Bubble Tea model.
type Model struct {
	eng       *engine.Engine
	sessionID string

	current  extract.Question
	total    int
	answered int
	correct  int

	phase       phase
	confirmQuit bool
	report      quiz.Report
	errMsg      string

	width  int
	height int
}

// New creates the flashcard model for an already-started session.
func New(eng *engine.Engine, sessionID string, first extract.Question, total int) Model {
	return Model{
		eng:       eng,
		sessionID: sessionID,
		current:   first,
		total:     total,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		m.endSession()
		return m, tea.Quit
	}

	if m.confirmQuit {
		switch key {
		case "y", "Y":
			m.endSession()
			m.confirmQuit = false
			m.phase = phaseSummary
		case "n", "N", "esc":
			m.confirmQuit = false
		}
		return m, nil
	}

	switch m.phase {
	case phasePrompt:
		switch key {
		case "enter", " ", "space":
			m.phase = phaseRevealed
		case "esc":
			m.confirmQuit = true
		}

	case phaseRevealed:
		switch key {
		case "y", "Y":
			return m.grade(true)
		case "n", "N":
			return m.grade(false)
		case "esc":
			m.confirmQuit = true
		}

	case phaseSummary:
		return m, tea.Quit
	}

	return m, nil
}

// grade submits the self-assessment and advances to the next question
// or to the summary when the queue is exhausted.
func (m Model) grade(correct bool) (tea.Model, tea.Cmd) {
	res, err := m.eng.SubmitAnswer(context.Background(), m.sessionID, m.current.ID, correct)
	if err != nil {
		m.errMsg = err.Error()
		return m, tea.Quit
	}

	m.answered++
	if correct {
		m.correct++
	}

	if res.Complete {
		m.endSession()
		m.phase = phaseSummary
		return m, nil
	}

	m.current = *res.Next
	m.phase = phasePrompt
	return m, nil
}

func (m *Model) endSession() {
	report, err := m.eng.EndSession(context.Background(), m.sessionID)
	if err != nil {
		// Already ended; keep whatever report we have.
		return
	}
	m.report = report
}

func (m Model) keyHints() []layout.KeyHint {
	if m.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch m.phase {
	case phasePrompt:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Reveal answer"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseRevealed:
		return []layout.KeyHint{
			{Key: "Y", Description: "Got it"},
			{Key: "N", Description: "Missed it"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "any key", Description: "Exit"},
		}
	}
}

// Run starts a quiz session with the given policy and drives it in an
// interactive flashcard program.
func Run(eng *engine.Engine, p quiz.Policy) error {
	sessionID, first, err := eng.StartQuizSession(context.Background(), p)
	if err != nil {
		return err
	}

	s, err := eng.Sessions().Get(sessionID)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(New(eng, sessionID, first, s.Remaining()))
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.errMsg != "" {
		return fmt.Errorf("session aborted: %s", m.errMsg)
	}
	return nil
}

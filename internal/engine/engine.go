// Package engine binds the parser, extractor, corpus index, and quiz
// session manager into the externally consumed query service. The
// engine itself is stateless apart from the swappable active index and
// the session registry; all read operations serve whatever immutable
// snapshot is active at call time.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/abhisek/qbank/internal/config"
	"github.com/abhisek/qbank/internal/corpus"
	"github.com/abhisek/qbank/internal/extract"
	"github.com/abhisek/qbank/internal/parser"
	"github.com/abhisek/qbank/internal/quiz"
	"github.com/abhisek/qbank/internal/review"
	"github.com/abhisek/qbank/internal/store"
)

// Engine is the query service.
type Engine struct {
	cfg config.Config
	log zerolog.Logger

	// index holds the active corpus snapshot. Readers load the pointer
	// once and serve that snapshot; a reload swaps the pointer
	// atomically, so no reader ever observes a half-built index.
	index atomic.Pointer[corpus.Index]

	sessions  *quiz.Manager
	events    store.EventRepo
	snapshots store.SnapshotRepo
}

// New creates an engine. st may be nil for a purely in-memory engine
// without history or snapshot persistence.
func New(cfg config.Config, st *store.Store, log zerolog.Logger) *Engine {
	e := &Engine{
		cfg: cfg,
		log: log,
	}
	if st != nil {
		e.events = st.EventRepo()
		e.snapshots = st.SnapshotRepo()
	}
	e.sessions = quiz.NewManager(cfg.IdleTimeout.Std(), e.events, log)
	return e
}

// DocumentSummary reports per-document load results.
type DocumentSummary struct {
	Path        string
	Questions   int
	Skipped     int
	Diagnostics []string
}

// CorpusSummary reports the outcome of a corpus load.
type CorpusSummary struct {
	Questions  int
	Skipped    int
	Categories []string
	Documents  []DocumentSummary
}

// QuestionSummary is one ranked search hit.
type QuestionSummary struct {
	ID       string
	Category string
	Excerpt  string
	Score    int
}

// LoadCorpus parses the given documents and atomically swaps in a new
// index. Any unreadable input fails the whole attempt; per-block parse
// problems only degrade completeness and surface in the summary. On
// error or cancellation the previously active index stays in service.
func (e *Engine) LoadCorpus(ctx context.Context, paths []string) (CorpusSummary, error) {
	var summary CorpusSummary
	var questions []extract.Question
	categories := make(map[string]bool)
	usedIDs := make(map[string]bool)

	opts := extract.Options{
		StripMarkdown:  e.cfg.StripMarkdown,
		ExtraStopwords: e.cfg.ExtraStopwords,
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return CorpusSummary{}, &LoadError{Err: err}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return CorpusSummary{}, &LoadError{Path: path, Err: err}
		}

		parsed := parser.Parse(string(data))
		doc := extract.ExtractDocument(stem(path), parsed.Blocks, opts)
		disambiguate(doc.Questions, stem(path), usedIDs)

		docSummary := DocumentSummary{
			Path:      path,
			Questions: len(doc.Questions),
			Skipped:   doc.Skipped,
		}
		for _, d := range parsed.Diagnostics {
			msg := fmt.Sprintf("%s:%d: %s", path, d.Line, d.Message)
			docSummary.Diagnostics = append(docSummary.Diagnostics, msg)
			e.log.Debug().Str("path", path).Int("line", d.Line).Msg(d.Message)
		}

		questions = append(questions, doc.Questions...)
		summary.Skipped += doc.Skipped
		for _, c := range doc.Categories {
			if !categories[c] {
				categories[c] = true
				summary.Categories = append(summary.Categories, c)
			}
		}
		summary.Documents = append(summary.Documents, docSummary)
	}

	idx, err := corpus.Build(questions)
	if err != nil {
		return CorpusSummary{}, &LoadError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return CorpusSummary{}, &LoadError{Err: err}
	}

	summary.Questions = idx.Len()
	e.index.Store(idx)

	e.log.Info().
		Int("questions", summary.Questions).
		Int("skipped", summary.Skipped).
		Int("categories", len(summary.Categories)).
		Msg("corpus loaded")
	return summary, nil
}

// disambiguate rewrites ids that collide with an earlier document,
// e.g. two documents sharing a title. Ids within one document are
// already unique, so re-prefixing with the file stem resolves the
// cross-document case deterministically.
func disambiguate(questions []extract.Question, fileStem string, used map[string]bool) {
	for i := range questions {
		id := questions[i].ID
		if used[id] {
			seq := id[strings.LastIndex(id, "-")+1:]
			id = extract.Slugify(fileStem) + "-" + seq
			for used[id] {
				id = "x" + id
			}
			questions[i].ID = id
		}
		used[id] = true
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Index returns the active snapshot, or nil before the first load.
func (e *Engine) Index() *corpus.Index {
	return e.index.Load()
}

// GetQuestion returns one question by id.
func (e *Engine) GetQuestion(id string) (extract.Question, error) {
	idx := e.index.Load()
	if idx == nil {
		return extract.Question{}, ErrNoCorpus
	}
	return idx.Get(id)
}

// Search ranks questions against a free-text query.
func (e *Engine) Search(query string, f corpus.Filters) ([]QuestionSummary, error) {
	idx := e.index.Load()
	if idx == nil {
		return nil, ErrNoCorpus
	}

	results := idx.Search(query, f)
	summaries := make([]QuestionSummary, len(results))
	for i, r := range results {
		summaries[i] = QuestionSummary{
			ID:       r.Question.ID,
			Category: r.Question.Category,
			Excerpt:  excerpt(r.Question.Prompt, 80),
			Score:    r.Score,
		}
	}
	return summaries, nil
}

// StartQuizSession allocates a session and returns its id along with
// the first question.
func (e *Engine) StartQuizSession(ctx context.Context, p quiz.Policy) (string, extract.Question, error) {
	idx := e.index.Load()
	if idx == nil {
		return "", extract.Question{}, ErrNoCorpus
	}
	if p.Kind == "" {
		p.Kind = quiz.PolicyKind(e.cfg.DefaultPolicy)
	}

	s, err := e.sessions.Start(ctx, idx, p)
	if err != nil {
		return "", extract.Question{}, err
	}
	first, err := s.Current()
	if err != nil {
		return "", extract.Question{}, err
	}
	return s.ID(), first, nil
}

// SubmitAnswer grades the current question of a session.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, questionID string, correct bool) (quiz.SubmitResult, error) {
	return e.sessions.Submit(ctx, sessionID, questionID, correct)
}

// EndSession completes a session and returns its report.
func (e *Engine) EndSession(ctx context.Context, sessionID string) (quiz.Report, error) {
	return e.sessions.End(ctx, sessionID)
}

// Sessions exposes the session manager for callers that need direct
// session access, such as the interactive play screen.
func (e *Engine) Sessions() *quiz.Manager {
	return e.sessions
}

// SaveSnapshot persists the active index for fast restart and prunes
// old snapshots per configuration.
func (e *Engine) SaveSnapshot(ctx context.Context) error {
	if e.snapshots == nil {
		return fmt.Errorf("snapshot persistence is not configured")
	}
	idx := e.index.Load()
	if idx == nil {
		return ErrNoCorpus
	}

	data, err := idx.Snapshot()
	if err != nil {
		return err
	}
	if err := e.snapshots.SaveIndex(ctx, data); err != nil {
		return err
	}
	return e.snapshots.Prune(ctx, e.cfg.SnapshotKeep)
}

// LoadFromSnapshot restores the most recent persisted index. Returns
// ErrNoCorpus when no snapshot exists.
func (e *Engine) LoadFromSnapshot(ctx context.Context) (CorpusSummary, error) {
	if e.snapshots == nil {
		return CorpusSummary{}, fmt.Errorf("snapshot persistence is not configured")
	}

	data, err := e.snapshots.LatestIndex(ctx)
	if err != nil {
		return CorpusSummary{}, &LoadError{Err: err}
	}
	if data == nil {
		return CorpusSummary{}, ErrNoCorpus
	}

	idx, err := corpus.FromSnapshot(data)
	if err != nil {
		return CorpusSummary{}, &LoadError{Err: err}
	}

	e.index.Store(idx)
	e.log.Info().Int("questions", idx.Len()).Msg("corpus restored from snapshot")
	return CorpusSummary{
		Questions:  idx.Len(),
		Categories: idx.Categories(),
	}, nil
}

// ReviewSchedule rebuilds the spaced repetition scheduler by replaying
// recorded answer events in order.
func (e *Engine) ReviewSchedule(ctx context.Context) (*review.Scheduler, error) {
	sched := review.NewScheduler()
	if e.events == nil {
		return sched, nil
	}

	records, err := e.events.AnswerHistory(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		sched.Record(rec.QuestionID, rec.Correct, rec.Timestamp)
	}
	return sched, nil
}

// TagAccuracy returns historical per-tag performance, empty without a
// configured store.
func (e *Engine) TagAccuracy(ctx context.Context) (map[string]store.TagStats, error) {
	if e.events == nil {
		return map[string]store.TagStats{}, nil
	}
	return e.events.TagAccuracy(ctx)
}

func excerpt(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	cut := strings.LastIndex(text[:max], " ")
	if cut <= 0 {
		// No space to break on; back up to a rune boundary.
		cut = max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return text[:cut] + "…"
}

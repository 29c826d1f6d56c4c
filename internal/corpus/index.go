// Package corpus builds and serves the immutable question index. An
// Index is constructed once per load and never mutated afterwards, so
// any number of readers may query one snapshot concurrently; reload is
// a wholesale replacement handled by the engine, never an in-place
// update.
package corpus

import (
	"fmt"
	"sort"

	"github.com/abhisek/qbank/internal/extract"
)

// Index is one immutable snapshot of the loaded corpus.
type Index struct {
	questions map[string]extract.Question
	order     []string // ids in insertion order, the deterministic tiebreak order

	// Inverted token indexes. Prompt matches are tracked separately so
	// search can weight them double.
	promptTokens map[string]map[string]bool // token -> set of ids
	bodyTokens   map[string]map[string]bool

	byCategory map[string][]string
	byTag      map[string][]string
}

// Build constructs an Index from extracted questions. It validates the
// record invariants: non-empty prompts and unique ids. Build is
// deterministic: identical input always yields an identical index.
func Build(questions []extract.Question) (*Index, error) {
	idx := &Index{
		questions:    make(map[string]extract.Question, len(questions)),
		promptTokens: make(map[string]map[string]bool),
		bodyTokens:   make(map[string]map[string]bool),
		byCategory:   make(map[string][]string),
		byTag:        make(map[string][]string),
	}

	for _, q := range questions {
		if q.Prompt == "" {
			return nil, fmt.Errorf("question %s has empty prompt", q.ID)
		}
		if _, dup := idx.questions[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %s", q.ID)
		}

		idx.questions[q.ID] = q
		idx.order = append(idx.order, q.ID)
		idx.byCategory[q.Category] = append(idx.byCategory[q.Category], q.ID)
		for _, tag := range q.Tags {
			idx.byTag[tag] = append(idx.byTag[tag], q.ID)
		}

		addTokens(idx.promptTokens, q.ID, extract.Tokenize(q.Prompt))
		addTokens(idx.bodyTokens, q.ID, extract.Tokenize(q.Answer))
		addTokens(idx.bodyTokens, q.ID, extract.Tokenize(q.Explanation))
	}

	return idx, nil
}

func addTokens(index map[string]map[string]bool, id string, tokens []string) {
	for _, tok := range tokens {
		set := index[tok]
		if set == nil {
			set = make(map[string]bool)
			index[tok] = set
		}
		set[id] = true
	}
}

// Get returns the question with the given id.
func (idx *Index) Get(id string) (extract.Question, error) {
	q, ok := idx.questions[id]
	if !ok {
		return extract.Question{}, &NotFoundError{Kind: "question", Key: id}
	}
	return q, nil
}

// ByCategory returns the questions in a category, in corpus order.
func (idx *Index) ByCategory(category string) ([]extract.Question, error) {
	ids, ok := idx.byCategory[category]
	if !ok {
		return nil, &NotFoundError{Kind: "category", Key: category}
	}
	return idx.resolve(ids), nil
}

// ByTag returns the questions carrying a tag, in corpus order.
func (idx *Index) ByTag(tag string) ([]extract.Question, error) {
	ids, ok := idx.byTag[tag]
	if !ok {
		return nil, &NotFoundError{Kind: "tag", Key: tag}
	}
	return idx.resolve(ids), nil
}

// Categories returns all category names, sorted.
func (idx *Index) Categories() []string {
	names := make([]string, 0, len(idx.byCategory))
	for c := range idx.byCategory {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// HasCategory reports whether category exists in this snapshot.
func (idx *Index) HasCategory(category string) bool {
	_, ok := idx.byCategory[category]
	return ok
}

// IDs returns all question ids in corpus order.
func (idx *Index) IDs() []string {
	ids := make([]string, len(idx.order))
	copy(ids, idx.order)
	return ids
}

// Len returns the number of indexed questions.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Questions returns all questions in corpus order.
func (idx *Index) Questions() []extract.Question {
	return idx.resolve(idx.order)
}

func (idx *Index) resolve(ids []string) []extract.Question {
	out := make([]extract.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.questions[id])
	}
	return out
}

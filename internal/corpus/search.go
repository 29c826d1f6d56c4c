package corpus

import (
	"sort"
	"strings"

	"github.com/abhisek/qbank/internal/extract"
)

// Filters narrows a search to a category and/or tags. Zero values mean
// no constraint.
type Filters struct {
	Category string
	Tags     []string
}

// SearchResult is one ranked hit.
type SearchResult struct {
	Question extract.Question
	Score    int
}

// categoryMismatchPenalty is subtracted when the query infers a
// category the question does not belong to and the caller supplied no
// explicit category filter.
const categoryMismatchPenalty = 1

// Search ranks questions against a free-text query. The score counts
// distinct query tokens matched, with prompt matches weighted double,
// minus a small penalty for questions outside an inferred category.
// Ties break by ascending id so results are deterministic. Tokens
// absent from the corpus contribute nothing; an all-absent query
// returns an empty result.
func (idx *Index) Search(query string, f Filters) []SearchResult {
	tokens := dedupe(extract.Tokenize(query))
	if len(tokens) == 0 {
		return nil
	}

	// Infer a category when none was requested: a query that contains
	// every word of a category's name suggests the caller's intent
	// without excluding anything outright.
	inferred := ""
	if f.Category == "" {
		inferred = inferCategory(tokens, idx.Categories())
	}

	scores := make(map[string]int)
	for _, tok := range tokens {
		for id := range idx.promptTokens[tok] {
			scores[id] += 2
		}
		for id := range idx.bodyTokens[tok] {
			if !idx.promptTokens[tok][id] {
				scores[id]++
			}
		}
	}

	var results []SearchResult
	for id, score := range scores {
		q := idx.questions[id]
		if f.Category != "" && q.Category != f.Category {
			continue
		}
		if !hasAllTags(q, f.Tags) {
			continue
		}
		if inferred != "" && q.Category != inferred {
			score -= categoryMismatchPenalty
		}
		if score <= 0 {
			continue
		}
		results = append(results, SearchResult{Question: q, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Question.ID < results[j].Question.ID
	})
	return results
}

// inferCategory picks the category whose name words all appear among
// the query tokens. The most specific candidate wins, with ties going
// to the first in sorted order, so inference is deterministic.
func inferCategory(tokens []string, categories []string) string {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}

	best := ""
	bestWords := 0
	for _, cat := range categories {
		words := extract.Tokenize(cat)
		if len(words) == 0 || len(words) <= bestWords {
			continue
		}
		matched := true
		for _, w := range words {
			if !set[w] {
				matched = false
				break
			}
		}
		if matched {
			best = cat
			bestWords = len(words)
		}
	}
	return best
}

func hasAllTags(q extract.Question, tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range q.Tags {
			if strings.EqualFold(want, have) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func dedupe(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

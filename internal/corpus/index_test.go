package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/qbank/internal/extract"
)

func fixtureQuestions() []extract.Question {
	return []extract.Question{
		{
			ID:       "django-1",
			Number:   1,
			Category: "Django Basics",
			Prompt:   "What is Django?",
			Answer:   "A high-level Python web framework.",
			Tags:     []string{"django", "django-basics"},
		},
		{
			ID:          "django-2",
			Number:      2,
			Category:    "Django Basics",
			Prompt:      "What does select_related do?",
			Answer:      "Performs a SQL join to fetch related objects.",
			Explanation: "Avoids the N+1 query problem.",
			Tags:        []string{"django-basics", "orm", "select_related"},
		},
		{
			ID:       "python-1",
			Number:   1,
			Category: "Python Advanced Topics",
			Prompt:   "What is the GIL?",
			Answer:   "The global interpreter lock limits Python threads.",
			Tags:     []string{"gil", "python-advanced-topics", "threads"},
		},
	}
}

func buildFixture(t *testing.T) *Index {
	t.Helper()
	idx, err := Build(fixtureQuestions())
	require.NoError(t, err)
	return idx
}

func TestBuildValidatesInvariants(t *testing.T) {
	_, err := Build([]extract.Question{{ID: "x-1", Category: "C", Prompt: ""}})
	require.Error(t, err)

	qs := fixtureQuestions()
	qs = append(qs, qs[0])
	_, err = Build(qs)
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	idx := buildFixture(t)

	q, err := idx.Get("django-2")
	require.NoError(t, err)
	assert.Equal(t, "What does select_related do?", q.Prompt)

	_, err = idx.Get("missing-99")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestByCategoryAndByTag(t *testing.T) {
	idx := buildFixture(t)

	qs, err := idx.ByCategory("Django Basics")
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	qs, err = idx.ByTag("gil")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "python-1", qs[0].ID)

	_, err = idx.ByCategory("Rust")
	assert.True(t, IsNotFound(err))
	_, err = idx.ByTag("missing")
	assert.True(t, IsNotFound(err))
}

func TestCategoriesSorted(t *testing.T) {
	idx := buildFixture(t)
	assert.Equal(t, []string{"Django Basics", "Python Advanced Topics"}, idx.Categories())
}

func TestSearchRanksPromptMatchesFirst(t *testing.T) {
	idx := buildFixture(t)

	results := idx.Search("select_related", Filters{})
	require.NotEmpty(t, results)
	assert.Equal(t, "django-2", results[0].Question.ID)
	// Prompt match weighs double a body-only match.
	assert.Equal(t, 2, results[0].Score)
}

func TestSearchAbsentTokenReturnsEmpty(t *testing.T) {
	idx := buildFixture(t)
	assert.Empty(t, idx.Search("kubernetes", Filters{}))
	assert.Empty(t, idx.Search("", Filters{}))
}

func TestSearchCategoryFilter(t *testing.T) {
	idx := buildFixture(t)

	results := idx.Search("python", Filters{Category: "Django Basics"})
	require.Len(t, results, 1)
	assert.Equal(t, "django-1", results[0].Question.ID)
}

func TestSearchTagFilter(t *testing.T) {
	idx := buildFixture(t)

	results := idx.Search("related objects", Filters{Tags: []string{"orm"}})
	require.Len(t, results, 1)
	assert.Equal(t, "django-2", results[0].Question.ID)
}

func TestSearchInferredCategoryPenalizesOutsideHits(t *testing.T) {
	qs := []extract.Question{
		{ID: "a-1", Category: "Django Basics", Prompt: "How do django basics views work?", Answer: "x"},
		{ID: "b-1", Category: "Python Advanced Topics", Prompt: "Using django basics from python code", Answer: "y"},
	}
	idx, err := Build(qs)
	require.NoError(t, err)

	// Both prompts match both tokens; the hit outside the inferred
	// "Django Basics" category is penalized by one point.
	results := idx.Search("django basics", Filters{})
	require.Len(t, results, 2)
	assert.Equal(t, "a-1", results[0].Question.ID)
	assert.Equal(t, 4, results[0].Score)
	assert.Equal(t, "b-1", results[1].Question.ID)
	assert.Equal(t, 3, results[1].Score)

	// An explicit category filter disables inference entirely.
	results = idx.Search("django basics", Filters{Category: "Python Advanced Topics"})
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Score)
}

func TestSearchInferredCategoryPrefersMostSpecific(t *testing.T) {
	qs := []extract.Question{
		{ID: "a-1", Category: "Django", Prompt: "What are django models?", Answer: "x"},
		{ID: "b-1", Category: "Django Basics", Prompt: "What are django basics?", Answer: "y"},
	}
	idx, err := Build(qs)
	require.NoError(t, err)

	// "Django Basics" is the longer name covered by the query, so the
	// question in the shorter "Django" category takes the penalty.
	results := idx.Search("django basics", Filters{})
	require.Len(t, results, 2)
	assert.Equal(t, "b-1", results[0].Question.ID)
	assert.Equal(t, 4, results[0].Score)
	assert.Equal(t, "a-1", results[1].Question.ID)
	assert.Equal(t, 1, results[1].Score)
}

func TestSearchTieBreaksByAscendingID(t *testing.T) {
	qs := []extract.Question{
		{ID: "a-2", Category: "C", Prompt: "shared token alpha", Answer: "x"},
		{ID: "a-1", Category: "C", Prompt: "shared token alpha", Answer: "y"},
	}
	idx, err := Build(qs)
	require.NoError(t, err)

	results := idx.Search("alpha", Filters{})
	require.Len(t, results, 2)
	assert.Equal(t, "a-1", results[0].Question.ID)
	assert.Equal(t, "a-2", results[1].Question.ID)
}

func TestSearchDistinctTokensNotOccurrences(t *testing.T) {
	qs := []extract.Question{
		{ID: "a-1", Category: "C", Prompt: "cache cache cache", Answer: "x"},
		{ID: "a-2", Category: "C", Prompt: "cache invalidation strategy", Answer: "x"},
	}
	idx, err := Build(qs)
	require.NoError(t, err)

	results := idx.Search("cache invalidation", Filters{})
	require.Len(t, results, 2)
	// Two distinct prompt tokens beat one repeated token.
	assert.Equal(t, "a-2", results[0].Question.ID)
	assert.Equal(t, 4, results[0].Score)
	assert.Equal(t, 2, results[1].Score)
}

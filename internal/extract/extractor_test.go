package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/qbank/internal/parser"
)

const sampleDoc = `# Django Interview Questions

## Django Basics

#### 1. What is Django?

**Answer:** Django is a high-level Python web framework.

**Explanation:** It follows the MTV pattern and ships with an ORM.

#### 2. What does ` + "`select_related`" + ` do?

**Answer:** It performs a SQL join and includes related objects.

` + "```python" + `
Book.objects.select_related("author").get(id=1)
` + "```" + `

More detail after the code.

## Python Advanced Topics

#### 1. What is the GIL?

**Answer:** The global interpreter lock.
`

func extractSample(t *testing.T) DocResult {
	t.Helper()
	res := parser.Parse(sampleDoc)
	require.Empty(t, res.Diagnostics)
	return ExtractDocument("django.md", res.Blocks, DefaultOptions())
}

func TestExtractDocumentBasics(t *testing.T) {
	doc := extractSample(t)
	require.Len(t, doc.Questions, 3)
	assert.Zero(t, doc.Skipped)
	assert.Equal(t, []string{"Django Basics", "Python Advanced Topics"}, doc.Categories)

	q := doc.Questions[0]
	assert.Equal(t, "django-interview-questions-1", q.ID)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, "Django Basics", q.Category)
	assert.Equal(t, "What is Django?", q.Prompt)
	assert.Equal(t, "Django is a high-level Python web framework.", q.Answer)
	assert.Contains(t, q.Explanation, "MTV pattern")
}

func TestExtractIDsUniqueAcrossDuplicateNumbers(t *testing.T) {
	// Both sections restart numbering at 1; ids must not collide.
	doc := extractSample(t)
	assert.Equal(t, "django-interview-questions-1", doc.Questions[0].ID)
	assert.Equal(t, "django-interview-questions-3", doc.Questions[2].ID)
	assert.Equal(t, 1, doc.Questions[2].Number)
}

func TestExtractCodeSnippetsPreserved(t *testing.T) {
	doc := extractSample(t)
	q := doc.Questions[1]
	require.Len(t, q.Snippets, 1)
	assert.Equal(t, "python", q.Snippets[0].Language)
	assert.Equal(t, `Book.objects.select_related("author").get(id=1)`, q.Snippets[0].Code)
	// Unlabeled text after the fence rejoins the open answer segment.
	assert.Contains(t, q.Answer, "More detail after the code.")
}

func TestExtractTagsDerived(t *testing.T) {
	doc := extractSample(t)
	q := doc.Questions[1]
	assert.Contains(t, q.Tags, "select_related")
	assert.Contains(t, q.Tags, "django-basics")
	assert.NotContains(t, q.Tags, "what")
	assert.NotContains(t, q.Tags, "does")
}

func TestExtractSkipsEmptyPrompt(t *testing.T) {
	res := parser.Parse("## Cat\n#### 3. **\n**Answer:** orphaned.\n#### 4. Real question?\n**Answer:** yes.\n")
	doc := ExtractDocument("doc.md", res.Blocks, DefaultOptions())
	require.Len(t, doc.Questions, 1)
	assert.Equal(t, 1, doc.Skipped)
	assert.Equal(t, "Real question?", doc.Questions[0].Prompt)
}

func TestExtractUnlabeledBodyBecomesAnswer(t *testing.T) {
	res := parser.Parse("## Cat\n#### 1. Q?\nJust a plain paragraph with no label.\n")
	doc := ExtractDocument("doc.md", res.Blocks, DefaultOptions())
	require.Len(t, doc.Questions, 1)
	assert.Equal(t, "Just a plain paragraph with no label.", doc.Questions[0].Answer)
}

func TestExtractFallbackCategory(t *testing.T) {
	res := parser.Parse("#### 1. Orphan question?\n**Answer:** no section above.\n")
	doc := ExtractDocument("doc.md", res.Blocks, DefaultOptions())
	require.Len(t, doc.Questions, 1)
	assert.Equal(t, "General", doc.Questions[0].Category)
}

func TestExtractStripMarkdownDisabled(t *testing.T) {
	res := parser.Parse("## Cat\n#### 1. What is `yield`?\n**Answer:** see *docs*.\n")
	opts := Options{StripMarkdown: false}
	doc := ExtractDocument("doc.md", res.Blocks, opts)
	require.Len(t, doc.Questions, 1)
	assert.Equal(t, "What is `yield`?", doc.Questions[0].Prompt)
	assert.Equal(t, "see *docs*.", doc.Questions[0].Answer)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"what", "does", "select_related", "do"},
		Tokenize("What does `select_related` do?"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "python-advanced-topics", Slugify("Python Advanced Topics"))
}

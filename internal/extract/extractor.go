// Package extract turns parsed markdown blocks into structured Question
// records. The source corpora use an informal "bold label" convention
// (**Answer:**, **Explanation:**) rather than a machine-readable schema,
// so extraction is heuristic span classification, not strict parsing:
// unlabeled text joins whichever segment was most recently open, and a
// bad record is skipped, never fatal.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/qbank/internal/parser"
)

// Options configures extraction behavior.
type Options struct {
	// StripMarkdown removes inline emphasis and backtick markers from
	// prompts and answers. Code snippets are always kept verbatim.
	StripMarkdown bool

	// ExtraStopwords extends the built-in stopword list for tag
	// derivation.
	ExtraStopwords []string
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{StripMarkdown: true}
}

var (
	questionRe = regexp.MustCompile(`^(?:Q(?:uestion)?\s*)?(\d+)\s*[.):\-]\s*(.+)$`)
	labelRe    = regexp.MustCompile(`(?i)^\*\*\s*(answer|explanation)\s*:?\s*\*\*\s*:?\s*(.*)$`)
	fenceRe    = regexp.MustCompile("^\\s*(`{3,})([^`]*)$")
	// Underscores are left alone: identifiers like select_related are
	// content, not emphasis, in these corpora.
	inlineMdRe = regexp.MustCompile("[*`]")
)

// ExtractDocument converts one document's blocks into Question records.
// name is used for id synthesis when the document has no level-1 title.
func ExtractDocument(name string, blocks []parser.Block, opts Options) DocResult {
	var res DocResult

	slug := Slugify(name)
	category := ""
	seen := make(map[string]bool)
	seq := 0

	// Heading levels above the question level act as section markers.
	// The nearest preceding non-question heading is the category.
	for _, b := range blocks {
		if b.Level == 0 {
			continue
		}

		m := questionRe.FindStringSubmatch(b.Heading)
		if m == nil {
			if b.Level == 1 && category == "" && len(res.Questions) == 0 {
				// Document title: prefer it for the id slug.
				if s := Slugify(b.Heading); s != "" {
					slug = s
				}
				continue
			}
			if strings.TrimSpace(b.Heading) != "" {
				category = strings.TrimSpace(b.Heading)
			}
			continue
		}

		prompt := strings.TrimSpace(m[2])
		if opts.StripMarkdown {
			prompt = stripInline(prompt)
		}
		if prompt == "" {
			res.Skipped++
			continue
		}

		cat := category
		if cat == "" {
			cat = "General"
		}
		if !seen[cat] {
			seen[cat] = true
			res.Categories = append(res.Categories, cat)
		}

		seq++
		number, _ := strconv.Atoi(m[1])

		q := Question{
			ID:       fmt.Sprintf("%s-%d", slug, seq),
			Number:   number,
			Category: cat,
			Prompt:   prompt,
		}
		partitionBody(b.Body, &q, opts)
		q.Tags = DeriveTags(m[2], cat, opts.ExtraStopwords)

		res.Questions = append(res.Questions, q)
	}

	return res
}

// partitionBody splits a question body into answer and explanation
// segments plus code snippets, scanning for label markers in order of
// appearance. Text before any label belongs to the answer.
func partitionBody(body string, q *Question, opts Options) {
	type segment int
	const (
		segAnswer segment = iota
		segExplanation
	)

	var answer, explanation []string
	current := segAnswer

	appendLine := func(line string) {
		switch current {
		case segAnswer:
			answer = append(answer, line)
		case segExplanation:
			explanation = append(explanation, line)
		}
	}

	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := fenceRe.FindStringSubmatch(line); m != nil {
			fenceLen := len(m[1])
			lang := strings.TrimSpace(m[2])
			var code []string
			j := i + 1
			for ; j < len(lines); j++ {
				trimmed := strings.TrimSpace(lines[j])
				if len(trimmed) >= fenceLen && len(trimmed) == strings.Count(trimmed, "`") && len(trimmed) > 0 {
					break
				}
				code = append(code, lines[j])
			}
			q.Snippets = append(q.Snippets, CodeSnippet{
				Language: lang,
				Code:     strings.Join(code, "\n"),
			})
			i = j
			continue
		}

		if m := labelRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			switch strings.ToLower(m[1]) {
			case "answer":
				current = segAnswer
			case "explanation":
				current = segExplanation
			}
			if rest := strings.TrimSpace(m[2]); rest != "" {
				appendLine(rest)
			}
			continue
		}

		if isSeparator(line) {
			continue
		}
		appendLine(line)
	}

	q.Answer = cleanSegment(answer, opts)
	q.Explanation = cleanSegment(explanation, opts)
}

func cleanSegment(lines []string, opts Options) string {
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if opts.StripMarkdown {
		text = stripInline(text)
	}
	return text
}

// isSeparator reports whether line is a horizontal rule.
func isSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 {
		return false
	}
	for _, r := range trimmed {
		if r != '-' && r != '*' && r != '_' {
			return false
		}
	}
	return true
}

// stripInline removes inline emphasis and code markers, leaving the
// text content intact.
func stripInline(text string) string {
	return inlineMdRe.ReplaceAllString(text, "")
}

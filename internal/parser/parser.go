// Package parser splits raw markdown documents into heading-delimited
// blocks. It is deliberately tolerant: the interview-question corpora it
// targets were written by hand, with mixed heading levels, horizontal
// rules between entries, and occasionally unterminated code fences.
package parser

import (
	"regexp"
	"strings"
)

// Block is one heading-delimited unit of raw document text.
type Block struct {
	// Level is the heading level (1-6). Level 0 marks preamble text
	// that appears before the first heading.
	Level int

	// Heading is the heading text without the leading # markers.
	Heading string

	// Body is the raw text between this heading and the next one.
	// Fenced code blocks are preserved verbatim, fence lines included,
	// so downstream extraction can recover language hints.
	Body string

	// Line is the 1-based source line of the heading.
	Line int
}

// Diagnostic records a recoverable problem found while parsing.
type Diagnostic struct {
	Line    int
	Message string
}

// Result holds the ordered blocks of one document plus any diagnostics.
type Result struct {
	Blocks      []Block
	Diagnostics []Diagnostic
}

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	fenceOpenRe = regexp.MustCompile("^(`{3,})([^`]*)$")
)

// Parse splits text into blocks. Parsing is a pure function of its
// input, so callers may restart it at any time; identical bytes always
// produce identical results.
func Parse(text string) Result {
	var res Result

	lines := strings.Split(text, "\n")

	current := Block{Level: 0, Heading: "", Line: 1}
	var body []string
	started := false

	flush := func() {
		current.Body = strings.Join(body, "\n")
		// A preamble block is only emitted when it has content; a real
		// heading is always emitted, even with an empty body, so the
		// extractor can decide whether it is a question.
		if started || strings.TrimSpace(current.Body) != "" {
			res.Blocks = append(res.Blocks, current)
		}
		body = nil
	}

	inFence := false
	fenceLen := 0
	fenceLine := 0

	for i, line := range lines {
		if inFence {
			body = append(body, line)
			// A close fence is a run of backticks at least as long as
			// the opener. Anything else, shorter runs of backticks
			// included, is literal content of the open fence.
			trimmed := strings.TrimSpace(line)
			if len(trimmed) >= fenceLen && strings.Count(trimmed, "`") == len(trimmed) && len(trimmed) > 0 {
				inFence = false
			}
			continue
		}

		if m := fenceOpenRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			inFence = true
			fenceLen = len(m[1])
			fenceLine = i + 1
			body = append(body, line)
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			current = Block{
				Level:   len(m[1]),
				Heading: strings.TrimSpace(m[2]),
				Line:    i + 1,
			}
			started = true
			continue
		}

		body = append(body, line)
	}

	if inFence {
		// Unterminated fence: the remainder of the document already
		// became part of the block body. Record and continue.
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Line:    fenceLine,
			Message: "unterminated code fence; treated rest of document as code",
		})
	}

	flush()
	return res
}

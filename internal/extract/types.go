package extract

// CodeSnippet is one fenced code block recovered from a question body.
type CodeSnippet struct {
	// Language is the fence info string, e.g. "python". Empty when the
	// fence had no language hint.
	Language string `json:"language"`

	// Code is the literal fence content, fence lines excluded.
	Code string `json:"code"`
}

// Question is the atomic record served by the engine.
type Question struct {
	// ID is synthesized as <document-slug>-<sequence> and is stable
	// across re-parses of unchanged bytes. The numeral embedded in the
	// source heading is display-only; two documents may both contain a
	// "1." without colliding.
	ID string `json:"id"`

	// Number is the numeral as written in the source heading.
	Number int `json:"number"`

	// Category is the top-level section the question belongs to.
	Category string `json:"category"`

	// Prompt is the question text. Never empty on an extracted record.
	Prompt string `json:"prompt"`

	// Answer is the primary answer text.
	Answer string `json:"answer"`

	// Explanation is optional extended discussion. May be empty.
	Explanation string `json:"explanation,omitempty"`

	// Snippets are the fenced code blocks in source order, never
	// deduplicated.
	Snippets []CodeSnippet `json:"snippets,omitempty"`

	// Tags are lowercase keywords derived from the heading and
	// category, sorted for determinism.
	Tags []string `json:"tags,omitempty"`
}

// DocResult is the outcome of extracting one document.
type DocResult struct {
	// Questions are the extracted records in source order.
	Questions []Question

	// Skipped counts numbered headings rejected for having an empty
	// prompt after marker stripping.
	Skipped int

	// Categories are the category names discovered, in first-seen order.
	Categories []string
}

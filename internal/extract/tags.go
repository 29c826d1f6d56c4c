package extract

import (
	"sort"
	"strings"
	"unicode"
)

// stopwords are heading words too common to be useful as tags.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "be": true,
	"between": true, "by": true, "can": true, "do": true, "does": true,
	"for": true, "from": true, "how": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "the": true,
	"to": true, "use": true, "what": true, "when": true, "which": true,
	"why": true, "with": true, "would": true, "you": true, "your": true,
}

// Tokenize lowercases text and splits it into word tokens, dropping
// punctuation. Underscores and digits are kept inside tokens so that
// identifiers like select_related and utf8 survive intact.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// DeriveTags builds the tag set for a question: heading tokens minus
// stopwords, unioned with the category's own slug tag. The result is
// sorted and deduplicated.
func DeriveTags(heading, category string, extraStopwords []string) []string {
	extra := make(map[string]bool, len(extraStopwords))
	for _, w := range extraStopwords {
		extra[strings.ToLower(w)] = true
	}

	set := make(map[string]bool)
	for _, tok := range Tokenize(heading) {
		if stopwords[tok] || extra[tok] {
			continue
		}
		set[tok] = true
	}
	if s := Slugify(category); s != "" {
		set[s] = true
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Slugify renders text as a lowercase hyphen-joined identifier, used
// for document id prefixes and category tags.
func Slugify(text string) string {
	return strings.Join(Tokenize(text), "-")
}

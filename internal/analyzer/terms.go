package analyzer

import (
	"regexp"
	"strings"
)

const maxKeyTerms = 15

var (
	codeSpanPattern = regexp.MustCompile("`([^`]+)`")
	acronymPattern  = regexp.MustCompile(`\b([A-Z]{3,})\b`)
	callPattern     = regexp.MustCompile(`(\w+)\s*\(`)
)

// callStopwords are language keywords that look like calls but name nothing.
var callStopwords = map[string]bool{
	"print": true, "return": true, "if": true, "else": true, "for": true,
	"while": true, "def": true, "class": true, "import": true, "from": true,
	"export": true, "default": true, "const": true, "let": true, "var": true,
	"function": true, "func": true, "switch": true, "catch": true,
}

// KeyTerms extracts technical terms: inline code spans, upper-case acronyms and
// call-like identifiers. Terms are de-duplicated in first-seen order.
func KeyTerms(text string) []string {
	seen := map[string]bool{}
	var terms []string
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] || len(terms) >= maxKeyTerms {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, m := range codeSpanPattern.FindAllStringSubmatch(text, -1) {
		if !strings.Contains(m[1], "\n") {
			add(m[1])
		}
	}
	for _, m := range acronymPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range callPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if len(name) > 2 && !callStopwords[strings.ToLower(name)] {
			add(name)
		}
	}
	return terms
}

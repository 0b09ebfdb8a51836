package analyzer

import (
	"sort"
	"strings"

	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

// PrerequisiteSet is a set of prerequisite labels. It has no order; use Sorted
// when rendering.
type PrerequisiteSet map[string]struct{}

// Add inserts a label.
func (s PrerequisiteSet) Add(label string) { s[label] = struct{}{} }

// Has reports membership.
func (s PrerequisiteSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Sorted returns the labels in lexical order.
func (s PrerequisiteSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for label := range s {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// ClassifyPrerequisites matches text against the taxonomy categories. A category
// contributes its label on the first keyword hit; its remaining keywords are
// not checked. Categories are independent, so several may match.
func ClassifyPrerequisites(text string, tax *taxonomy.Taxonomy) PrerequisiteSet {
	set := PrerequisiteSet{}
	lower := strings.ToLower(text)

	for _, c := range tax.Categories {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				set.Add(c.Label)
				break
			}
		}
	}

	if tax.Fundamentals.Label != "" && containsAny(lower, tax.Fundamentals.Signals) {
		set.Add(tax.Fundamentals.Label)
	}
	return set
}

// containsAny reports whether lower contains any keyword, case-insensitively.
// lower must already be lower-cased.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

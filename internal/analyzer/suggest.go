package analyzer

import (
	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

// SuggestionKind classifies a Suggestion.
type SuggestionKind string

const (
	KindMissingSection SuggestionKind = "missing_section"
	KindCodeBlock      SuggestionKind = "code_block"
)

// Suggestion is one human-readable enhancement hint.
type Suggestion struct {
	Kind        SuggestionKind  `json:"type"`
	Section     doctree.Section `json:"section,omitempty"`
	Label       string          `json:"label"`
	BlockIndex  int             `json:"block_index,omitempty"`
	Description string          `json:"description"`
}

// Suggestions lists missing sections first, then code blocks lacking a language.
func Suggestions(d Detection, tax *taxonomy.Taxonomy) []Suggestion {
	out := make([]Suggestion, 0, len(d.Missing)+len(d.CodeBlocksMissingLanguage))
	for _, s := range d.Missing {
		spec := tax.Section(s)
		out = append(out, Suggestion{
			Kind:        KindMissingSection,
			Section:     s,
			Label:       spec.Heading,
			Description: spec.Description,
		})
	}
	for _, idx := range d.CodeBlocksMissingLanguage {
		out = append(out, Suggestion{
			Kind:        KindCodeBlock,
			Label:       string(KindCodeBlock),
			BlockIndex:  idx,
			Description: tax.Messages.CodeBlockLanguage,
		})
	}
	return out
}

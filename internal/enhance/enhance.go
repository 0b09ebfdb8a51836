// Package enhance wires the parser, analyzers and composer into the two
// document operations exposed by the CLI and the server: Analyze and Enhance.
package enhance

import (
	"github.com/dgallion1/mdenrich/internal/analyzer"
	"github.com/dgallion1/mdenrich/internal/composer"
	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/metrics"
	"github.com/dgallion1/mdenrich/internal/parser"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

// Analysis is everything derived from one document. It carries no state
// between documents.
type Analysis struct {
	Model         *doctree.Model        `json:"model"`
	Detection     analyzer.Detection    `json:"detection"`
	Prerequisites []string              `json:"prerequisites"`
	Objectives    []string              `json:"objectives"`
	DocType       string                `json:"doc_type,omitempty"`
	KeyTerms      []string              `json:"key_terms"`
	Suggestions   []analyzer.Suggestion `json:"suggestions"`

	prereqs analyzer.PrerequisiteSet
}

// Enhancer is safe for concurrent use; it only reads its taxonomy.
type Enhancer struct {
	tax      *taxonomy.Taxonomy
	composer *composer.Composer
}

// New returns an Enhancer for tax.
func New(tax *taxonomy.Taxonomy) *Enhancer {
	return &Enhancer{tax: tax, composer: composer.New(tax)}
}

// Taxonomy returns the taxonomy the enhancer was built with.
func (e *Enhancer) Taxonomy() *taxonomy.Taxonomy { return e.tax }

// Analyze runs the parser and every analyzer over text.
func (e *Enhancer) Analyze(text string) *Analysis {
	m := parser.Parse(text, e.tax)
	d := analyzer.Detect(m)
	prereqs := analyzer.ClassifyPrerequisites(text, e.tax)

	a := &Analysis{
		Model:         m,
		Detection:     d,
		Prerequisites: prereqs.Sorted(),
		Objectives:    analyzer.SynthesizeObjectives(text, m.Title, m.Headings, e.tax),
		KeyTerms:      analyzer.KeyTerms(text),
		Suggestions:   analyzer.Suggestions(d, e.tax),
		prereqs:       prereqs,
	}
	if dt, ok := analyzer.ClassifyDocType(text, e.tax); ok {
		a.DocType = dt.Label
	}
	if a.KeyTerms == nil {
		a.KeyTerms = []string{}
	}
	return a
}

// Enhance returns text with the missing sections inserted, together with the
// analysis of the original text and the sections that were inserted.
func (e *Enhancer) Enhance(text string) (string, *Analysis, []doctree.Section) {
	a := e.Analyze(text)
	out, inserted := e.composer.Compose(text, a.Model, a.Detection, a.prereqs, a.Objectives)
	for _, s := range inserted {
		metrics.SectionsInserted.WithLabelValues(string(s)).Inc()
	}
	return out, a, inserted
}

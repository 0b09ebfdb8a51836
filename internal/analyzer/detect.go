// Package analyzer derives enhancement decisions from a structural model and the
// raw document text: which sections are missing, which prerequisites the text
// implies, what kind of document it is and which learning objectives fit it.
// Every function here is pure and safe for concurrent use.
package analyzer

import (
	"strings"

	"github.com/dgallion1/mdenrich/internal/doctree"
)

// Detection is the SectionDetector result.
type Detection struct {
	Missing                   []doctree.Section `json:"missing"`
	CodeBlocksMissingLanguage []int             `json:"code_blocks_missing_language"`
}

// IsMissing reports whether s needs to be added.
func (d Detection) IsMissing(s doctree.Section) bool {
	for _, m := range d.Missing {
		if m == s {
			return true
		}
	}
	return false
}

// Detect inspects the model for missing sections and untagged code blocks.
// FAQ only counts as missing when the document has step lines.
func Detect(m *doctree.Model) Detection {
	d := Detection{
		Missing:                   []doctree.Section{},
		CodeBlocksMissingLanguage: []int{},
	}
	if m == nil {
		return d
	}

	if !m.Presence.LearningObjectives {
		d.Missing = append(d.Missing, doctree.SectionObjectives)
	}
	if !m.Presence.Prerequisites {
		d.Missing = append(d.Missing, doctree.SectionPrerequisites)
	}
	if !m.Presence.FAQ && len(m.Steps) > 0 {
		d.Missing = append(d.Missing, doctree.SectionFAQ)
	}

	for i, cb := range m.CodeBlocks {
		if strings.TrimSpace(cb.Language) == "" {
			d.CodeBlocksMissingLanguage = append(d.CodeBlocksMissingLanguage, i)
		}
	}
	return d
}

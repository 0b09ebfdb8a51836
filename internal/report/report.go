// Package report renders human-readable analysis output for the CLI and the
// /api/suggest endpoint. All strings come from the taxonomy messages.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/enhance"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

// outlineLimit is the number of headings shown in the suggestion report.
const outlineLimit = 10

// Summary renders the short analysis printed by `enhance --analyze`.
func Summary(file string, a *enhance.Analysis, tax *taxonomy.Taxonomy) string {
	msg := tax.Messages
	var b strings.Builder

	b.WriteString(taxonomy.Format(msg.AnalysisHeader, "file", file))
	b.WriteString("\n")
	title := a.Model.Title
	if title == "" {
		title = msg.NoTitle
	}
	item(&b, msg.Title, title)
	item(&b, msg.Headings, strconv.Itoa(len(a.Model.Headings)))
	item(&b, msg.CodeBlocks, strconv.Itoa(len(a.Model.CodeBlocks)))
	item(&b, msg.Steps, strconv.Itoa(len(a.Model.Steps)))
	item(&b, msg.SuggestionCount, strconv.Itoa(len(a.Suggestions)))
	item(&b, msg.DocType, orNone(a.DocType, msg.None))
	item(&b, msg.Prerequisites, orNone(strings.Join(a.Prerequisites, ", "), msg.None))
	item(&b, msg.KeyTerms, orNone(strings.Join(a.KeyTerms, ", "), msg.None))
	return b.String()
}

// Suggest renders the full `enhance --suggest` report: overview, structure
// check, numbered suggestions and a heading outline.
func Suggest(file string, a *enhance.Analysis, tax *taxonomy.Taxonomy) string {
	msg := tax.Messages
	m := a.Model
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", taxonomy.Format(msg.ReportTitle, "file", file))

	fmt.Fprintf(&b, "\n## %s\n", msg.BasicInfo)
	title := m.Title
	if title == "" {
		title = msg.NoTitle
	}
	item(&b, msg.Title, title)
	item(&b, msg.Headings, strconv.Itoa(len(m.Headings)))
	item(&b, msg.CodeBlocks, strconv.Itoa(len(m.CodeBlocks)))
	item(&b, msg.Steps, strconv.Itoa(len(m.Steps)))

	fmt.Fprintf(&b, "\n## %s\n", msg.StructureCheck)
	for _, s := range doctree.Sections {
		state := msg.Missing
		if m.Presence.Has(s) {
			state = msg.Present
		}
		item(&b, tax.Section(s).Label, state)
	}

	fmt.Fprintf(&b, "\n## %s\n", msg.SuggestionsTitle)
	for i, s := range a.Suggestions {
		fmt.Fprintf(&b, "\n%d. [%s] %s\n", i+1, s.Kind, s.Label)
		fmt.Fprintf(&b, "   %s\n", s.Description)
	}

	fmt.Fprintf(&b, "\n## %s\n", msg.OutlineTitle)
	for i, h := range m.Headings {
		if i == outlineLimit {
			break
		}
		fmt.Fprintf(&b, "%s- %s %s\n", strings.Repeat("  ", h.Level-1), strings.Repeat("#", h.Level), h.Text)
	}
	if extra := len(m.Headings) - outlineLimit; extra > 0 {
		b.WriteString(taxonomy.Format(msg.MoreHeadings, "count", strconv.Itoa(extra)))
		b.WriteString("\n")
	}
	return b.String()
}

func item(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func orNone(s, none string) string {
	if s == "" {
		return none
	}
	return s
}

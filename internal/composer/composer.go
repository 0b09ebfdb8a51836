// Package composer renders generated sections as Markdown and splices them into
// a document. It never mutates its input; Compose returns new text.
package composer

import (
	"strings"

	"github.com/dgallion1/mdenrich/internal/analyzer"
	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

// Composer renders sections using one taxonomy's headings and templates.
type Composer struct {
	tax *taxonomy.Taxonomy
}

// New returns a Composer bound to tax.
func New(tax *taxonomy.Taxonomy) *Composer {
	return &Composer{tax: tax}
}

// Compose inserts the sections d reports missing and returns the new text and
// the sections actually inserted, in insertion order.
//
// Objectives and prerequisites are spliced at the first heading: right after it
// when it is the level-1 title, otherwise directly before it. Without any
// heading they are skipped. The FAQ is appended to the end of the document.
func (c *Composer) Compose(text string, m *doctree.Model, d analyzer.Detection, prereqs analyzer.PrerequisiteSet, objectives []string) (string, []doctree.Section) {
	var inserted []doctree.Section

	if anchor, ok := m.FirstHeading(); ok {
		at := anchor.Offset
		if anchor.Level == 1 {
			at = endOfLine(text, anchor.Offset)
		}
		if d.IsMissing(doctree.SectionObjectives) {
			text, at = splice(text, at, c.RenderObjectives(objectives))
			inserted = append(inserted, doctree.SectionObjectives)
		}
		if d.IsMissing(doctree.SectionPrerequisites) {
			text, _ = splice(text, at, c.RenderPrerequisites(prereqs))
			inserted = append(inserted, doctree.SectionPrerequisites)
		}
	}

	if d.IsMissing(doctree.SectionFAQ) {
		text = ensureBlankLine(text) + c.RenderFAQ()
		inserted = append(inserted, doctree.SectionFAQ)
	}
	return text, inserted
}

// RenderObjectives renders the learning objectives section.
func (c *Composer) RenderObjectives(objectives []string) string {
	var b strings.Builder
	c.heading(&b, doctree.SectionObjectives)
	if intro := c.tax.Templates.ObjectivesIntro; intro != "" {
		b.WriteString(intro)
		b.WriteString("\n\n")
	}
	for _, o := range objectives {
		b.WriteString("- ")
		b.WriteString(o)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderPrerequisites renders the prerequisites section. Labels are sorted; an
// empty set falls back to the taxonomy's generic background list.
func (c *Composer) RenderPrerequisites(prereqs analyzer.PrerequisiteSet) string {
	tpl := c.tax.Templates
	var b strings.Builder
	c.heading(&b, doctree.SectionPrerequisites)

	if len(prereqs) > 0 {
		writeParagraph(&b, tpl.PrerequisitesIntro)
		for _, label := range prereqs.Sorted() {
			b.WriteString("- **")
			b.WriteString(label)
			b.WriteString("**\n")
			for _, detail := range c.tax.Details(label) {
				b.WriteString("  - ")
				b.WriteString(detail)
				b.WriteString("\n")
			}
		}
	} else {
		writeParagraph(&b, tpl.PrerequisitesFallbackIntro)
		for _, item := range tpl.PrerequisitesFallback {
			b.WriteString("- ")
			b.WriteString(item)
			b.WriteString("\n")
		}
	}

	if tpl.PrerequisitesOutro != "" {
		b.WriteString("\n")
		b.WriteString(tpl.PrerequisitesOutro)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderFAQ renders the static FAQ section, terminated by a newline.
func (c *Composer) RenderFAQ() string {
	var b strings.Builder
	c.heading(&b, doctree.SectionFAQ)
	b.WriteString(strings.TrimSpace(c.tax.Templates.FAQ))
	b.WriteString("\n")
	return b.String()
}

func (c *Composer) heading(b *strings.Builder, s doctree.Section) {
	b.WriteString("## ")
	b.WriteString(c.tax.Section(s).Heading)
	b.WriteString("\n\n")
}

func writeParagraph(b *strings.Builder, p string) {
	if p == "" {
		return
	}
	b.WriteString(p)
	b.WriteString("\n\n")
}

// splice inserts block at byte offset at, padding it so one blank line
// separates it from the text on either side. It returns the new text and the
// offset just past the inserted fragment.
func splice(text string, at int, block string) (string, int) {
	if at < 0 {
		at = 0
	}
	if at > len(text) {
		at = len(text)
	}
	before, after := text[:at], text[at:]

	var frag strings.Builder
	switch {
	case before == "", strings.HasSuffix(before, "\n\n"):
	case strings.HasSuffix(before, "\n"):
		frag.WriteString("\n")
	default:
		frag.WriteString("\n\n")
	}
	frag.WriteString(block)
	switch {
	case after == "", strings.HasPrefix(after, "\n"):
		frag.WriteString("\n")
	default:
		frag.WriteString("\n\n")
	}

	f := frag.String()
	return before + f + after, at + len(f)
}

// endOfLine returns the offset just past the newline ending the line that
// starts at offset, or len(text) for the last line.
func endOfLine(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		return offset + i + 1
	}
	return len(text)
}

func ensureBlankLine(text string) string {
	switch {
	case text == "", strings.HasSuffix(text, "\n\n"):
		return text
	case strings.HasSuffix(text, "\n"):
		return text + "\n"
	default:
		return text + "\n\n"
	}
}

package doctree

// Section identifies one of the pedagogical sections the enhancer manages.
type Section string

const (
	SectionObjectives    Section = "objectives"
	SectionPrerequisites Section = "prerequisites"
	SectionFAQ           Section = "faq"
)

// Sections lists every managed section in insertion order.
var Sections = []Section{SectionObjectives, SectionPrerequisites, SectionFAQ}

// Model is the flat structural view of a Markdown document.
type Model struct {
	Title      string      `json:"title"`       // First level-1 heading (or front matter title)
	Headings   []Heading   `json:"headings"`    // Document order, strictly increasing Line
	CodeBlocks []CodeBlock `json:"code_blocks"` // Fenced blocks in order of their opening fence
	Steps      []StepLine  `json:"steps"`
	Presence   Presence    `json:"presence"`
}

// Heading is an ATX heading line.
type Heading struct {
	Level  int    `json:"level"`  // 1-6
	Text   string `json:"text"`   // Trimmed heading text without the # markers
	Line   int    `json:"line"`   // 0-based line index
	Offset int    `json:"offset"` // Byte offset of the line start in the raw text
}

// CodeBlock is a fenced code block. Content spans the opening fence through the
// closing fence inclusive.
type CodeBlock struct {
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
	Language   string   `json:"language"`
	Content    []string `json:"content"`
	Terminated bool     `json:"terminated"` // false when the document ended inside the block
}

// StepLine is a line that looks like a numbered or localized step.
type StepLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Presence records which managed sections already have a heading.
type Presence struct {
	LearningObjectives bool `json:"has_learning_objectives"`
	Prerequisites      bool `json:"has_prerequisites"`
	FAQ                bool `json:"has_faq"`
}

// Has reports whether the section is present.
func (p Presence) Has(s Section) bool {
	switch s {
	case SectionObjectives:
		return p.LearningObjectives
	case SectionPrerequisites:
		return p.Prerequisites
	case SectionFAQ:
		return p.FAQ
	}
	return false
}

// Set marks the section as present.
func (p *Presence) Set(s Section) {
	switch s {
	case SectionObjectives:
		p.LearningObjectives = true
	case SectionPrerequisites:
		p.Prerequisites = true
	case SectionFAQ:
		p.FAQ = true
	}
}

// FirstHeading returns the first heading, if any.
func (m *Model) FirstHeading() (Heading, bool) {
	if m == nil || len(m.Headings) == 0 {
		return Heading{}, false
	}
	return m.Headings[0], true
}

// Package parser scans raw Markdown into a flat structural model. It only models
// ATX headings, fenced code blocks and step-like lines; everything else is prose.
package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

const fence = "```"

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Parse builds the structural model of text. It never fails: malformed or
// empty input simply yields empty fields.
//
// Lines inside fenced code blocks and inside a leading front matter block are
// ignored for headings, title and steps. A fence left open at end of input is
// kept as a block running to the last line with Terminated set to false.
func Parse(text string, tax *taxonomy.Taxonomy) *doctree.Model {
	m := &doctree.Model{}
	lines := strings.Split(text, "\n")

	fmEnd, fmTitle := frontMatter(lines)

	var open *doctree.CodeBlock
	offset := 0
	for i, raw := range lines {
		lineStart := offset
		offset += len(raw) + 1
		if i < fmEnd {
			continue
		}
		line := strings.TrimSuffix(raw, "\r")

		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			if open == nil {
				open = &doctree.CodeBlock{StartLine: i, Language: fenceLanguage(line)}
			} else {
				open.EndLine = i
				open.Terminated = true
				open.Content = blockLines(lines[open.StartLine : i+1])
				m.CodeBlocks = append(m.CodeBlocks, *open)
				open = nil
			}
			continue
		}
		if open != nil {
			continue
		}

		if h, ok := matchHeading(line); ok {
			h.Line = i
			h.Offset = lineStart
			m.Headings = append(m.Headings, h)
			if m.Title == "" && h.Level == 1 {
				m.Title = h.Text
			}
		}
		if tax.IsStep(line) {
			m.Steps = append(m.Steps, doctree.StepLine{Line: i, Text: strings.TrimSpace(line)})
		}
	}

	if open != nil {
		open.EndLine = len(lines) - 1
		open.Content = blockLines(lines[open.StartLine:])
		m.CodeBlocks = append(m.CodeBlocks, *open)
	}

	if m.Title == "" {
		m.Title = fmTitle
	}
	m.Presence = DetectPresence(m.Headings, tax)
	return m
}

// DetectPresence matches each heading against the taxonomy section markers.
func DetectPresence(headings []doctree.Heading, tax *taxonomy.Taxonomy) doctree.Presence {
	var p doctree.Presence
	for _, h := range headings {
		text := strings.ToLower(h.Text)
		for _, s := range doctree.Sections {
			if p.Has(s) {
				continue
			}
			for _, marker := range tax.Section(s).Markers {
				if strings.Contains(text, marker) {
					p.Set(s)
					break
				}
			}
		}
	}
	return p
}

func matchHeading(line string) (doctree.Heading, bool) {
	match := headingPattern.FindStringSubmatch(line)
	if match == nil {
		return doctree.Heading{}, false
	}
	text := strings.TrimSpace(match[2])
	if text == "" {
		return doctree.Heading{}, false
	}
	return doctree.Heading{Level: len(match[1]), Text: text}, true
}

// fenceLanguage returns the first word of the info string after the backticks.
func fenceLanguage(line string) string {
	info := strings.TrimLeft(strings.TrimSpace(line), "`")
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func blockLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}

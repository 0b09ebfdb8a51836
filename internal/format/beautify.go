// Package format normalizes Markdown layout after image localization.
package format

import (
	"regexp"
	"strings"
)

var (
	headingLine = regexp.MustCompile(`^#{1,6}\s+`)
	bulletLine  = regexp.MustCompile(`^(\s*)[*+]\s+`)
)

// Beautify applies layout fixes outside fenced code blocks:
//   - a blank line before and after every ATX heading
//   - "*" and "+" bullets rewritten to "-"
//   - a blank line before an opening fence and after a closing fence
//   - trailing whitespace removed
//   - runs of blank lines collapsed to one
//
// Lines inside code blocks are copied verbatim.
func Beautify(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+8)

	blank := func() {
		if len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
	}

	inCode := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if !inCode {
				blank()
				out = append(out, strings.TrimRight(line, " \t\r"))
				inCode = true
				continue
			}
			out = append(out, strings.TrimRight(line, " \t\r"))
			inCode = false
			if i < len(lines)-1 && strings.TrimSpace(lines[i+1]) != "" {
				out = append(out, "")
			}
			continue
		}
		if inCode {
			out = append(out, line)
			continue
		}

		line = strings.TrimRight(line, " \t\r")
		switch {
		case headingLine.MatchString(line):
			blank()
			out = append(out, line)
			if i < len(lines)-1 && strings.TrimSpace(lines[i+1]) != "" {
				out = append(out, "")
			}
		case line == "":
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
		default:
			out = append(out, bulletLine.ReplaceAllString(line, "${1}- "))
		}
	}
	return strings.Join(out, "\n")
}

package images

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

var (
	markdownImagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	imgSrcPattern        = regexp.MustCompile(`(?i)<img\b[^>]*?\ssrc\s*=\s*["']([^"']+)["']`)
)

// reference is one image URL in the source; [start, end) covers the URL text
// only, so rewriting keeps alt text, titles and attributes intact.
type reference struct {
	start, end int
	url        string
}

type span struct{ start, end int }

func (s span) contains(pos int) bool { return pos >= s.start && pos < s.end }

// scan finds image references in Markdown source. goldmark locates code and
// raw HTML regions: matches inside code are ignored, and raw HTML is searched
// for <img src> attributes that x/net/html confirms.
func scan(src string) []reference {
	data := []byte(src)
	code, raw := regions(data)

	var refs []reference
	for _, m := range markdownImagePattern.FindAllStringSubmatchIndex(src, -1) {
		if inAny(code, m[0]) || inAny(raw, m[0]) {
			continue
		}
		if ref, ok := destination(src, m[4], m[5]); ok {
			refs = append(refs, ref)
		}
	}

	for _, r := range raw {
		fragment := src[r.start:r.end]
		sources := htmlImageSources(fragment)
		for _, m := range imgSrcPattern.FindAllStringSubmatchIndex(fragment, -1) {
			value := fragment[m[2]:m[3]]
			if !sources[value] {
				continue
			}
			refs = append(refs, reference{start: r.start + m[2], end: r.start + m[3], url: value})
		}
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].start < refs[j].start })
	return refs
}

// destination extracts the link destination from the parenthesized part of a
// Markdown image: the first whitespace-separated field, without <> brackets.
func destination(src string, start, end int) (reference, bool) {
	inner := src[start:end]
	trimmed := strings.TrimLeft(inner, " \t\r\n")
	start += len(inner) - len(trimmed)

	field := trimmed
	if i := strings.IndexAny(trimmed, " \t\r\n"); i >= 0 {
		field = trimmed[:i]
	}
	if strings.HasPrefix(field, "<") && strings.HasSuffix(field, ">") && len(field) > 2 {
		field = field[1 : len(field)-1]
		start++
	}
	if field == "" {
		return reference{}, false
	}
	return reference{start: start, end: start + len(field), url: field}, true
}

// regions walks the goldmark AST and returns the byte ranges of code and of
// raw HTML.
func regions(src []byte) (code, raw []span) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if s, ok := linesSpan(n.Lines()); ok {
				code = append(code, s)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					code = append(code, span{t.Segment.Start, t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			if s, ok := linesSpan(node.Lines()); ok {
				raw = append(raw, s)
			}
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				raw = append(raw, span{seg.Start, seg.Stop})
			}
		}
		return ast.WalkContinue, nil
	})
	return code, raw
}

func linesSpan(lines *text.Segments) (span, bool) {
	if lines == nil || lines.Len() == 0 {
		return span{}, false
	}
	return span{lines.At(0).Start, lines.At(lines.Len() - 1).Stop}, true
}

func inAny(spans []span, pos int) bool {
	for _, s := range spans {
		if s.contains(pos) {
			return true
		}
	}
	return false
}

// htmlImageSources parses an HTML fragment and returns the src of every <img>.
func htmlImageSources(fragment string) map[string]bool {
	sources := map[string]bool{}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return sources
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" && a.Val != "" {
					sources[a.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sources
}

// rewrite replaces each reference span with its replacement. refs must be
// sorted and non-overlapping; references without a replacement are kept.
func rewrite(src string, refs []reference, replacement func(reference) (string, bool)) string {
	var b bytes.Buffer
	b.Grow(len(src))
	last := 0
	for _, r := range refs {
		if r.start < last {
			continue
		}
		repl, ok := replacement(r)
		if !ok {
			continue
		}
		b.WriteString(src[last:r.start])
		b.WriteString(repl)
		last = r.end
	}
	b.WriteString(src[last:])
	return b.String()
}

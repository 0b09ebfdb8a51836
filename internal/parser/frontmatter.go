package parser

import (
	"strings"

	"github.com/adrg/frontmatter"
)

type frontMatterMeta struct {
	Title string `yaml:"title"`
}

// frontMatter returns the index of the first line after a leading YAML front
// matter block (0 when there is none) and its title field, if any.
func frontMatter(lines []string) (int, string) {
	if len(lines) == 0 || strings.TrimSpace(strings.TrimSuffix(lines[0], "\r")) != "---" {
		return 0, ""
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		l := strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))
		if l == "---" || l == "..." {
			end = i
			break
		}
	}
	if end < 0 {
		return 0, ""
	}

	block := strings.Join(lines[:end], "\n") + "\n---\n"
	var meta frontMatterMeta
	if _, err := frontmatter.Parse(strings.NewReader(block), &meta); err != nil {
		// Not YAML (e.g. a thematic break followed by prose): scan it normally.
		return 0, ""
	}
	return end + 1, strings.TrimSpace(meta.Title)
}

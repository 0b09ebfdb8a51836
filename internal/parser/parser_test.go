package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

var zh = taxonomy.MustDefault("zh")

func TestParse_SingleHeading(t *testing.T) {
	m := Parse("### Title\n", zh)
	require.Len(t, m.Headings, 1)
	assert.Equal(t, doctree.Heading{Level: 3, Text: "Title", Line: 0, Offset: 0}, m.Headings[0])
	assert.Empty(t, m.Title, "only level-1 headings become the title")
}

func TestParse_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

###### Deep
####### Not a heading
#NoSpace
`
	m := Parse(input, zh)
	assert.Equal(t, "Title", m.Title)
	require.Len(t, m.Headings, 3)

	want := []struct {
		level int
		text  string
		line  int
	}{
		{1, "Title", 0},
		{2, "Section A", 4},
		{6, "Deep", 6},
	}
	for i, w := range want {
		assert.Equal(t, w.level, m.Headings[i].Level)
		assert.Equal(t, w.text, m.Headings[i].Text)
		assert.Equal(t, w.line, m.Headings[i].Line)
	}
	assert.Equal(t, strings.Index(input, "## Section A"), m.Headings[1].Offset)
}

func TestParse_HeadingsIncreasingLine(t *testing.T) {
	m := Parse("# a\n## b\ntext\n### c\n# d\n", zh)
	for i := 1; i < len(m.Headings); i++ {
		assert.Greater(t, m.Headings[i].Line, m.Headings[i-1].Line)
	}
	assert.Equal(t, "a", m.Title, "first level-1 heading wins")
}

func TestParse_CodeBlocks(t *testing.T) {
	input := "# Doc\n\n```\ncode\n```\n\n```python\nprint(1)\n```\n"
	m := Parse(input, zh)
	require.Len(t, m.CodeBlocks, 2)

	first := m.CodeBlocks[0]
	assert.Equal(t, 2, first.StartLine)
	assert.Equal(t, 4, first.EndLine)
	assert.Equal(t, "", first.Language)
	assert.Equal(t, []string{"```", "code", "```"}, first.Content)
	assert.True(t, first.Terminated)

	second := m.CodeBlocks[1]
	assert.Equal(t, "python", second.Language)
	assert.Equal(t, []string{"```python", "print(1)", "```"}, second.Content)
}

func TestParse_FenceLanguageFirstWord(t *testing.T) {
	m := Parse("  ```go title=\"main.go\"\nx\n  ```\n", zh)
	require.Len(t, m.CodeBlocks, 1)
	assert.Equal(t, "go", m.CodeBlocks[0].Language)
}

func TestParse_CodeBlockContentIgnored(t *testing.T) {
	input := "# Install\n\n```bash\n# update packages\n1. not a step\n```\n"
	m := Parse(input, zh)
	require.Len(t, m.Headings, 1, "comment inside fence is not a heading")
	assert.Empty(t, m.Steps)
}

func TestParse_UnterminatedFence(t *testing.T) {
	input := "# Doc\n\n```js\nconst a = 1\n## inside\n"
	m := Parse(input, zh)
	require.Len(t, m.CodeBlocks, 1)

	cb := m.CodeBlocks[0]
	assert.False(t, cb.Terminated)
	assert.Equal(t, 2, cb.StartLine)
	assert.Equal(t, 5, cb.EndLine)
	assert.Equal(t, "js", cb.Language)
	assert.Equal(t, []string{"```js", "const a = 1", "## inside", ""}, cb.Content)
	assert.Len(t, m.Headings, 1)
}

func TestParse_Steps(t *testing.T) {
	input := strings.Join([]string{
		"1. Do X",
		"  2) Then Y",
		"Step 3 finish",
		"第 4 步 验证",
		"步骤5 清理",
		"10.5 percent",
		"just text",
	}, "\n")
	m := Parse(input, zh)
	require.Len(t, m.Steps, 5)
	assert.Equal(t, doctree.StepLine{Line: 0, Text: "1. Do X"}, m.Steps[0])
	assert.Equal(t, doctree.StepLine{Line: 1, Text: "2) Then Y"}, m.Steps[1])
	assert.Equal(t, 4, m.Steps[4].Line)
}

func TestParse_Presence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  doctree.Presence
	}{
		{"chinese objectives", "# T\n## 学习目标\n", doctree.Presence{LearningObjectives: true}},
		{"english objectives", "# T\n## Learning Objectives\n", doctree.Presence{LearningObjectives: true}},
		{"prerequisites", "## Prerequisites\n", doctree.Presence{Prerequisites: true}},
		{"chinese prerequisites", "## 前置知识\n", doctree.Presence{Prerequisites: true}},
		{"faq lower", "## faq\n", doctree.Presence{FAQ: true}},
		{"faq chinese", "### 常见问题解答\n", doctree.Presence{FAQ: true}},
		{"all", "## 学习目标\n## 前置知识\n## FAQ\n", doctree.Presence{LearningObjectives: true, Prerequisites: true, FAQ: true}},
		{"none", "# Title\nbody\n", doctree.Presence{}},
		{"marker in body only", "# Title\nSee the FAQ below.\n", doctree.Presence{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input, zh).Presence)
		})
	}
}

func TestParse_CRLF(t *testing.T) {
	input := "# Title\r\n\r\n```python\r\nx\r\n```\r\n1. step\r\n"
	m := Parse(input, zh)
	assert.Equal(t, "Title", m.Title)
	require.Len(t, m.CodeBlocks, 1)
	assert.Equal(t, "python", m.CodeBlocks[0].Language)
	require.Len(t, m.Steps, 1)
	assert.Equal(t, "1. step", m.Steps[0].Text)
}

func TestParse_FrontMatter(t *testing.T) {
	input := "---\ntitle: From Meta\n# not: a heading\n---\n## Section\n"
	m := Parse(input, zh)
	assert.Equal(t, "From Meta", m.Title)
	require.Len(t, m.Headings, 1)
	assert.Equal(t, "Section", m.Headings[0].Text)
	assert.Equal(t, 4, m.Headings[0].Line)
	assert.Equal(t, strings.Index(input, "## Section"), m.Headings[0].Offset)
}

func TestParse_FrontMatterTitleLosesToHeading(t *testing.T) {
	m := Parse("---\ntitle: Meta\n---\n# Heading Title\n", zh)
	assert.Equal(t, "Heading Title", m.Title)
}

func TestParse_DegenerateInput(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"```",
		"---",
		"#",
		"# ",
		"\x00\x01\xff\xfe binary",
		strings.Repeat("#", 10000),
		strings.Repeat("1.", 5000),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Parse(in, zh) })
	}

	m := Parse("", zh)
	assert.Empty(t, m.Title)
	assert.Empty(t, m.Headings)
	assert.Empty(t, m.CodeBlocks)
	assert.Empty(t, m.Steps)
}

package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/parser"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

var (
	en = taxonomy.MustDefault("en")
	zh = taxonomy.MustDefault("zh")
)

func TestDetect_MissingSections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []doctree.Section
	}{
		{
			name:  "nothing present, no steps",
			input: "# Title\nBody\n",
			want:  []doctree.Section{doctree.SectionObjectives, doctree.SectionPrerequisites},
		},
		{
			name:  "steps without faq",
			input: "# Title\n1. Do X\n",
			want:  []doctree.Section{doctree.SectionObjectives, doctree.SectionPrerequisites, doctree.SectionFAQ},
		},
		{
			name:  "objectives present",
			input: "# Title\n## 学习目标\n- a\n",
			want:  []doctree.Section{doctree.SectionPrerequisites},
		},
		{
			name:  "all present",
			input: "# T\n## Learning Objectives\n## Prerequisites\n## FAQ\n1. step\n",
			want:  []doctree.Section{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(parser.Parse(tt.input, en))
			assert.Equal(t, tt.want, d.Missing)
		})
	}
}

func TestDetect_CodeBlockLanguage(t *testing.T) {
	d := Detect(parser.Parse("```\ncode\n```\n", en))
	assert.Equal(t, []int{0}, d.CodeBlocksMissingLanguage)

	d = Detect(parser.Parse("```python\ncode\n```\n", en))
	assert.Empty(t, d.CodeBlocksMissingLanguage)

	d = Detect(parser.Parse("```go\na\n```\n```\nb\n```\n```  \nc\n```\n", en))
	assert.Equal(t, []int{1, 2}, d.CodeBlocksMissingLanguage)
}

func TestDetect_NilModel(t *testing.T) {
	d := Detect(nil)
	assert.Empty(t, d.Missing)
	assert.Empty(t, d.CodeBlocksMissingLanguage)
}

func TestDetect_FAQSuggestionFromSteps(t *testing.T) {
	d := Detect(parser.Parse("Intro\n\n1. Do X\n2. Do Y\n", zh))
	assert.True(t, d.IsMissing(doctree.SectionFAQ))

	suggestions := Suggestions(d, zh)
	var sections []doctree.Section
	for _, s := range suggestions {
		sections = append(sections, s.Section)
	}
	assert.Contains(t, sections, doctree.SectionFAQ)
}

func TestClassifyPrerequisites(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  []string
		tax   *taxonomy.Taxonomy
	}{
		{"docker keyword", "Run the Docker image.", []string{"Docker basics"}, en},
		{"case insensitive", "INSTALL DOCKER FIRST", []string{"Docker basics"}, en},
		{"no keywords", "Just some prose.", []string{}, en},
		{"fundamentals only", "A beginner tutorial.", []string{"Programming fundamentals"}, en},
		{
			"several categories",
			"Use git clone, then run python inside docker.",
			[]string{"Docker basics", "Git version control", "Python basics"},
			en,
		},
		{"chinese labels", "使用 Docker 部署", []string{"Docker 基础"}, zh},
		{"chinese fundamentals", "这是一篇入门教程", []string{"编程基础知识"}, zh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPrerequisites(tt.text, tt.tax)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestClassifyPrerequisites_OneLabelPerCategory(t *testing.T) {
	got := ClassifyPrerequisites("docker, Dockerfile and docker compose", en)
	assert.Len(t, got, 1)
	assert.True(t, got.Has("Docker basics"))
}

func TestClassifyPrerequisites_CustomTaxonomy(t *testing.T) {
	tax, err := taxonomy.Parse([]byte(`
sections:
  objectives: {heading: Ziele, markers: [ziele]}
  prerequisites: {heading: Voraussetzungen, markers: [voraussetzungen]}
  faq: {heading: FAQ, markers: [faq]}
categories:
  - name: container
    label: Container
    keywords: [podman, docker]
fundamentals:
  label: Grundlagen
  signals: [anleitung]
`))
	require.NoError(t, err)

	got := ClassifyPrerequisites("Eine Anleitung zu Podman", tax)
	assert.Equal(t, []string{"Container", "Grundlagen"}, got.Sorted())
}

func TestClassifyDocType_Priority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"tutorial wins over everything", "1. Install\nAn overview of the API and errors", "tutorial", true},
		{"concept before reference", "An overview of the API", "concept", true},
		{"reference before troubleshooting", "API parameter errors", "reference", true},
		{"troubleshooting", "Fixing the connection error", "troubleshooting", true},
		{"nothing", "Hello world.", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, ok := ClassifyDocType(tt.text, en)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, dt.Name)
		})
	}
}

func TestSynthesizeObjectives_Full(t *testing.T) {
	text := "# Deploying Microservices with Docker\n## Installing Docker\n## Configuring Docker Compose\n## Deploying the Stack\n1. Install docker\n"
	m := parser.Parse(text, en)

	got := SynthesizeObjectives(text, m.Title, m.Headings, en)
	want := []string{
		"Understand the core concepts and inner workings of deploying",
		"Know how and when to use docker",
		"Know how and when to use microservices",
		en.Objectives.Terminology,
		"Complete the hands-on steps on your own",
		"Troubleshoot and resolve common problems",
	}
	assert.Equal(t, want, got)
}

func TestSynthesizeObjectives_Minimal(t *testing.T) {
	got := SynthesizeObjectives("Hello world.", "", nil, en)
	assert.Equal(t, []string{en.Objectives.Terminology, en.Objectives.Apply}, got)
}

func TestSynthesizeObjectives_ConceptDoc(t *testing.T) {
	text := "# What is Kubernetes\nAn overview of pods."
	m := parser.Parse(text, en)
	got := SynthesizeObjectives(text, m.Title, m.Headings, en)

	// "what" is a stopword, so the main topic is "kubernetes"; the only
	// heading token left after excluding it is "what".
	assert.Equal(t, []string{
		"Understand the core concepts and inner workings of kubernetes",
		"Know how and when to use what",
		en.Objectives.Terminology,
		"Explain the underlying concepts and principles clearly",
		en.Objectives.Apply,
	}, got)
}

func TestSynthesizeObjectives_Chinese(t *testing.T) {
	text := "# Docker 部署指南\n\n首先安装 Docker。"
	m := parser.Parse(text, zh)
	got := SynthesizeObjectives(text, m.Title, m.Headings, zh)
	require.NotEmpty(t, got)
	assert.Equal(t, "理解 docker 的核心概念和工作原理", got[0])
	assert.Contains(t, got, "能够按照步骤独立完成实际操作")
	assert.LessOrEqual(t, len(got), 6)
}

func TestSynthesizeObjectives_Capped(t *testing.T) {
	var headings []doctree.Heading
	for i := 0; i < 10; i++ {
		headings = append(headings, doctree.Heading{Level: 2, Text: fmt.Sprintf("Topic%d alpha%d", i, i)})
	}
	got := SynthesizeObjectives("1. step", "Something Important", headings, en)
	assert.Len(t, got, 6)
}

func TestMainTopic(t *testing.T) {
	assert.Equal(t, "docker", MainTopic("How to use Docker", en), "short tokens are skipped")
	assert.Equal(t, "", MainTopic("A Tutorial Guide", en), "stopwords only")
	assert.Equal(t, "", MainTopic("", en))
	assert.Equal(t, "kubernetes", MainTopic("如何 Kubernetes", zh))
}

func TestHeadingTopics_RankingAndWindow(t *testing.T) {
	headings := []doctree.Heading{
		{Text: "alpha beta"},
		{Text: "beta gamma"},
		{Text: "gamma beta"},
		{Text: "delta"},
		{Text: "alpha"},
		{Text: "omega omega omega"}, // outside the five-heading window
	}
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, HeadingTopics(headings, "", en))
	assert.Equal(t, []string{"alpha", "gamma", "delta"}, HeadingTopics(headings, "beta", en))
}

func TestKeyTerms(t *testing.T) {
	text := "Use `kubectl apply` with the HTTP API and call fetchData(x) then print(y)."
	assert.Equal(t, []string{"kubectl apply", "HTTP", "API", "fetchData"}, KeyTerms(text))
}

func TestKeyTerms_Capped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "`term%d` ", i)
	}
	assert.Len(t, KeyTerms(b.String()), maxKeyTerms)
}

func TestSuggestions_Order(t *testing.T) {
	m := parser.Parse("# T\n1. a\n```\nx\n```\n", en)
	got := Suggestions(Detect(m), en)
	require.Len(t, got, 4)
	assert.Equal(t, KindMissingSection, got[0].Kind)
	assert.Equal(t, doctree.SectionObjectives, got[0].Section)
	assert.Equal(t, doctree.SectionPrerequisites, got[1].Section)
	assert.Equal(t, doctree.SectionFAQ, got[2].Section)
	assert.Equal(t, KindCodeBlock, got[3].Kind)
	assert.Equal(t, 0, got[3].BlockIndex)
}

func TestAnalyzers_TotalOverHostileInput(t *testing.T) {
	inputs := []string{"", "\xff\xfe\x00", strings.Repeat("`", 10001), strings.Repeat("a(", 5000)}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			m := parser.Parse(in, en)
			Detect(m)
			ClassifyPrerequisites(in, en)
			SynthesizeObjectives(in, m.Title, m.Headings, en)
			KeyTerms(in)
		})
	}
}

// Package taxonomy loads the keyword tables, templates and report strings that
// drive document analysis. Nothing in the analyzer hard-codes a language: every
// marker, stopword and template lives in a taxonomy file.
package taxonomy

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/mdenrich/internal/doctree"
)

//go:embed data/*.yaml
var builtin embed.FS

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// ErrUnknownLocale is returned when no embedded taxonomy exists for a locale.
var ErrUnknownLocale = errors.New("unknown taxonomy locale")

// Taxonomy is the full configuration consumed by the parser and analyzers.
type Taxonomy struct {
	Locale        string                 `yaml:"locale"`
	MaxObjectives int                    `yaml:"max_objectives"`
	Sections      map[string]SectionSpec `yaml:"sections"`
	StepPatterns  []string               `yaml:"step_patterns"`
	Categories    []Category             `yaml:"categories"`
	Fundamentals  Fundamentals           `yaml:"fundamentals"`
	Objectives    ObjectiveRules         `yaml:"objectives"`
	DocTypes      []DocType              `yaml:"doc_types"`
	Templates     Templates              `yaml:"templates"`
	Messages      Messages               `yaml:"messages"`

	stepRes []*regexp.Regexp
}

// SectionSpec describes how a managed section is detected and rendered.
type SectionSpec struct {
	Heading     string   `yaml:"heading"` // Rendered "## " heading text
	Label       string   `yaml:"label"`   // Short name used in reports
	Markers     []string `yaml:"markers"` // Case-insensitive substrings matched against heading text
	Description string   `yaml:"description"`
}

// Category maps trigger keywords to one prerequisite label.
type Category struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
	Details  []string `yaml:"details,omitempty"`
}

// Fundamentals is the generic label added when beginner signals appear.
type Fundamentals struct {
	Label   string   `yaml:"label"`
	Signals []string `yaml:"signals"`
	Details []string `yaml:"details,omitempty"`
}

// ObjectiveRules configures learning objective synthesis. Templates use a
// {topic} placeholder.
type ObjectiveRules struct {
	Stopwords       []string `yaml:"stopwords"`
	MinTokenLength  int      `yaml:"min_token_length"`
	HeadingWindow   int      `yaml:"heading_window"`
	TopicLimit      int      `yaml:"topic_limit"`
	TopicObjectives int      `yaml:"topic_objectives"`
	MainTopic       string   `yaml:"main_topic"`
	HeadingTopic    string   `yaml:"heading_topic"`
	Terminology     string   `yaml:"terminology"`
	Apply           string   `yaml:"apply"`
}

// DocType is one document classification rule. Rules are evaluated in file order.
type DocType struct {
	Name       string   `yaml:"name"`
	Label      string   `yaml:"label"`
	Keywords   []string `yaml:"keywords"`
	Objectives []string `yaml:"objectives"`
}

// Templates holds the static text of rendered sections.
type Templates struct {
	ObjectivesIntro            string   `yaml:"objectives_intro"`
	PrerequisitesIntro         string   `yaml:"prerequisites_intro"`
	PrerequisitesFallbackIntro string   `yaml:"prerequisites_fallback_intro"`
	PrerequisitesFallback      []string `yaml:"prerequisites_fallback"`
	PrerequisitesOutro         string   `yaml:"prerequisites_outro"`
	FAQ                        string   `yaml:"faq"`
}

// Messages are report strings. {file} and {count} are placeholders.
type Messages struct {
	AnalysisHeader    string `yaml:"analysis_header"`
	ReportTitle       string `yaml:"report_title"`
	BasicInfo         string `yaml:"basic_info"`
	StructureCheck    string `yaml:"structure_check"`
	SuggestionsTitle  string `yaml:"suggestions_title"`
	OutlineTitle      string `yaml:"outline_title"`
	Title             string `yaml:"title"`
	NoTitle           string `yaml:"no_title"`
	Headings          string `yaml:"headings"`
	CodeBlocks        string `yaml:"code_blocks"`
	Steps             string `yaml:"steps"`
	SuggestionCount   string `yaml:"suggestion_count"`
	DocType           string `yaml:"doc_type"`
	Prerequisites     string `yaml:"prerequisites"`
	KeyTerms          string `yaml:"key_terms"`
	None              string `yaml:"none"`
	Present           string `yaml:"present"`
	Missing           string `yaml:"missing"`
	MoreHeadings      string `yaml:"more_headings"`
	CodeBlockLanguage string `yaml:"code_block_language"`
	Enhanced          string `yaml:"enhanced"`
	Unchanged         string `yaml:"unchanged"`
}

// Locales returns the embedded locale names.
func Locales() []string {
	entries, err := builtin.ReadDir("data")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Default returns the embedded taxonomy for a locale.
func Default(locale string) (*Taxonomy, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	data, err := builtin.ReadFile("data/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	return Parse(data)
}

// MustDefault is Default for callers that only use embedded locales.
func MustDefault(locale string) *Taxonomy {
	t, err := Default(locale)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a taxonomy file from disk.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Resolve picks the override file when set, else the embedded locale.
func Resolve(path, locale string) (*Taxonomy, error) {
	if path != "" {
		return Load(path)
	}
	return Default(locale)
}

// Parse decodes YAML, applies defaults and compiles step patterns.
func Parse(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal taxonomy: %w", err)
	}
	if err := t.init(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Taxonomy) init() error {
	if t.MaxObjectives <= 0 {
		t.MaxObjectives = 6
	}
	if t.Objectives.MinTokenLength <= 0 {
		t.Objectives.MinTokenLength = 4
	}
	if t.Objectives.HeadingWindow <= 0 {
		t.Objectives.HeadingWindow = 5
	}
	if t.Objectives.TopicLimit <= 0 {
		t.Objectives.TopicLimit = 3
	}
	if t.Objectives.TopicObjectives <= 0 {
		t.Objectives.TopicObjectives = 2
	}

	for _, s := range doctree.Sections {
		spec, ok := t.Sections[string(s)]
		if !ok || spec.Heading == "" || len(spec.Markers) == 0 {
			return fmt.Errorf("section %q needs a heading and at least one marker", s)
		}
		if spec.Label == "" {
			spec.Label = spec.Heading
		}
		for i, m := range spec.Markers {
			spec.Markers[i] = strings.ToLower(m)
		}
		t.Sections[string(s)] = spec
	}

	for _, c := range t.Categories {
		if c.Label == "" {
			return fmt.Errorf("category %q has no label", c.Name)
		}
	}

	t.stepRes = t.stepRes[:0]
	for _, p := range t.StepPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("step pattern %q: %w", p, err)
		}
		t.stepRes = append(t.stepRes, re)
	}
	return nil
}

// Section returns the heading, markers and description of a managed section.
func (t *Taxonomy) Section(s doctree.Section) SectionSpec {
	return t.Sections[string(s)]
}

// IsStep reports whether a line matches any step pattern.
func (t *Taxonomy) IsStep(line string) bool {
	for _, re := range t.stepRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Stopword reports whether a lowercased token is in the objective stoplist.
func (t *Taxonomy) Stopword(token string) bool {
	for _, w := range t.Objectives.Stopwords {
		if strings.EqualFold(w, token) {
			return true
		}
	}
	return false
}

// Details returns the detail lines registered for a prerequisite label.
func (t *Taxonomy) Details(label string) []string {
	if label == t.Fundamentals.Label {
		return t.Fundamentals.Details
	}
	for _, c := range t.Categories {
		if c.Label == label {
			return c.Details
		}
	}
	return nil
}

// Format replaces {key} placeholders with the given key/value pairs.
func Format(tmpl string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

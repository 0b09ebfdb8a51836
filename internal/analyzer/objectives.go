package analyzer

import (
	"sort"

	"github.com/dgallion1/mdenrich/internal/doctree"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

// SynthesizeObjectives builds the ranked learning objective list for a document.
// Entries are appended in a fixed order (main topic, heading topics,
// terminology, doc type, application) and the result is capped at
// tax.MaxObjectives.
func SynthesizeObjectives(text, title string, headings []doctree.Heading, tax *taxonomy.Taxonomy) []string {
	rules := tax.Objectives
	var objectives []string

	main := MainTopic(title, tax)
	if main != "" {
		objectives = append(objectives, taxonomy.Format(rules.MainTopic, "topic", main))
	}

	topics := HeadingTopics(headings, main, tax)
	for i, topic := range topics {
		if i >= rules.TopicObjectives {
			break
		}
		objectives = append(objectives, taxonomy.Format(rules.HeadingTopic, "topic", topic))
	}

	if rules.Terminology != "" {
		objectives = append(objectives, rules.Terminology)
	}

	if dt, ok := ClassifyDocType(text, tax); ok {
		objectives = append(objectives, dt.Objectives...)
	}

	if rules.Apply != "" {
		objectives = append(objectives, rules.Apply)
	}

	if len(objectives) > tax.MaxObjectives {
		objectives = objectives[:tax.MaxObjectives]
	}
	return objectives
}

// MainTopic returns the first title token that is long enough and not a
// stopword, or "".
func MainTopic(title string, tax *taxonomy.Taxonomy) string {
	for _, tok := range tokenize(title) {
		if runeLen(tok) < tax.Objectives.MinTokenLength || tax.Stopword(tok) {
			continue
		}
		return tok
	}
	return ""
}

// HeadingTopics ranks the tokens of the first few headings by frequency (ties
// keep first-seen order), drops exclude, and returns at most TopicLimit topics.
func HeadingTopics(headings []doctree.Heading, exclude string, tax *taxonomy.Taxonomy) []string {
	rules := tax.Objectives
	if len(headings) > rules.HeadingWindow {
		headings = headings[:rules.HeadingWindow]
	}

	counts := map[string]int{}
	var order []string
	for _, h := range headings {
		for _, tok := range tokenize(h.Text) {
			if runeLen(tok) < rules.MinTokenLength {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	topics := make([]string, 0, rules.TopicLimit)
	for _, tok := range order {
		if tok == exclude {
			continue
		}
		topics = append(topics, tok)
		if len(topics) == rules.TopicLimit {
			break
		}
	}
	return topics
}

package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenize splits s into lower-cased word runs (letters, marks, digits, _).
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_')
	})
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

package models

import (
	"strings"
	"unicode"
)

// Question is one entry of the guessing-game bank.
type Question struct {
	Category string `json:"category" yaml:"category"`
	Answer   string `json:"answer" yaml:"answer"`
	Hint     string `json:"hint" yaml:"hint"`
}

// Key returns the stable identity of the question across the bank: the
// normalized hint initials, answer and category joined with '|'. Identical
// semantic questions always yield the same key regardless of case or
// surrounding whitespace.
func (q Question) Key() string {
	return strings.Join([]string{
		normalizeKeyPart(hintInitials(q.Hint)),
		normalizeKeyPart(q.Answer),
		normalizeKeyPart(q.Category),
	}, "|")
}

// hintInitials collapses a hint like "a____ b____" to "ab".
func hintInitials(hint string) string {
	var b strings.Builder
	for _, word := range strings.Fields(hint) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

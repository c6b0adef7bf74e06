package agentcache

import (
	"regexp"
	"strings"
	"unicode"
)

var quotedWordRe = regexp.MustCompile(`["'“”‘’]([\p{L}\p{N}]+)["'“”‘’]`)

// ExtractGuess pulls the guess word out of a conversational reply. Agents
// tend to quote their final answer ("my guess is \"apple\""), so a quoted
// word wins; otherwise the first alphabetic token of the reply is taken.
// Returns "" when the reply contains no usable word.
func ExtractGuess(reply string) string {
	if m := quotedWordRe.FindStringSubmatch(reply); m != nil {
		return strings.ToLower(m[1])
	}

	for _, field := range strings.Fields(reply) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if word != "" {
			return strings.ToLower(word)
		}
	}
	return ""
}

package summaries

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxInputChars bounds the text sent upstream.
	MaxInputChars  = 12000
	truncationMark = "..."

	fallbackSentences      = 5
	fallbackMinSentenceLen = 20
)

// Truncate cuts text to MaxInputChars characters and appends a marker when it was cut.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxInputChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxInputChars]) + truncationMark
}

// ExtractiveSummary builds a deterministic summary from the first sentences of
// text longer than 20 characters, under a header with the total word count.
func ExtractiveSummary(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")

	picked := make([]string, 0, fallbackSentences)
	for _, sentence := range splitSentences(normalized) {
		sentence = strings.TrimSpace(sentence)
		if utf8.RuneCountInString(sentence) <= fallbackMinSentenceLen {
			continue
		}
		picked = append(picked, sentence)
		if len(picked) == fallbackSentences {
			break
		}
	}

	wordCount := len(strings.Fields(text))
	return fmt.Sprintf("[Auto-extracted summary - %d words total]\n\n%s", wordCount, strings.Join(picked, " "))
}

// splitSentences splits after '.', '!' or '?' when followed by whitespace.
func splitSentences(s string) []string {
	var out []string
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?':
			if unicode.IsSpace(runes[i+1]) {
				out = append(out, string(runes[start:i+1]))
				j := i + 1
				for j < len(runes) && unicode.IsSpace(runes[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

// Filler vocabulary stripped from raw transcripts. Repeated-letter variants
// (uhh, ummm, errr) are matched as one word.
var fillerRe = regexp.MustCompile(`(?i)\b(?:uh+|um+|er+|like)\b`)

var sentenceStartRe = regexp.MustCompile(`(^|[.!?]\s+)([a-z])`)

var spaceBeforePunctRe = regexp.MustCompile(`\s+([.,!?;:])`)

// Sentences split only on a period followed by whitespace, so periods
// inside tokens (decimals, abbreviations) and the terminal period of the
// last sentence are preserved.
var sentenceSplitRe = regexp.MustCompile(`\.\s+`)

// Clean normalizes a raw speech-to-text transcript for summarization:
// whitespace is collapsed, filler words removed, sentence starts
// capitalized, and repeated sentences dropped. Capitalization runs before
// dedupe so casing variants of the same sentence collapse into one.
func Clean(raw string) string {
	text := collapseWhitespace(raw)
	text = stripFillers(text)
	text = capitalizeSentences(text)
	return dedupeSentences(text)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripFillers(s string) string {
	s = fillerRe.ReplaceAllString(s, "")
	s = collapseWhitespace(s)
	return spaceBeforePunctRe.ReplaceAllString(s, "$1")
}

func capitalizeSentences(s string) string {
	return sentenceStartRe.ReplaceAllStringFunc(s, func(match string) string {
		runes := []rune(match)
		last := len(runes) - 1
		runes[last] = unicode.ToUpper(runes[last])
		return string(runes)
	})
}

func dedupeSentences(s string) string {
	parts := sentenceSplitRe.Split(s, -1)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		if _, dup := seen[sentence]; dup {
			continue
		}
		seen[sentence] = struct{}{}
		out = append(out, sentence)
	}

	return strings.Join(out, ". ")
}

package text

import "strings"

// SplitSentences breaks a body of text into practiceable sentences. A
// sentence ends at a run of terminal punctuation or at a line break; segments
// are trimmed and empty ones dropped. Trailing text without punctuation forms
// a final sentence.
func SplitSentences(content string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if !isTerminal(r) {
			continue
		}
		// Swallow punctuation runs ("?!", "...") into the same sentence.
		for i+1 < len(runes) && isTerminal(runes[i+1]) {
			i++
			b.WriteRune(runes[i])
		}
		flush()
	}
	flush()

	return sentences
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '؟', '…', '。', '！', '？':
		return true
	}
	return false
}

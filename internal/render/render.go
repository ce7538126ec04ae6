// Package render turns practice results into display values. Everything here
// is a pure projection; nothing mutates session state or talks to the
// network.
package render

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Score severity classes.
const (
	ClassScoreGood   = "score-good"
	ClassScoreMedium = "score-medium"
	ClassScorePoor   = "score-poor"
)

// Word comparison classes. Words in neither list render unclassed.
const (
	ClassWordMatched = "word-matched"
	ClassWordMissed  = "word-missed"
	ClassWordExtra   = "word-extra"
)

// Percent converts a 0..1 score to a rounded whole percentage.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}

// PercentLabel formats a score as a percentage string.
func PercentLabel(score float64) string {
	return fmt.Sprintf("%d%%", Percent(score))
}

// ScoreClass maps a 0..1 score to its severity class. Good from 0.80,
// medium from 0.60, poor below.
func ScoreClass(score float64) string {
	switch {
	case score >= 0.80:
		return ClassScoreGood
	case score >= 0.60:
		return ClassScoreMedium
	default:
		return ClassScorePoor
	}
}

// WordMark is one word with its comparison class. Class is empty for words
// that matched neither list.
type WordMark struct {
	Text  string
	Class string
}

// MarkExpected classifies the expected words. Membership checks are
// case-insensitive; the displayed text keeps its original form.
func MarkExpected(expected, matched, missed []string) []WordMark {
	matchedSet := lowerSet(matched)
	missedSet := lowerSet(missed)

	marks := make([]WordMark, 0, len(expected))
	for _, word := range expected {
		mark := WordMark{Text: word}
		switch key := strings.ToLower(word); {
		case matchedSet[key]:
			mark.Class = ClassWordMatched
		case missedSet[key]:
			mark.Class = ClassWordMissed
		}
		marks = append(marks, mark)
	}
	return marks
}

// MarkActual classifies the words the learner actually said.
func MarkActual(actual, matched, extra []string) []WordMark {
	matchedSet := lowerSet(matched)
	extraSet := lowerSet(extra)

	marks := make([]WordMark, 0, len(actual))
	for _, word := range actual {
		mark := WordMark{Text: word}
		switch key := strings.ToLower(word); {
		case matchedSet[key]:
			mark.Class = ClassWordMatched
		case extraSet[key]:
			mark.Class = ClassWordExtra
		}
		marks = append(marks, mark)
	}
	return marks
}

// SpansHTML renders word marks as space-separated span elements. Word text
// is HTML-escaped; unclassed words render as a bare span.
func SpansHTML(marks []WordMark) string {
	var b strings.Builder
	for i, mark := range marks {
		if i > 0 {
			b.WriteByte(' ')
		}
		if mark.Class != "" {
			b.WriteString(`<span class="`)
			b.WriteString(mark.Class)
			b.WriteString(`">`)
		} else {
			b.WriteString("<span>")
		}
		b.WriteString(html.EscapeString(mark.Text))
		b.WriteString("</span>")
	}
	return b.String()
}

func lowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// ProgressLine describes the position within the session, 1-based.
func ProgressLine(index, total int) string {
	return fmt.Sprintf("Sentence %d of %d", index+1, total)
}

// ScriptOptionLabel is the label for one script in a selection list.
func ScriptOptionLabel(title string, sentences int) string {
	if sentences == 1 {
		return fmt.Sprintf("%s (1 sentence)", title)
	}
	return fmt.Sprintf("%s (%d sentences)", title, sentences)
}

// CompletionMessage is shown when the last sentence has been practiced.
func CompletionMessage(practiced int) string {
	if practiced == 1 {
		return "Practice complete! You practiced 1 sentence."
	}
	return fmt.Sprintf("Practice complete! You practiced %d sentences.", practiced)
}

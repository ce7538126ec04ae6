package text

import "strings"

// WordDiff is a word-level comparison of an expected phrase against a spoken
// transcript. Word order and casing are preserved verbatim; membership is
// case-insensitive.
type WordDiff struct {
	ExpectedWords []string
	ActualWords   []string
	Matched       []string
	Missed        []string
	Extra         []string
	Score         float64
}

// DiffWords splits both phrases on whitespace and classifies every expected
// word as matched or missed and every spoken word outside the expected set as
// extra. Score is matched over expected, or 0 for an empty expected phrase.
func DiffWords(expected, actual string) WordDiff {
	expectedWords := strings.Fields(expected)
	actualWords := strings.Fields(actual)

	expectedSet := lowerSet(expectedWords)
	actualSet := lowerSet(actualWords)

	d := WordDiff{
		ExpectedWords: expectedWords,
		ActualWords:   actualWords,
		Matched:       make([]string, 0, len(expectedWords)),
		Missed:        make([]string, 0, len(expectedWords)),
		Extra:         make([]string, 0, len(actualWords)),
	}

	for _, w := range expectedWords {
		if actualSet[strings.ToLower(w)] {
			d.Matched = append(d.Matched, w)
		} else {
			d.Missed = append(d.Missed, w)
		}
	}
	for _, w := range actualWords {
		if !expectedSet[strings.ToLower(w)] {
			d.Extra = append(d.Extra, w)
		}
	}

	if len(expectedWords) > 0 {
		d.Score = float64(len(d.Matched)) / float64(len(expectedWords))
	}
	return d
}

func lowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

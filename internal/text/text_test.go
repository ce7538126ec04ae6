package text

import (
	"math"
	"reflect"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "i am happy", b: "i am happy", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "hello", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		// longest block "bcd" -> 2*3/8
		{name: "partial overlap", a: "abcd", b: "bcde", want: 0.75},
		// blocks "ab" and "cd" around the substitution -> 2*4/10
		{name: "inner substitution", a: "abxcd", b: "abycd", want: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioSymmetricBounds(t *testing.T) {
	pairs := [][2]string{
		{"the sky is blue", "the sky was blue"},
		{"good morning", "morning good"},
		{"", "a"},
	}
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		if r < 0 || r > 1 {
			t.Fatalf("Ratio(%q, %q) = %v out of [0,1]", p[0], p[1], r)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "terminal punctuation",
			content: "I am happy. The sky is blue! Is it?",
			want:    []string{"I am happy.", "The sky is blue!", "Is it?"},
		},
		{
			name:    "punctuation runs stay attached",
			content: "Really?! Yes... sure.",
			want:    []string{"Really?!", "Yes...", "sure."},
		},
		{
			name:    "line breaks split unpunctuated text",
			content: "first line\nsecond line",
			want:    []string{"first line", "second line"},
		},
		{
			name:    "arabic question mark",
			content: "كيف حالك؟ أنا بخير.",
			want:    []string{"كيف حالك؟", "أنا بخير."},
		},
		{
			name:    "trailing fragment kept",
			content: "Done. trailing words",
			want:    []string{"Done.", "trailing words"},
		},
		{
			name:    "blank input",
			content: "  \n  ",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitSentences(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestDiffWords(t *testing.T) {
	d := DiffWords("The sky is blue", "sky is blue ok")

	if !reflect.DeepEqual(d.ExpectedWords, []string{"The", "sky", "is", "blue"}) {
		t.Fatalf("expected words = %v", d.ExpectedWords)
	}
	if !reflect.DeepEqual(d.Matched, []string{"sky", "is", "blue"}) {
		t.Fatalf("matched = %v", d.Matched)
	}
	if !reflect.DeepEqual(d.Missed, []string{"The"}) {
		t.Fatalf("missed = %v", d.Missed)
	}
	if !reflect.DeepEqual(d.Extra, []string{"ok"}) {
		t.Fatalf("extra = %v", d.Extra)
	}
	if math.Abs(d.Score-0.75) > 1e-9 {
		t.Fatalf("score = %v, want 0.75", d.Score)
	}
}

func TestDiffWordsCaseInsensitiveMatching(t *testing.T) {
	d := DiffWords("Hello World", "hello WORLD")
	if len(d.Missed) != 0 || len(d.Extra) != 0 {
		t.Fatalf("missed=%v extra=%v, want none", d.Missed, d.Extra)
	}
	// Display casing stays verbatim.
	if !reflect.DeepEqual(d.Matched, []string{"Hello", "World"}) {
		t.Fatalf("matched = %v", d.Matched)
	}
	if d.Score != 1.0 {
		t.Fatalf("score = %v, want 1", d.Score)
	}
}

func TestDiffWordsEmptyExpected(t *testing.T) {
	d := DiffWords("", "anything at all")
	if d.Score != 0 {
		t.Fatalf("score = %v, want 0", d.Score)
	}
	if len(d.Extra) != 3 {
		t.Fatalf("extra = %v, want all spoken words", d.Extra)
	}
}

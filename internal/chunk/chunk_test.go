package chunk

import (
	"strings"
	"testing"
)

func texts(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

func TestSentences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "The weather is nice today.", []string{"The weather is nice today."}},
		{"mixed punctuation", "Is it? Yes! It is.", []string{"Is it?", "Yes!", "It is."}},
		{"no terminal", "just words here", []string{"just words here"}},
		{"abbreviation", "Dr. Smith arrived. He sat.", []string{"Dr. Smith arrived.", "He sat."}},
		{"quoted", `She said "go." Then left.`, []string{`She said "go."`, "Then left."}},
		{"paragraphs", "Heading\n\nBody text here", []string{"Heading", "Body text here"}},
		{"ellipsis", "Wait... what?", []string{"Wait...", "what?"}},
		{"decimal", "It costs 3.50 today.", []string{"It costs 3.50 today."}},
		{"blank", "   \n\t ", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := texts(Sentences(tc.in))
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("Sentences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSentenceOffsetsPointIntoSource(t *testing.T) {
	text := "  First one.   Second   one!\nThird."
	segs := Sentences(text)
	if len(segs) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(segs))
	}
	for i, s := range segs {
		if s.Index != i {
			t.Fatalf("index %d = %d", i, s.Index)
		}
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
			t.Fatalf("invalid bounds: %+v", s)
		}
		if collapseSpace(text[s.Start:s.End]) != s.Text {
			t.Fatalf("offsets do not match text: %q vs %q", text[s.Start:s.End], s.Text)
		}
	}
	if segs[1].Text != "Second one!" {
		t.Fatalf("whitespace not collapsed: %q", segs[1].Text)
	}
}

func TestWords(t *testing.T) {
	if got := Words(" a  b\nc "); got != 3 {
		t.Fatalf("Words = %d", got)
	}
}

package humanize

import (
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Rewriter {
	t.Helper()
	r, err := Default()
	if err != nil {
		t.Fatalf("load default rewriter: %v", err)
	}
	return r
}

func TestRewriteReplacesStockPhrasing(t *testing.T) {
	r := mustDefault(t)
	in := "Furthermore, it is important to note that we utilize a comprehensive plan in order to succeed."
	res := r.Rewrite(in)

	want := "Also, note that we use a thorough plan to succeed."
	if res.Text != want {
		t.Fatalf("Rewrite() = %q, want %q", res.Text, want)
	}
	if res.Substitutions != 5 {
		t.Fatalf("substitutions = %d", res.Substitutions)
	}
	if res.WordsChanged != 1+6+1+1+3 {
		t.Fatalf("words changed = %d", res.WordsChanged)
	}
	if res.OriginalLength != len(in) || res.HumanizedLength != len(want) {
		t.Fatalf("lengths = %d/%d", res.OriginalLength, res.HumanizedLength)
	}
}

func TestRewriteContractions(t *testing.T) {
	r := mustDefault(t)
	res := r.Rewrite("It is late and we are tired. They do not care.")
	if res.Text != "It's late and we're tired. They don't care." {
		t.Fatalf("unexpected rewrite %q", res.Text)
	}
}

func TestRewriteLeavesPlainTextAlone(t *testing.T) {
	r := mustDefault(t)
	in := "He walked to the station and bought coffee."
	res := r.Rewrite(in)
	if res.Text != in || res.WordsChanged != 0 || res.Substitutions != 0 {
		t.Fatalf("plain text changed: %+v", res)
	}
}

func TestRewriteMatchesWholeWordsOnly(t *testing.T) {
	r := mustDefault(t)
	res := r.Rewrite("The robustness of the realms held.")
	if res.Text != "The robustness of the realms held." {
		t.Fatalf("partial word replaced: %q", res.Text)
	}
}

func TestPhrasesLoad(t *testing.T) {
	phrases, err := LoadPhrases()
	if err != nil {
		t.Fatalf("load phrases: %v", err)
	}
	for _, p := range phrases {
		if strings.TrimSpace(p.From) == "" {
			t.Fatalf("empty phrase in lexicon: %+v", p)
		}
	}
}

func TestNewOrdersLongestFirst(t *testing.T) {
	r, err := New([]Phrase{{From: "it is", To: "it's"}, {From: "it is important to note that", To: "note that"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Rewrite("it is important to note that x").Text; got != "note that x" {
		t.Fatalf("longest phrase should win, got %q", got)
	}
}

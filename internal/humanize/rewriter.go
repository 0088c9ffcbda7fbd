package humanize

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

//go:embed phrases.json
var phrasesJSON []byte

type Phrase struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type rule struct {
	Phrase
	re    *regexp.Regexp
	words int
}

// Result is the rewritten text with counts of what changed. Lengths are in
// characters.
type Result struct {
	Text            string
	OriginalLength  int
	HumanizedLength int
	WordsChanged    int
	Substitutions   int
}

// Rewriter replaces stock phrasing with plainer wording. Longer phrases are
// applied first so "in order to" wins over any shorter overlap.
type Rewriter struct {
	rules []rule
}

func LoadPhrases() ([]Phrase, error) {
	var phrases []Phrase
	if err := json.Unmarshal(phrasesJSON, &phrases); err != nil {
		return nil, fmt.Errorf("decode phrases: %w", err)
	}
	return phrases, nil
}

func New(phrases []Phrase) (*Rewriter, error) {
	rules := make([]rule, 0, len(phrases))
	for _, p := range phrases {
		from := strings.TrimSpace(p.From)
		if from == "" {
			continue
		}
		pattern := `(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(from), " ", `\s+`) + `\b`
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile phrase %q: %w", from, err)
		}
		rules = append(rules, rule{Phrase: Phrase{From: from, To: p.To}, re: re, words: len(strings.Fields(from))})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].From) > len(rules[j].From)
	})
	return &Rewriter{rules: rules}, nil
}

func Default() (*Rewriter, error) {
	phrases, err := LoadPhrases()
	if err != nil {
		return nil, err
	}
	return New(phrases)
}

func (r *Rewriter) Rewrite(text string) Result {
	out := text
	res := Result{}
	for _, rl := range r.rules {
		out = rl.re.ReplaceAllStringFunc(out, func(match string) string {
			res.Substitutions++
			res.WordsChanged += rl.words
			return matchCase(match, rl.To)
		})
	}
	out = tidy(out)
	res.Text = out
	res.OriginalLength = utf8.RuneCountInString(text)
	res.HumanizedLength = utf8.RuneCountInString(out)
	return res
}

// matchCase carries a leading capital over to the replacement. "I" stays
// capitalized whatever the source case.
func matchCase(src, repl string) string {
	if repl == "" {
		return repl
	}
	first, _ := utf8.DecodeRuneInString(src)
	if !unicode.IsUpper(first) {
		return repl
	}
	r, size := utf8.DecodeRuneInString(repl)
	return string(unicode.ToUpper(r)) + repl[size:]
}

var (
	doubleSpace  = regexp.MustCompile(`[ \t]{2,}`)
	spaceBefore  = regexp.MustCompile(`\s+([,.;:!?])`)
	doubleCommas = regexp.MustCompile(`,\s*,`)
)

func tidy(s string) string {
	s = doubleCommas.ReplaceAllString(s, ",")
	s = spaceBefore.ReplaceAllString(s, "$1")
	s = doubleSpace.ReplaceAllString(s, " ")
	return s
}

package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segment is one sentence of the source text. Start and End are byte offsets
// into the original string.
type Segment struct {
	Index int
	Start int
	End   int
	Text  string
}

var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {},
	"st": {}, "vs": {}, "etc": {}, "e.g": {}, "i.e": {}, "approx": {}, "no": {},
}

// Sentences splits text on terminal punctuation followed by whitespace, and on
// blank lines. Order follows the source and empty pieces are dropped.
func Sentences(text string) []Segment {
	var (
		segments []Segment
		start    = 0
	)
	emit := func(end int) {
		raw := text[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := strings.Index(raw, trimmed)
			segments = append(segments, Segment{
				Index: len(segments),
				Start: start + lead,
				End:   start + lead + len(trimmed),
				Text:  collapseSpace(trimmed),
			})
		}
		start = end
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size

		switch {
		case r == '\n' && paragraphBreak(text, next):
			emit(next)
		case isTerminal(r):
			end := next
			for end < len(text) {
				nr, nsize := utf8.DecodeRuneInString(text[end:])
				if !isTerminal(nr) && !isCloser(nr) {
					break
				}
				end += nsize
			}
			if end == len(text) || startsWithSpace(text[end:]) {
				if r != '.' || !isAbbreviation(text[start:i]) {
					emit(end)
				}
			}
			next = end
		}
		i = next
	}
	if start < len(text) {
		emit(len(text))
	}
	return segments
}

// Words counts whitespace separated tokens.
func Words(text string) int {
	return len(strings.Fields(text))
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '’', '”':
		return true
	}
	return false
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func paragraphBreak(text string, from int) bool {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

func isAbbreviation(before string) bool {
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(strings.TrimLeft(fields[len(fields)-1], "(\"'"))
	if _, ok := abbreviations[last]; ok {
		return true
	}
	// Single initials such as "J." in "J. Smith".
	return last != "i" && utf8.RuneCountInString(last) == 1 && unicode.IsLetter([]rune(last)[0])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

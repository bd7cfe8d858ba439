package highlight

// Span locates one match in a line of rendered text, in runes
type Span struct {
	Begin  int
	Length int
}

// End returns the index just past the span
func (s Span) End() int {
	return s.Begin + s.Length
}

func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Match returns a span for every occurrence of every pattern in text.
// Spans are ordered by pattern, then by position, and overlapping
// matches are all reported. Empty patterns are skipped. With caseFold
// only ASCII letters are folded.
//
// The scan is a direct comparison at each position; text is one screen
// line and patterns are few.
func Match(text []rune, patterns [][]rune, caseFold bool) []Span {
	var spans []Span
	for _, p := range patterns {
		spans = appendMatches(spans, text, p, caseFold)
	}
	return spans
}

func appendMatches(spans []Span, text, pattern []rune, caseFold bool) []Span {
	if len(pattern) == 0 {
		return spans
	}

	last := len(text) - len(pattern)
	for i := 0; i <= last; i++ {
		matched := true
		for j, pr := range pattern {
			tr := text[i+j]
			if caseFold {
				tr, pr = foldASCII(tr), foldASCII(pr)
			}
			if tr != pr {
				matched = false
				break
			}
		}
		if matched {
			spans = append(spans, Span{Begin: i, Length: len(pattern)})
		}
	}
	return spans
}

// Spans matches text against a snapshot. A nil set matches nothing.
func Spans(text []rune, set *PatternSet) []Span {
	if set == nil {
		return nil
	}
	return Match(text, set.Patterns, set.CaseFold)
}

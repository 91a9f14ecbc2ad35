package phrase

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// NoCursor marks an unknown caret position.
const NoCursor = -1

const (
	wordClass    = `[\p{L}\p{N}]`
	nonWordClass = `[^\p{L}\p{N}]`
)

// matchTimeout bounds a single search; lazy spans over long documents can
// otherwise backtrack for a long time.
const matchTimeout = 2 * time.Second

// Range is a half-open [Start, End) character range.
type Range struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end"   json:"end"`
}

// Len returns the number of characters in the range.
func (r Range) Len() int { return r.End - r.Start }

// Matcher is a compiled TextQuery.
type Matcher struct {
	query TextQuery
	re    *regexp2.Regexp
}

// Compile validates q and builds its pattern.
func Compile(q TextQuery) (*Matcher, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var pattern string
	switch {
	case q.FullPhrase != "":
		pattern = phrasePattern(q.FullPhrase, false, false)
	case q.FromCursor():
		pattern = phrasePattern(q.EndPhrase, q.EndBefore, q.EndAfter)
	default:
		pattern = phrasePattern(q.StartPhrase, q.StartBefore, q.StartAfter) +
			`.*?` +
			phrasePattern(q.EndPhrase, q.EndBefore, q.EndAfter)
	}
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", q, err)
	}
	re.MatchTimeout = matchTimeout
	return &Matcher{query: q, re: re}, nil
}

// phrasePattern matches the words of phrase separated by any non-word
// characters, never inside a longer word. before and after turn the
// pattern into a lookahead or lookbehind.
func phrasePattern(phrase string, before, after bool) string {
	ws := words(phrase)
	for i, w := range ws {
		ws[i] = regexp2.Escape(w)
	}
	pattern := `(?<!` + wordClass + `)` + strings.Join(ws, nonWordClass+`+`) + `(?!` + wordClass + `)`
	switch {
	case before:
		pattern = `(?=` + pattern + `)`
	case after:
		pattern = `(?<=` + pattern + `)`
	}
	return pattern
}

// Candidates returns every match of the query in text, in order.
func (m *Matcher) Candidates(text string) ([]Range, error) {
	var ranges []Range
	match, err := m.re.FindStringMatch(text)
	for ; match != nil && err == nil; match, err = m.re.FindNextMatch(match) {
		ranges = append(ranges, Range{Start: match.Index, End: match.Index + match.Length})
	}
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", m.query, err)
	}
	return ranges, nil
}

// Find resolves the query against text. cursor is the caret offset in
// text, or NoCursor. The second result is false when nothing matches, when
// a caret-relative query has no caret, or when the range would be empty.
func (m *Matcher) Find(text string, cursor int) (Range, bool, error) {
	candidates, err := m.Candidates(text)
	if err != nil {
		return Range{}, false, err
	}
	if !m.query.FromCursor() {
		// Only ranges running from the caret may use an empty end match.
		candidates = nonEmpty(candidates)
	}
	if len(candidates) == 0 {
		return Range{}, false, nil
	}

	if cursor < 0 {
		if m.query.FromCursor() {
			return Range{}, false, nil
		}
		return candidates[0], true, nil
	}

	nearest := Nearest(candidates, cursor)
	if !m.query.FromCursor() {
		return nearest, true, nil
	}

	r := Range{Start: cursor, End: nearest.End}
	if nearest.Start < cursor {
		r = Range{Start: nearest.Start, End: cursor}
	}
	if r.Len() <= 0 {
		return Range{}, false, nil
	}
	return r, true, nil
}

// nonEmpty drops zero-length candidates, which a range anchored before or
// after the same phrase at both ends produces.
func nonEmpty(candidates []Range) []Range {
	out := candidates[:0:0]
	for _, c := range candidates {
		if c.Len() > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Nearest returns the candidate whose midpoint is closest to cursor. Ties
// go to the earliest candidate. candidates must not be empty.
func Nearest(candidates []Range, cursor int) Range {
	best := candidates[0]
	bestDist := midpointDistance(best, cursor)
	for _, c := range candidates[1:] {
		if d := midpointDistance(c, cursor); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// midpointDistance is twice the distance from cursor to the midpoint of r,
// kept in integers.
func midpointDistance(r Range, cursor int) int {
	d := r.Start + r.End - 2*cursor
	if d < 0 {
		return -d
	}
	return d
}

// Find compiles q and resolves it against text.
func Find(q TextQuery, text string, cursor int) (Range, bool, error) {
	m, err := Compile(q)
	if err != nil {
		return Range{}, false, err
	}
	return m.Find(text, cursor)
}

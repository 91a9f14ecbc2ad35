// Package phrase resolves declarative text queries against a flattened text.
package phrase

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidQuery is wrapped by every validation failure.
var ErrInvalidQuery = errors.New("invalid text query")

// TextQuery describes a range of text by the phrases around it.
//
// A FullPhrase query selects the phrase itself. StartPhrase and EndPhrase
// together select from one to the other. EndPhrase alone selects from the
// caret to the phrase. The Before and After flags turn a boundary phrase
// into a zero-width anchor: the boundary sits immediately before or after
// the phrase without including it.
type TextQuery struct {
	FullPhrase  string `yaml:"full_phrase,omitempty"  json:"full_phrase,omitempty"`
	StartPhrase string `yaml:"start_phrase,omitempty" json:"start_phrase,omitempty"`
	EndPhrase   string `yaml:"end_phrase,omitempty"   json:"end_phrase,omitempty"`
	StartBefore bool   `yaml:"start_before,omitempty" json:"start_before,omitempty"`
	StartAfter  bool   `yaml:"start_after,omitempty"  json:"start_after,omitempty"`
	EndBefore   bool   `yaml:"end_before,omitempty"   json:"end_before,omitempty"`
	EndAfter    bool   `yaml:"end_after,omitempty"    json:"end_after,omitempty"`
}

// Full returns a query for the phrase itself.
func Full(phrase string) TextQuery {
	return TextQuery{FullPhrase: phrase}
}

// Between returns a query from start through end.
func Between(start, end string) TextQuery {
	return TextQuery{StartPhrase: start, EndPhrase: end}
}

// Through returns a query from the caret to end.
func Through(end string) TextQuery {
	return TextQuery{EndPhrase: end}
}

// Validate reports conflicting or missing fields.
func (q TextQuery) Validate() error {
	switch {
	case q.FullPhrase == "" && q.StartPhrase == "" && q.EndPhrase == "":
		return fmt.Errorf("%w: no phrase given", ErrInvalidQuery)
	case q.FullPhrase != "" && (q.StartPhrase != "" || q.EndPhrase != ""):
		return fmt.Errorf("%w: cannot combine full phrase with start or end phrase", ErrInvalidQuery)
	case q.StartPhrase != "" && q.EndPhrase == "":
		return fmt.Errorf("%w: start phrase requires an end phrase", ErrInvalidQuery)
	case q.StartBefore && q.StartAfter, q.EndBefore && q.EndAfter:
		return fmt.Errorf("%w: before and after cannot both be set for one boundary", ErrInvalidQuery)
	case (q.StartBefore || q.StartAfter) && q.StartPhrase == "":
		return fmt.Errorf("%w: start before/after requires a start phrase", ErrInvalidQuery)
	case (q.EndBefore || q.EndAfter) && q.EndPhrase == "":
		return fmt.Errorf("%w: end before/after requires an end phrase", ErrInvalidQuery)
	}
	for _, p := range []string{q.FullPhrase, q.StartPhrase, q.EndPhrase} {
		if p != "" && len(words(p)) == 0 {
			return fmt.Errorf("%w: phrase %q contains no words", ErrInvalidQuery, p)
		}
	}
	return nil
}

// FromCursor reports whether the query is resolved relative to the caret.
func (q TextQuery) FromCursor() bool {
	return q.EndPhrase != "" && q.StartPhrase == ""
}

func (q TextQuery) String() string {
	var parts []string
	add := func(name, v string) {
		if v != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", name, v))
		}
	}
	flag := func(name string, v bool) {
		if v {
			parts = append(parts, name)
		}
	}
	add("full", q.FullPhrase)
	add("start", q.StartPhrase)
	flag("start_before", q.StartBefore)
	flag("start_after", q.StartAfter)
	add("end", q.EndPhrase)
	flag("end_before", q.EndBefore)
	flag("end_after", q.EndAfter)
	return "{" + strings.Join(parts, " ") + "}"
}

// words splits a phrase on runs of characters that are neither letters
// nor digits.
func words(phrase string) []string {
	return strings.FieldsFunc(phrase, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

package detect

import (
	"strings"

	"github.com/japaniel/grammatik/pkg/annotation"
)

// Direction selects the search direction of NearestPOS.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Span returns the character range covering tokens from..to (inclusive).
func Span(s annotation.Sentence, from, to int) Position {
	if from > to {
		from, to = to, from
	}
	return Position{Start: s.Tokens[from].CharStart, End: s.Tokens[to].CharEnd}
}

// TokenSpan returns the character range of one token.
func TokenSpan(t annotation.Token) Position {
	return Position{Start: t.CharStart, End: t.CharEnd}
}

// NearestPOS returns the index of the closest token with one of the given
// POS tags, at most maxDist tokens away in the given direction, or -1.
func NearestPOS(s annotation.Sentence, from int, dir Direction, maxDist int, pos ...string) int {
	for d := 1; d <= maxDist; d++ {
		j := from + d*int(dir)
		if j < 0 || j >= len(s.Tokens) {
			return -1
		}
		if s.Tokens[j].Is(pos...) {
			return j
		}
	}
	return -1
}

// IsClauseBoundary reports whether the token separates clauses: punctuation
// and coordinating or subordinating conjunctions.
func IsClauseBoundary(t annotation.Token) bool {
	return t.Is(annotation.POSPunctuation, annotation.POSCConj, annotation.POSSConj)
}

// ClauseStart returns the index of the first token of the clause containing i.
func ClauseStart(s annotation.Sentence, i int) int {
	for j := i - 1; j >= 0; j-- {
		if IsClauseBoundary(s.Tokens[j]) {
			return j + 1
		}
	}
	return 0
}

// ClauseEnd returns the index of the last token of the clause containing i.
func ClauseEnd(s annotation.Sentence, i int) int {
	for j := i + 1; j < len(s.Tokens); j++ {
		if IsClauseBoundary(s.Tokens[j]) {
			return j - 1
		}
	}
	return len(s.Tokens) - 1
}

// findInClause returns the first token index after (dir=Forward) or before
// (dir=Backward) i, within i's clause, that satisfies match; -1 if none.
// A stop predicate ends the search early.
func findInClause(s annotation.Sentence, i int, dir Direction, match, stop func(annotation.Token) bool) int {
	lo, hi := ClauseStart(s, i), ClauseEnd(s, i)
	for j := i + int(dir); j >= lo && j <= hi; j += int(dir) {
		t := s.Tokens[j]
		if match(t) {
			return j
		}
		if stop != nil && stop(t) {
			return -1
		}
	}
	return -1
}

// isSeparablePrefix reports whether the token is a detached verb particle.
func isSeparablePrefix(t annotation.Token) bool {
	switch t.Dep {
	case "svp", "compound:prt":
		return true
	}
	return t.Tag == "PTKVZ"
}

// textOf returns the sentence text covered by tokens from..to, or the
// tokens' own text joined by spaces when the offsets do not fit the text.
func textOf(s annotation.Sentence, from, to int) string {
	if text, ok := s.Slice(s.Tokens[from].CharStart, s.Tokens[to].CharEnd); ok {
		return text
	}
	words := make([]string, 0, to-from+1)
	for _, t := range s.Tokens[from : to+1] {
		words = append(words, t.Text)
	}
	return strings.Join(words, " ")
}

package internal

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"crosswarped.com/anagram/pkg/primitives"
)

// Candidate is a dictionary word annotated with its letters.
type Candidate struct {
	Word    string
	Letters primitives.Letters
	Length  int
}

type LexiconParams struct {
	Words         []string
	ExcludedWords []string
}

// Lexicon is a normalized, read-only word list. It is safe for concurrent use.
type Lexicon struct {
	entries []Candidate
}

// normalizeWord lowercases w, returning false if w is empty or contains anything
// other than ASCII letters.
func normalizeWord(w string) (string, bool) {
	w = strings.TrimSpace(w)
	if w == "" {
		return "", false
	}
	for i := 0; i < len(w); i++ {
		b := w[i]
		if (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			return "", false
		}
	}
	return strings.ToLower(w), true
}

// NewLexicon normalizes the given words, dropping empty lines, entries with
// non-alphabetic characters, and excluded words. Word order is preserved.
func NewLexicon(ctx context.Context, p LexiconParams) (*Lexicon, error) {
	excluded := make(map[string]bool, len(p.ExcludedWords))
	for _, word := range p.ExcludedWords {
		if w, ok := normalizeWord(word); ok {
			excluded[w] = true
		}
	}

	entries := make([]Candidate, 0, len(p.Words))
	for i, word := range p.Words {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		w, ok := normalizeWord(word)
		if !ok || excluded[w] {
			continue
		}
		letters := primitives.LettersOf(w)
		entries = append(entries, Candidate{Word: w, Letters: letters, Length: len(w)})
	}
	return &Lexicon{entries: entries}, nil
}

// Len returns the number of usable words.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Candidates returns the words that can be spelled from target, longest first.
//
// Words of equal length keep their lexicon order, so the result is
// deterministic for a given word list.
func (l *Lexicon) Candidates(target primitives.Letters) []Candidate {
	targetLength := target.Total()

	var candidates []Candidate
	for _, c := range l.entries {
		if c.Length > targetLength {
			continue
		}
		if !target.Contains(c.Letters) {
			continue
		}
		candidates = append(candidates, c)
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Length, a.Length)
	})
	return candidates
}

package anagram

import (
	"context"
	"slices"

	"crosswarped.com/anagram/internal"
	"crosswarped.com/anagram/pkg/primitives"
)

const (
	// minWordFloor is the smallest minimum word length the short-word pruning uses.
	minWordFloor = 2
	// earlyExitMinRemaining is the number of letters that must remain before a
	// branch is allowed to give up on short words.
	earlyExitMinRemaining = 3
	// ctxCheckInterval is how many search frames pass between context checks.
	ctxCheckInterval = 1024
)

// solution is a complete set of words using every letter of the phrase.
type solution struct {
	words []string
	score float64
}

// search is the state shared by every frame of one combination search.
type search struct {
	ctx        context.Context
	candidates []internal.Candidate
	maxResults int
	pruning    PruningPolicy

	redundancy *internal.RedundancyFilter

	// current is the partial solution; frames push and pop words as they backtrack.
	current   []string
	solutions []solution

	frames    int
	cancelled bool
}

func newSearch(ctx context.Context, candidates []internal.Candidate, p params) *search {
	return &search{
		ctx:        ctx,
		candidates: candidates,
		maxResults: p.maxResults,
		pruning:    p.pruning,
		redundancy: internal.NewRedundancyFilter(p.substantialWordLength),
	}
}

func (s *search) run(target primitives.Letters) {
	s.find(target, target.Total(), 0, 0)
}

func (s *search) full() bool {
	return len(s.solutions) >= s.maxResults
}

func (s *search) stopped() bool {
	if s.cancelled {
		return true
	}
	s.frames++
	if s.frames%ctxCheckInterval == 0 && s.ctx.Err() != nil {
		s.cancelled = true
	}
	return s.cancelled || s.full()
}

// minWordLength returns the length below which words stop being worth trying at
// the given depth, as the search has likely already found the good solutions.
func minWordLength(depth, remaining int) int {
	var percent int
	switch depth {
	case 0:
		return 0
	case 1:
		percent = 40
	case 2:
		percent = 50
	default:
		percent = 60
	}
	return min(max(remaining*percent/100, minWordFloor), remaining)
}

// giveUpOnShortWords returns true if a branch with the given letters remaining
// should skip the rest of its (shorter) candidates.
func (s *search) giveUpOnShortWords(remaining int) bool {
	if s.pruning == Exhaustive {
		return false
	}
	return len(s.solutions) > s.maxResults/10 && remaining > earlyExitMinRemaining
}

func (s *search) record() {
	words := slices.Clone(s.current)
	s.solutions = append(s.solutions, solution{
		words: words,
		score: qualityScore(words),
	})
	s.redundancy.Record(words)
}

// find extends the current partial solution with candidates at index start or
// later, so every combination of words is visited in only one order.
func (s *search) find(available primitives.Letters, remaining, start, depth int) {
	if remaining == 0 {
		s.record()
		return
	}
	if s.stopped() {
		return
	}

	minLength := minWordLength(depth, remaining)
	for i := start; i < len(s.candidates); i++ {
		c := &s.candidates[i]
		if c.Length > remaining {
			continue
		}
		// Candidates are sorted longest first, so everything after this is short too.
		if c.Length < minLength && s.giveUpOnShortWords(remaining) {
			break
		}
		if !available.Contains(c.Letters) {
			continue
		}
		if s.redundancy.IsRedundant(s.current, c.Word) {
			continue
		}

		s.current = append(s.current, c.Word)
		s.find(available.Minus(c.Letters), remaining-c.Length, i, depth+1)
		s.current = s.current[:len(s.current)-1]

		if s.full() || s.cancelled {
			return
		}
	}
}

package internal

import (
	"slices"
	"strings"
)

const signatureSeparator = "|"

// RedundancyFilter remembers the substantial words of every solution found so far, so
// that branches which would only rediscover one of them can be skipped.
//
// "Substantial" words are those at least MinLength letters long. A filter is used
// for a single search and is not safe for concurrent use.
type RedundancyFilter struct {
	MinLength int

	seen    map[string]bool
	scratch []string
}

func NewRedundancyFilter(minLength int) *RedundancyFilter {
	return &RedundancyFilter{
		MinLength: minLength,
		seen:      make(map[string]bool),
	}
}

// Signature returns the sorted, pipe-joined substantial words, or "" if there are none.
func (f *RedundancyFilter) Signature(words ...string) string {
	f.scratch = f.scratch[:0]
	for _, w := range words {
		if len(w) >= f.MinLength {
			f.scratch = append(f.scratch, w)
		}
	}
	return f.join()
}

func (f *RedundancyFilter) join() string {
	if len(f.scratch) == 0 {
		return ""
	}
	slices.Sort(f.scratch)
	return strings.Join(f.scratch, signatureSeparator)
}

// IsRedundant returns true if current plus candidate has the same signature as
// an already recorded solution. An empty signature is never redundant.
func (f *RedundancyFilter) IsRedundant(current []string, candidate string) bool {
	f.scratch = f.scratch[:0]
	for _, w := range current {
		if len(w) >= f.MinLength {
			f.scratch = append(f.scratch, w)
		}
	}
	if len(candidate) >= f.MinLength {
		f.scratch = append(f.scratch, candidate)
	}
	sig := f.join()
	if sig == "" {
		return false
	}
	return f.seen[sig]
}

// Record marks the signature of a completed solution as seen.
func (f *RedundancyFilter) Record(words []string) {
	if sig := f.Signature(words...); sig != "" {
		f.seen[sig] = true
	}
}

// Len returns the number of distinct signatures recorded.
func (f *RedundancyFilter) Len() int {
	return len(f.seen)
}

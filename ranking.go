package anagram

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

const (
	wordCountWeight     = 1000
	averageLengthWeight = 100
	deviationWeight     = 10
)

// qualityScore rates a solution; higher is better. Fewer words dominate, then
// longer words, then words of similar length.
func qualityScore(words []string) float64 {
	n := float64(len(words))
	if n == 0 {
		return 0
	}

	total := 0
	for _, w := range words {
		total += len(w)
	}
	avg := float64(total) / n

	score := -wordCountWeight*n + averageLengthWeight*avg
	if len(words) > 1 {
		var deviation float64
		for _, w := range words {
			deviation += math.Abs(float64(len(w)) - avg)
		}
		score -= deviationWeight * deviation
	}
	return score
}

// compareSolutions orders better solutions first. Word count always wins so that
// very long phrases cannot let a many-word solution outrank a shorter one.
func compareSolutions(a, b solution) int {
	if c := cmp.Compare(len(a.words), len(b.words)); c != 0 {
		return c
	}
	return cmp.Compare(b.score, a.score)
}

// rank sorts the solutions best first and returns up to limit distinct phrases.
// Solutions that score equally keep the order they were found in.
func rank(solutions []solution, limit int) []string {
	sorted := slices.Clone(solutions)
	slices.SortStableFunc(sorted, compareSolutions)

	seen := make(map[string]bool, len(sorted))
	phrases := make([]string, 0, min(len(sorted), limit))
	for _, sol := range sorted {
		if len(phrases) >= limit {
			break
		}
		phrase := strings.Join(sol.words, " ")
		if seen[phrase] {
			continue
		}
		seen[phrase] = true
		phrases = append(phrases, phrase)
	}
	return phrases
}

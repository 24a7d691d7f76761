package primitives

import (
	"fmt"
	"strings"
)

// NumLetters is the size of the alphabet tracked by Letters.
const NumLetters = 26

// Letters is a multiset over the ASCII alphabet a-z, one count per letter.
//
// Letters is a value type: assigning or passing it copies the counts.
type Letters [NumLetters]int

// LettersOf counts the ASCII letters in s, case-insensitively. Any other
// character is ignored.
func LettersOf(s string) Letters {
	var l Letters
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 'a' && b <= 'z':
			l[b-'a']++
		case b >= 'A' && b <= 'Z':
			l[b-'A']++
		}
	}
	return l
}

// Contains returns true if every letter in need appears in l at least as many times,
// i.e. l dominates need.
func (l Letters) Contains(need Letters) bool {
	for i := range l {
		if need[i] > l[i] {
			return false
		}
	}
	return true
}

// Minus returns l with the letters of need removed.
//
// The caller must have checked l.Contains(need).
func (l Letters) Minus(need Letters) Letters {
	for i := range l {
		if need[i] > l[i] {
			panic(fmt.Sprintf("cannot subtract %v from %v: not enough %q", need, l, rune('a'+i)))
		}
		l[i] -= need[i]
	}
	return l
}

// Total returns the number of letters in the multiset.
func (l Letters) Total() int {
	total := 0
	for _, c := range l {
		total += c
	}
	return total
}

// IsEmpty returns true if no letters remain.
func (l Letters) IsEmpty() bool {
	return l == Letters{}
}

// String returns the letters in alphabetical order, e.g. "act" for "cat".
func (l Letters) String() string {
	var sb strings.Builder
	sb.Grow(l.Total())
	for i, c := range l {
		for range c {
			sb.WriteByte(byte('a' + i))
		}
	}
	return sb.String()
}

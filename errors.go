package anagram

import "errors"

var (
	// ErrEmptyInput is returned when the phrase has no letters to rearrange.
	ErrEmptyInput = errors.New("phrase is empty")

	// ErrDictionaryEmpty is returned when the word list yields no usable words.
	ErrDictionaryEmpty = errors.New("dictionary has no usable words")
)

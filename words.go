package anagram

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed wordlists/default.txt
var defaultWords []byte

// DefaultWords returns the built-in word list.
func DefaultWords() []string {
	words, err := ParseWords(bytes.NewReader(defaultWords))
	if err != nil {
		panic(fmt.Sprintf("parsing embedded word list: %v", err))
	}
	return words
}

// ParseWords reads one word per line. Blank lines and lines starting with '#'
// are skipped; other filtering is left to the Solver.
func ParseWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning words: %w", err)
	}
	return words, nil
}

// LoadWordsFromFile reads a newline-delimited word list from path.
func LoadWordsFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words, err := ParseWords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// Package words holds the secret-word dictionary for the word game. Only
// lowercase alphabetic words of 4 to 8 letters survive loading; anything
// else in the source list is dropped.
package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"math/big"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

//go:embed words.txt
var rawWords string

const (
	MinWordLength = 4
	MaxWordLength = 8
)

var dictionary = loadDictionary()

func loadDictionary() []string {
	var words []string
	scanner := bufio.NewScanner(strings.NewReader(rawWords))
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			words = append(words, word)
		}
	}

	return lo.Filter(words, func(w string, _ int) bool {
		if len(w) < MinWordLength || len(w) > MaxWordLength {
			return false
		}
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		return true
	})
}

// Count reports the number of usable dictionary entries.
func Count() int {
	return len(dictionary)
}

// Random picks a secret word using crypto/rand. Falls back to the first
// entry if the random source fails, so a game can always start.
func Random() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(dictionary))))
	if err != nil {
		return dictionary[0]
	}
	return dictionary[n.Int64()]
}

package words_test

import (
	"testing"
	"unicode"

	"creaturegrove-backend/internal/words"
)

func TestDictionaryLoaded(t *testing.T) {
	if words.Count() == 0 {
		t.Fatal("Dictionary should not be empty")
	}
}

func TestRandomWordShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		w := words.Random()
		if len(w) < words.MinWordLength || len(w) > words.MaxWordLength {
			t.Errorf("Word %q has invalid length %d", w, len(w))
		}
		for _, r := range w {
			if !unicode.IsLetter(r) || unicode.IsUpper(r) {
				t.Errorf("Word %q contains invalid rune %q", w, r)
			}
		}
	}
}

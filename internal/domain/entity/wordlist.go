package entity

import (
	"fmt"
	"strings"
)

// WordlistSize is the number of words in every BIP-39 wordlist.
const WordlistSize = 2048

// Wordlist is an immutable, ordered BIP-39 wordlist. A word's position is its 11-bit code.
type Wordlist struct {
	words []string
	index map[string]int
}

// NewWordlist validates words and builds the lookup index.
// The slice is copied, so later changes by the caller are not observed.
func NewWordlist(words []string) (*Wordlist, error) {
	if len(words) != WordlistSize {
		return nil, fmt.Errorf("%w: expected %d words, got %d", ErrMalformedWordlist, WordlistSize, len(words))
	}

	wl := &Wordlist{
		words: make([]string, len(words)),
		index: make(map[string]int, len(words)),
	}
	for i, w := range words {
		if w == "" || strings.TrimSpace(w) != w {
			return nil, fmt.Errorf("%w: empty or padded word at position %d", ErrMalformedWordlist, i)
		}
		if strings.ToLower(w) != w {
			return nil, fmt.Errorf("%w: word %q at position %d is not lowercase", ErrMalformedWordlist, w, i)
		}
		if prev, dup := wl.index[w]; dup {
			return nil, fmt.Errorf("%w: duplicate word %q at positions %d and %d", ErrMalformedWordlist, w, prev, i)
		}
		wl.words[i] = w
		wl.index[w] = i
	}
	return wl, nil
}

// Len returns the number of words.
func (wl *Wordlist) Len() int { return len(wl.words) }

// Word returns the word with the given 11-bit code.
func (wl *Wordlist) Word(i int) string { return wl.words[i] }

// Index returns the code of word and whether the word is in the list.
func (wl *Wordlist) Index(word string) (int, bool) {
	i, ok := wl.index[word]
	return i, ok
}

// Contains reports whether word is in the list.
func (wl *Wordlist) Contains(word string) bool {
	_, ok := wl.index[word]
	return ok
}

// Words returns a copy of the ordered words.
func (wl *Wordlist) Words() []string {
	out := make([]string, len(wl.words))
	copy(out, wl.words)
	return out
}

package entity

import (
	"fmt"
	"strings"
)

// Allowed mnemonic lengths. Each word carries 11 bits; one bit in 33 is checksum.
var ValidWordCounts = []int{12, 15, 18, 21, 24}

// IsValidWordCount reports whether n is a BIP-39 mnemonic length.
func IsValidWordCount(n int) bool {
	for _, c := range ValidWordCounts {
		if c == n {
			return true
		}
	}
	return false
}

// ChecksumBits returns the checksum length for an n-word mnemonic (n/3).
func ChecksumBits(n int) int { return n * 11 / 33 }

// EntropyBits returns the entropy length for an n-word mnemonic (32n/3).
func EntropyBits(n int) int { return n*11 - ChecksumBits(n) }

// ParseWordCount checks a configured word count.
func ParseWordCount(n int) (int, error) {
	if !IsValidWordCount(n) {
		return 0, fmt.Errorf("%w: %d (allowed: 12, 15, 18, 21, 24)", ErrInvalidWordCount, n)
	}
	return n, nil
}

// Mnemonic is an ordered sequence of wordlist words.
type Mnemonic struct {
	Words []string
}

// String joins the words with single spaces.
func (m Mnemonic) String() string { return strings.Join(m.Words, " ") }

// Len returns the word count.
func (m Mnemonic) Len() int { return len(m.Words) }

// ValidationOutcome is the result of validating a phrase. It is a value, not an error.
type ValidationOutcome int

const (
	Valid ValidationOutcome = iota
	InvalidWordCount
	UnknownWord
	ChecksumMismatch
)

func (o ValidationOutcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case InvalidWordCount:
		return "invalid_word_count"
	case UnknownWord:
		return "unknown_word"
	case ChecksumMismatch:
		return "checksum_mismatch"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"seed_checker/internal/domain/entity"
	"seed_checker/internal/pkg/metrics"
)

// MnemonicCodec generates and validates BIP-39 mnemonics against one wordlist.
// It is safe for concurrent use as long as the random source is (crypto/rand is).
type MnemonicCodec struct {
	wordlist    *entity.Wordlist
	random      io.Reader
	maxAttempts int
	metrics     *metrics.Metrics
}

// CodecOption configures MnemonicCodec.
type CodecOption func(*MnemonicCodec)

// WithRandomSource replaces crypto/rand. Only deterministic tests should use this.
func WithRandomSource(r io.Reader) CodecOption {
	return func(c *MnemonicCodec) {
		c.random = r
	}
}

// WithMaxAttempts bounds rejection sampling. Zero means unbounded.
func WithMaxAttempts(n int) CodecOption {
	return func(c *MnemonicCodec) {
		c.maxAttempts = n
	}
}

// WithCodecMetrics records every draw.
func WithCodecMetrics(m *metrics.Metrics) CodecOption {
	return func(c *MnemonicCodec) {
		c.metrics = m
	}
}

// NewMnemonicCodec creates a codec over wl.
func NewMnemonicCodec(wl *entity.Wordlist, opts ...CodecOption) *MnemonicCodec {
	c := &MnemonicCodec{
		wordlist: wl,
		random:   rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wordlist returns the codec's wordlist.
func (c *MnemonicCodec) Wordlist() *entity.Wordlist { return c.wordlist }

// GenerateRandom draws wordCount words with replacement until the checksum holds.
// A uniformly random sequence passes with probability 2^-(wordCount/3),
// so this takes 16 draws on average for 12 words and 256 for 24 words.
func (c *MnemonicCodec) GenerateRandom(wordCount int) (entity.Mnemonic, error) {
	return c.GenerateExcluding(wordCount, nil)
}

// GenerateExcluding is GenerateRandom restricted to the wordlist minus exclusions.
// It fails with entity.ErrInsufficientWordlist when fewer than wordCount words remain.
func (c *MnemonicCodec) GenerateExcluding(wordCount int, exclusions []string) (entity.Mnemonic, error) {
	if _, err := entity.ParseWordCount(wordCount); err != nil {
		return entity.Mnemonic{}, err
	}

	pool := c.candidatePool(exclusions)
	if len(pool) < wordCount {
		return entity.Mnemonic{}, fmt.Errorf("%w: %d words left, %d required", entity.ErrInsufficientWordlist, len(pool), wordCount)
	}

	indices := make([]int, wordCount)
	for attempt := 1; ; attempt++ {
		if c.maxAttempts > 0 && attempt > c.maxAttempts {
			return entity.Mnemonic{}, fmt.Errorf("%w after %d draws", entity.ErrAttemptsExhausted, c.maxAttempts)
		}
		for i := range indices {
			n, err := c.randIndex(len(pool))
			if err != nil {
				return entity.Mnemonic{}, fmt.Errorf("read random source: %w", err)
			}
			indices[i] = pool[n]
		}
		ok := checksumValid(indices)
		c.metrics.RecordDraw(ok)
		if ok {
			return c.mnemonicFromIndices(indices), nil
		}
	}
}

// Validate checks word count, wordlist membership and checksum.
func (c *MnemonicCodec) Validate(phrase string) entity.ValidationOutcome {
	_, outcome := c.Decode(phrase)
	return outcome
}

// Decode returns the entropy of a phrase together with its validation outcome.
// Entropy is nil unless the outcome is entity.Valid.
func (c *MnemonicCodec) Decode(phrase string) ([]byte, entity.ValidationOutcome) {
	words := strings.Fields(strings.ToLower(phrase))
	if !entity.IsValidWordCount(len(words)) {
		return nil, entity.InvalidWordCount
	}

	indices := make([]int, len(words))
	for i, w := range words {
		idx, ok := c.wordlist.Index(w)
		if !ok {
			return nil, entity.UnknownWord
		}
		indices[i] = idx
	}

	if !checksumValid(indices) {
		return nil, entity.ChecksumMismatch
	}
	packed := packIndices(indices)
	return packed[:entity.EntropyBits(len(indices))/8], entity.Valid
}

// Encode turns 128–256 bits of entropy (a multiple of 32) into a mnemonic.
func (c *MnemonicCodec) Encode(entropy []byte) (entity.Mnemonic, error) {
	bits := len(entropy) * 8
	if bits < 128 || bits > 256 || bits%32 != 0 {
		return entity.Mnemonic{}, fmt.Errorf("%w: %d bits", entity.ErrInvalidEntropyLength, bits)
	}

	wordCount := bits * 3 / 32
	hash := sha256.Sum256(entropy)
	data := make([]byte, 0, len(entropy)+1)
	data = append(data, entropy...)
	data = append(data, hash[0])

	indices := make([]int, wordCount)
	for i := range indices {
		indices[i] = readBits(data, i*11, 11)
	}
	return c.mnemonicFromIndices(indices), nil
}

func (c *MnemonicCodec) candidatePool(exclusions []string) []int {
	excluded := make(map[int]struct{}, len(exclusions))
	for _, w := range exclusions {
		if idx, ok := c.wordlist.Index(strings.ToLower(strings.TrimSpace(w))); ok {
			excluded[idx] = struct{}{}
		}
	}
	pool := make([]int, 0, c.wordlist.Len()-len(excluded))
	for i := 0; i < c.wordlist.Len(); i++ {
		if _, skip := excluded[i]; !skip {
			pool = append(pool, i)
		}
	}
	return pool
}

// randIndex returns a uniform integer in [0, n) for n <= 65536.
func (c *MnemonicCodec) randIndex(n int) (int, error) {
	limit := 65536 - 65536%n
	var buf [2]byte
	for {
		if _, err := io.ReadFull(c.random, buf[:]); err != nil {
			return 0, err
		}
		v := int(binary.BigEndian.Uint16(buf[:]))
		if v < limit {
			return v % n, nil
		}
	}
}

func (c *MnemonicCodec) mnemonicFromIndices(indices []int) entity.Mnemonic {
	words := make([]string, len(indices))
	for i, idx := range indices {
		words[i] = c.wordlist.Word(idx)
	}
	return entity.Mnemonic{Words: words}
}

// checksumValid compares the trailing checksum bits of the packed indices
// with the leading bits of SHA-256 over the entropy prefix.
func checksumValid(indices []int) bool {
	entBits := entity.EntropyBits(len(indices))
	csBits := entity.ChecksumBits(len(indices))
	packed := packIndices(indices)

	hash := sha256.Sum256(packed[:entBits/8])
	want := hash[0] >> (8 - csBits)
	got := packed[entBits/8] >> (8 - csBits)
	return want == got
}

// packIndices concatenates 11-bit big-endian codes into a byte slice, zero padded.
func packIndices(indices []int) []byte {
	out := make([]byte, (len(indices)*11+7)/8)
	bit := 0
	for _, idx := range indices {
		for j := 10; j >= 0; j-- {
			if (idx>>j)&1 == 1 {
				out[bit/8] |= 1 << (7 - bit%8)
			}
			bit++
		}
	}
	return out
}

func readBits(data []byte, offset, n int) int {
	v := 0
	for i := 0; i < n; i++ {
		bit := offset + i
		v <<= 1
		if data[bit/8]&(1<<(7-bit%8)) != 0 {
			v |= 1
		}
	}
	return v
}

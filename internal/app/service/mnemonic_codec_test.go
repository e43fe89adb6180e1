package service

import (
	"errors"
	mrand "math/rand/v2"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"

	"seed_checker/internal/domain/entity"
	"seed_checker/internal/pkg/metrics"
)

func englishWordlist(t testing.TB) *entity.Wordlist {
	t.Helper()
	wl, err := entity.NewWordlist(wordlists.English)
	require.NoError(t, err)
	return wl
}

func seededReader(seed byte) *mrand.ChaCha8 {
	return mrand.NewChaCha8([32]byte{seed})
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func repeatWord(w string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = w
	}
	return out
}

func TestBitSplit(t *testing.T) {
	cases := []struct{ words, checksum, entropy int }{
		{12, 4, 128},
		{15, 5, 160},
		{18, 6, 192},
		{21, 7, 224},
		{24, 8, 256},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.checksum, entity.ChecksumBits(tc.words), "checksum bits for %d words", tc.words)
		assert.Equal(t, tc.entropy, entity.EntropyBits(tc.words), "entropy bits for %d words", tc.words)
	}
}

func TestMnemonicCodec_GenerateRandom(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t), WithRandomSource(seededReader(7)))

	for _, n := range entity.ValidWordCounts {
		for i := 0; i < 5; i++ {
			m, err := codec.GenerateRandom(n)
			require.NoError(t, err)
			assert.Equal(t, n, m.Len())
			assert.Equal(t, entity.Valid, codec.Validate(m.String()))
			assert.True(t, bip39.IsMnemonicValid(m.String()), "go-bip39 rejects %q", m.String())
		}
	}
}

func TestMnemonicCodec_GenerateRandom_DefaultReader(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t))

	m, err := codec.GenerateRandom(24)
	require.NoError(t, err)
	assert.True(t, bip39.IsMnemonicValid(m.String()))
}

func TestMnemonicCodec_GenerateRandom_Deterministic(t *testing.T) {
	wl := englishWordlist(t)
	a, err := NewMnemonicCodec(wl, WithRandomSource(seededReader(42))).GenerateRandom(12)
	require.NoError(t, err)
	b, err := NewMnemonicCodec(wl, WithRandomSource(seededReader(42))).GenerateRandom(12)
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestMnemonicCodec_GenerateRandom_InvalidWordCount(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t))

	for _, n := range []int{0, 11, 13, 25} {
		_, err := codec.GenerateRandom(n)
		assert.ErrorIs(t, err, entity.ErrInvalidWordCount)
	}
}

func TestMnemonicCodec_GenerateRandom_AttemptsExhausted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg, "test")
	// A zero reader always draws "abandon", whose checksum never matches.
	codec := NewMnemonicCodec(englishWordlist(t),
		WithRandomSource(zeroReader{}),
		WithMaxAttempts(3),
		WithCodecMetrics(m),
	)

	_, err := codec.GenerateRandom(12)
	require.ErrorIs(t, err, entity.ErrAttemptsExhausted)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.MnemonicDraws.WithLabelValues("rejected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.MnemonicDraws.WithLabelValues("accepted")))
}

func TestMnemonicCodec_GenerateRandom_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	codec := NewMnemonicCodec(englishWordlist(t), WithRandomSource(iotest.ErrReader(boom)))

	_, err := codec.GenerateRandom(12)
	assert.ErrorIs(t, err, boom)
}

func TestMnemonicCodec_GenerateExcluding(t *testing.T) {
	wl := englishWordlist(t)
	words := wl.Words()
	excluded := words[:1024]
	excludedSet := make(map[string]struct{}, len(excluded))
	for _, w := range excluded {
		excludedSet[w] = struct{}{}
	}

	codec := NewMnemonicCodec(wl, WithRandomSource(seededReader(3)))
	for i := 0; i < 10; i++ {
		m, err := codec.GenerateExcluding(12, excluded)
		require.NoError(t, err)
		for _, w := range m.Words {
			_, bad := excludedSet[w]
			assert.False(t, bad, "excluded word %q drawn", w)
		}
		assert.Equal(t, entity.Valid, codec.Validate(m.String()))
	}
}

func TestMnemonicCodec_GenerateExcluding_Insufficient(t *testing.T) {
	wl := englishWordlist(t)
	words := wl.Words()
	codec := NewMnemonicCodec(wl)

	_, err := codec.GenerateExcluding(12, words[:len(words)-10])
	assert.ErrorIs(t, err, entity.ErrInsufficientWordlist)

	_, err = codec.GenerateExcluding(24, words[:len(words)-23])
	assert.ErrorIs(t, err, entity.ErrInsufficientWordlist)
}

func TestMnemonicCodec_GenerateExcluding_UnknownExclusionsIgnored(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t), WithRandomSource(seededReader(9)))

	m, err := codec.GenerateExcluding(15, []string{"notaword", "", "  "})
	require.NoError(t, err)
	assert.Equal(t, 15, m.Len())
}

func TestMnemonicCodec_Validate(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t))

	abandon11 := strings.Join(repeatWord("abandon", 11), " ")
	abandon23 := strings.Join(repeatWord("abandon", 23), " ")

	cases := []struct {
		name   string
		phrase string
		want   entity.ValidationOutcome
	}{
		{"zero entropy 12 words", abandon11 + " about", entity.Valid},
		{"zero entropy 24 words", abandon23 + " art", entity.Valid},
		{"0x7f entropy", "legal winner thank year wave sausage worth useful legal winner thank yellow", entity.Valid},
		{"uppercase and extra spaces", "  " + strings.ToUpper(abandon11) + "   ABOUT ", entity.Valid},
		{"twelve abandon", abandon11 + " abandon", entity.ChecksumMismatch},
		{"eleven words", abandon11, entity.InvalidWordCount},
		{"empty", "", entity.InvalidWordCount},
		{"thirteen words", abandon11 + " about about", entity.InvalidWordCount},
		{"unknown word", abandon11 + " bitcoinz", entity.UnknownWord},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, codec.Validate(tc.phrase))
			assert.Equal(t, tc.want == entity.Valid, bip39.IsMnemonicValid(strings.Join(strings.Fields(strings.ToLower(tc.phrase)), " ")))
		})
	}
}

func TestMnemonicCodec_Validate_ChecksumBitFlip(t *testing.T) {
	wl := englishWordlist(t)
	codec := NewMnemonicCodec(wl, WithRandomSource(seededReader(11)))

	for _, n := range entity.ValidWordCounts {
		m, err := codec.GenerateRandom(n)
		require.NoError(t, err)

		// The lowest bit of the last word is always a checksum bit.
		last, ok := wl.Index(m.Words[n-1])
		require.True(t, ok)
		mutated := append([]string(nil), m.Words...)
		mutated[n-1] = wl.Word(last ^ 1)

		assert.Equal(t, entity.ChecksumMismatch, codec.Validate(strings.Join(mutated, " ")))
	}
}

func TestMnemonicCodec_EncodeDecode(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t))
	r := seededReader(5)

	for size := 16; size <= 32; size += 4 {
		entropy := make([]byte, size)
		_, err := r.Read(entropy)
		require.NoError(t, err)

		m, err := codec.Encode(entropy)
		require.NoError(t, err)

		want, err := bip39.NewMnemonic(entropy)
		require.NoError(t, err)
		assert.Equal(t, want, m.String())

		decoded, outcome := codec.Decode(m.String())
		assert.Equal(t, entity.Valid, outcome)
		assert.Equal(t, entropy, decoded)
	}
}

func TestMnemonicCodec_Encode_ZeroEntropy(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t))

	m, err := codec.Encode(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(repeatWord("abandon", 11), " ")+" about", m.String())
}

func TestMnemonicCodec_Encode_InvalidLength(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t))

	for _, size := range []int{0, 8, 15, 17, 33, 64} {
		_, err := codec.Encode(make([]byte, size))
		assert.ErrorIs(t, err, entity.ErrInvalidEntropyLength, "size %d", size)
	}
}

func TestMnemonicCodec_Decode_Invalid(t *testing.T) {
	codec := NewMnemonicCodec(englishWordlist(t))

	entropy, outcome := codec.Decode(strings.Join(repeatWord("abandon", 12), " "))
	assert.Nil(t, entropy)
	assert.Equal(t, entity.ChecksumMismatch, outcome)
}

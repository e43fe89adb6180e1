package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/pkg/logger"
	"seed_checker/internal/pkg/metrics"
)

type fixedDeriver struct {
	addresses map[string]string
	err       error
}

func (d fixedDeriver) Derive(context.Context, entity.Mnemonic) (map[string]string, error) {
	return d.addresses, d.err
}

// scriptedAggregator reports a funded BTC balance on the rounds listed in funded.
type scriptedAggregator struct {
	mu     sync.Mutex
	round  int
	funded map[int]bool
	delay  time.Duration
	ctxOK  atomic.Bool
}

func (a *scriptedAggregator) CheckAll(ctx context.Context, addressByChain map[string]string) map[string]entity.BalanceResult {
	a.mu.Lock()
	a.round++
	round := a.round
	a.mu.Unlock()

	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	a.ctxOK.Store(ctx.Err() == nil)

	balance := big.NewInt(0)
	if a.funded[round] {
		balance = big.NewInt(100_000)
	}
	return map[string]entity.BalanceResult{
		"BTC": {Chain: "BTC", Address: addressByChain["BTC"], Symbol: "BTC", Decimals: 8, Balance: balance, FormattedBalance: "0.001"},
	}
}

type failingGenerator struct{ err error }

func (g failingGenerator) GenerateExcluding(int, []string) (entity.Mnemonic, error) {
	return entity.Mnemonic{}, g.err
}

func newTestLoop(t *testing.T, agg port.BalanceAggregator, sink port.FindingSink, cfg SearchConfig) *SearchLoop {
	t.Helper()
	codec := NewMnemonicCodec(englishWordlist(t), WithRandomSource(seededReader(1)))
	deriver := fixedDeriver{addresses: map[string]string{"BTC": "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"}}
	if cfg.WordCount == 0 {
		cfg.WordCount = 12
	}
	return NewSearchLoop(codec, deriver, agg, []port.FindingSink{sink}, cfg, logger.Discard(), nil)
}

func TestSearchLoop_EmitsFindingAndStopsAtMaxRounds(t *testing.T) {
	agg := &scriptedAggregator{funded: map[int]bool{3: true}}
	sink := &memorySink{}
	loop := newTestLoop(t, agg, sink, SearchConfig{MaxRounds: 5})
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	loop.now = func() time.Time { return fixed }

	require.NoError(t, loop.Start(context.Background()))
	loop.Wait()

	assert.Equal(t, StateIdle, loop.State())
	assert.Equal(t, SearchStats{Attempts: 5, Findings: 1}, loop.Stats())
	assert.NoError(t, loop.Err())

	findings := sink.all()
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, fixed, f.Timestamp)
	assert.Len(t, f.Wallets, 1)
	assert.True(t, f.Wallets["BTC"].HasFunds())

	codec := NewMnemonicCodec(englishWordlist(t))
	assert.Equal(t, entity.Valid, codec.Validate(f.Seed))
}

func TestSearchLoop_StopDoesNotCancelInFlightRound(t *testing.T) {
	agg := &scriptedAggregator{delay: 100 * time.Millisecond}
	loop := newTestLoop(t, agg, &memorySink{}, SearchConfig{})

	require.NoError(t, loop.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateRunning, loop.State())

	loop.Stop()
	loop.Wait()

	assert.Equal(t, StateIdle, loop.State())
	assert.True(t, agg.ctxOK.Load(), "in-flight round must see a live context")
	assert.Equal(t, uint64(1), loop.Stats().Attempts)
}

func TestSearchLoop_AlreadyRunning(t *testing.T) {
	agg := &scriptedAggregator{delay: 20 * time.Millisecond}
	loop := newTestLoop(t, agg, &memorySink{}, SearchConfig{})

	require.NoError(t, loop.Start(context.Background()))
	assert.ErrorIs(t, loop.Start(context.Background()), entity.ErrAlreadyRunning)

	loop.Stop()
	loop.Wait()
}

func TestSearchLoop_RestartKeepsCounters(t *testing.T) {
	agg := &scriptedAggregator{}
	loop := newTestLoop(t, agg, &memorySink{}, SearchConfig{MaxRounds: 3})

	require.NoError(t, loop.Start(context.Background()))
	loop.Wait()
	require.NoError(t, loop.Start(context.Background()))
	loop.Wait()

	assert.Equal(t, uint64(6), loop.Stats().Attempts)
}

func TestSearchLoop_InvalidWordCount(t *testing.T) {
	loop := newTestLoop(t, &scriptedAggregator{}, &memorySink{}, SearchConfig{WordCount: 13})

	assert.ErrorIs(t, loop.Start(context.Background()), entity.ErrInvalidWordCount)
	assert.Equal(t, StateIdle, loop.State())
	loop.Wait()
}

func TestSearchLoop_GeneratorErrorEndsRun(t *testing.T) {
	gen := failingGenerator{err: entity.ErrInsufficientWordlist}
	loop := NewSearchLoop(gen, fixedDeriver{}, &scriptedAggregator{}, nil, SearchConfig{WordCount: 12}, logger.Discard(), nil)

	require.NoError(t, loop.Start(context.Background()))
	loop.Wait()

	assert.ErrorIs(t, loop.Err(), entity.ErrInsufficientWordlist)
	assert.Equal(t, uint64(0), loop.Stats().Attempts)
}

func TestSearchLoop_DeriveErrorSkipsRound(t *testing.T) {
	agg := &scriptedAggregator{}
	codec := NewMnemonicCodec(englishWordlist(t), WithRandomSource(seededReader(2)))
	loop := NewSearchLoop(codec, fixedDeriver{err: errors.New("no deriver")}, agg, nil,
		SearchConfig{WordCount: 12, MaxRounds: 4}, logger.Discard(), nil)

	require.NoError(t, loop.Start(context.Background()))
	loop.Wait()

	assert.Equal(t, uint64(4), loop.Stats().Attempts)
	assert.Equal(t, 0, agg.round)
}

func TestSearchLoop_SinkErrorDoesNotStop(t *testing.T) {
	agg := &scriptedAggregator{funded: map[int]bool{1: true, 2: true}}
	sink := &memorySink{err: errors.New("disk full")}
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg, "test")
	codec := NewMnemonicCodec(englishWordlist(t), WithRandomSource(seededReader(4)))
	deriver := fixedDeriver{addresses: map[string]string{"BTC": "x"}}
	loop := NewSearchLoop(codec, deriver, agg, []port.FindingSink{sink}, SearchConfig{WordCount: 24, MaxRounds: 3}, logger.Discard(), m)

	require.NoError(t, loop.Start(context.Background()))
	loop.Wait()

	assert.Equal(t, SearchStats{Attempts: 3, Findings: 2}, loop.Stats())
	assert.Len(t, sink.all(), 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Attempts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Findings))
}

func TestSearchLoop_ContextCancelEndsRun(t *testing.T) {
	agg := &scriptedAggregator{}
	loop := newTestLoop(t, agg, &memorySink{}, SearchConfig{RoundDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, loop.Start(ctx))
	time.Sleep(20 * time.Millisecond)
	cancel()
	loop.Wait()

	assert.Equal(t, StateIdle, loop.State())
	assert.Equal(t, uint64(1), loop.Stats().Attempts)
}

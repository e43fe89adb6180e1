package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/pkg/metrics"
)

const defaultProgressEvery = 100

// SearchState is the lifecycle state of a SearchLoop.
type SearchState int32

const (
	StateIdle SearchState = iota
	StateRunning
)

func (s SearchState) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// SearchStats are the counters of one SearchLoop instance.
type SearchStats struct {
	Attempts uint64 `json:"attempts"`
	Findings uint64 `json:"findings"`
}

// SearchConfig controls the generate, derive, check cycle.
type SearchConfig struct {
	WordCount     int
	Exclusions    []string
	MaxRounds     uint64        // 0 means unbounded
	RoundDelay    time.Duration // pause between rounds
	ProgressEvery uint64        // progress log interval in attempts, 0 means 100
}

// SearchLoop repeatedly generates a candidate mnemonic, derives its addresses, checks their
// balances and hands funded results to the sinks.
type SearchLoop struct {
	generator  port.MnemonicGenerator
	deriver    port.AddressDeriver
	aggregator port.BalanceAggregator
	sinks      []port.FindingSink
	cfg        SearchConfig
	logger     port.Logger
	metrics    *metrics.Metrics
	now        func() time.Time

	mu      sync.Mutex
	state   SearchState
	done    chan struct{}
	lastErr error

	stop     atomic.Bool
	attempts atomic.Uint64
	findings atomic.Uint64
}

// NewSearchLoop creates an idle SearchLoop.
func NewSearchLoop(
	generator port.MnemonicGenerator,
	deriver port.AddressDeriver,
	aggregator port.BalanceAggregator,
	sinks []port.FindingSink,
	cfg SearchConfig,
	logger port.Logger,
	m *metrics.Metrics,
) *SearchLoop {
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = defaultProgressEvery
	}
	return &SearchLoop{
		generator:  generator,
		deriver:    deriver,
		aggregator: aggregator,
		sinks:      sinks,
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// Start launches the loop in a goroutine. ctx bounds the whole run, including in-flight queries.
func (l *SearchLoop) Start(ctx context.Context) error {
	if _, err := entity.ParseWordCount(l.cfg.WordCount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateRunning {
		return entity.ErrAlreadyRunning
	}
	l.state = StateRunning
	l.lastErr = nil
	l.stop.Store(false)
	l.done = make(chan struct{})

	l.logger.Info("Search loop started", "word_count", l.cfg.WordCount, "max_rounds", l.cfg.MaxRounds, "exclusions", len(l.cfg.Exclusions))
	go l.run(ctx, l.done)
	return nil
}

// Stop asks the loop to finish after the current round. It does not cancel in-flight queries.
func (l *SearchLoop) Stop() {
	if l.stop.CompareAndSwap(false, true) {
		l.logger.Info("Search loop stop requested")
	}
}

// Wait blocks until the current run, if any, has finished.
func (l *SearchLoop) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
}

// State returns the lifecycle state.
func (l *SearchLoop) State() SearchState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Stats returns the counters accumulated by this loop across runs.
func (l *SearchLoop) Stats() SearchStats {
	return SearchStats{Attempts: l.attempts.Load(), Findings: l.findings.Load()}
}

// Err returns the error that ended the last run, if any.
func (l *SearchLoop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *SearchLoop) run(ctx context.Context, done chan struct{}) {
	var runErr error
	var rounds uint64
	defer func() {
		l.mu.Lock()
		l.state = StateIdle
		l.lastErr = runErr
		close(done)
		l.mu.Unlock()

		stats := l.Stats()
		l.logger.Info("Search loop stopped", "rounds", rounds, "attempts", stats.Attempts, "findings", stats.Findings)
	}()

	for {
		if l.stop.Load() || ctx.Err() != nil {
			return
		}
		if l.cfg.MaxRounds > 0 && rounds >= l.cfg.MaxRounds {
			return
		}

		if err := l.round(ctx); err != nil {
			l.logger.Error("Search loop aborted", "error", err)
			runErr = err
			return
		}
		rounds++

		if l.cfg.RoundDelay > 0 {
			t := time.NewTimer(l.cfg.RoundDelay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return
			}
		}
	}
}

// round returns an error only for failures that make further rounds pointless.
func (l *SearchLoop) round(ctx context.Context) error {
	m, err := l.generator.GenerateExcluding(l.cfg.WordCount, l.cfg.Exclusions)
	if err != nil {
		return err
	}
	attempt := l.attempts.Add(1)
	l.metrics.RecordAttempt()

	addresses, err := l.deriver.Derive(ctx, m)
	if err != nil {
		l.logger.Warn("Address derivation failed, skipping round", "attempt", attempt, "error", err)
		return nil
	}

	results := l.aggregator.CheckAll(ctx, addresses)
	if finding, ok := entity.NewWalletFinding(m, results, l.now().UTC()); ok {
		l.findings.Add(1)
		l.metrics.RecordFinding()
		l.logger.Info("Funded wallet found", "attempt", attempt, "chains", fundedChains(results))
		for _, sink := range l.sinks {
			if err := sink.Save(ctx, finding); err != nil {
				l.logger.Error("Failed to save finding", "error", err)
			}
		}
	}

	if attempt%l.cfg.ProgressEvery == 0 {
		l.logger.Info("Search progress", "attempts", attempt, "findings", l.findings.Load())
	}
	return nil
}

func fundedChains(results map[string]entity.BalanceResult) []string {
	chains := make([]string, 0, len(results))
	for chain, r := range results {
		if r.HasFunds() {
			chains = append(chains, chain)
		}
	}
	sort.Strings(chains)
	return chains
}

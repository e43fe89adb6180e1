package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/pkg/metrics"
	"seed_checker/internal/pkg/utils"
)

const (
	defaultRequestPause   = 200 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
)

// BalanceAggregator fans one address set out to every configured chain client concurrently.
type BalanceAggregator struct {
	clients        map[string]port.ChainClient
	limiters       map[string]*rate.Limiter
	oracle         port.PriceOracle
	fetchTokens    bool
	requestPause   time.Duration
	requestTimeout time.Duration
	logger         port.Logger
	metrics        *metrics.Metrics
}

// AggregatorOption configures BalanceAggregator.
type AggregatorOption func(*BalanceAggregator)

// WithPriceOracle attaches USD estimates to funded results.
func WithPriceOracle(o port.PriceOracle) AggregatorOption {
	return func(a *BalanceAggregator) { a.oracle = o }
}

// WithTokenBalances enables token balance queries after the native balance.
func WithTokenBalances(enabled bool) AggregatorOption {
	return func(a *BalanceAggregator) { a.fetchTokens = enabled }
}

// WithRequestPause sets the minimum pause between two requests to the same chain. Zero disables it.
func WithRequestPause(d time.Duration) AggregatorOption {
	return func(a *BalanceAggregator) { a.requestPause = d }
}

// WithRequestTimeout bounds each chain query.
func WithRequestTimeout(d time.Duration) AggregatorOption {
	return func(a *BalanceAggregator) { a.requestTimeout = d }
}

// WithAggregatorMetrics records per-chain outcomes and latency.
func WithAggregatorMetrics(m *metrics.Metrics) AggregatorOption {
	return func(a *BalanceAggregator) { a.metrics = m }
}

// NewBalanceAggregator creates an aggregator over clients keyed by chain identifier.
func NewBalanceAggregator(clients map[string]port.ChainClient, logger port.Logger, opts ...AggregatorOption) *BalanceAggregator {
	a := &BalanceAggregator{
		clients:        make(map[string]port.ChainClient, len(clients)),
		limiters:       make(map[string]*rate.Limiter, len(clients)),
		requestPause:   defaultRequestPause,
		requestTimeout: defaultRequestTimeout,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	limit := rate.Inf
	if a.requestPause > 0 {
		limit = rate.Every(a.requestPause)
	}
	for id, c := range clients {
		id = strings.ToUpper(id)
		a.clients[id] = c
		a.limiters[id] = rate.NewLimiter(limit, 1)
	}
	return a
}

// Chains returns the configured chain identifiers, sorted.
func (a *BalanceAggregator) Chains() []string {
	ids := make([]string, 0, len(a.clients))
	for id := range a.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckAll implements port.BalanceAggregator. Chains that fail, panic or have no client are
// absent from the result; the call itself never fails. Zero balances are kept.
func (a *BalanceAggregator) CheckAll(ctx context.Context, addressByChain map[string]string) map[string]entity.BalanceResult {
	results := make(map[string]entity.BalanceResult, len(addressByChain))
	if len(a.clients) == 0 {
		return results
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(len(a.clients))

	for chain, address := range normalizeAddresses(addressByChain, a.logger) {
		client, ok := a.clients[chain]
		if !ok {
			a.logger.Warn("No client configured for chain, address ignored", "chain", chain)
			continue
		}

		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("Chain query panicked", "chain", chain, "panic", fmt.Sprint(r))
					a.metrics.RecordChainQuery(chain, metrics.OutcomeError, 0)
				}
			}()

			res, err := a.checkChain(ctx, chain, client, address)
			if err != nil {
				if errors.Is(err, entity.ErrNotFound) {
					a.logger.Debug("Address not found on chain", "chain", chain, "address", address, "error", err)
				} else {
					a.logger.Warn("Chain query failed", "chain", chain, "address", address, "error", err)
				}
				return nil
			}

			mu.Lock()
			results[chain] = res
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// normalizeAddresses upper-cases chain keys so each chain gets exactly one task.
// When keys collide, the one already in upper case wins, then the lexically smallest key.
func normalizeAddresses(addressByChain map[string]string, logger port.Logger) map[string]string {
	keys := make([]string, 0, len(addressByChain))
	for k := range addressByChain {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(addressByChain))
	owner := make(map[string]string, len(addressByChain))
	for _, raw := range keys {
		chain := strings.ToUpper(strings.TrimSpace(raw))
		if prev, dup := owner[chain]; dup {
			if prev == chain || raw != chain {
				logger.Warn("Duplicate chain key, address ignored", "chain", chain, "key", raw)
				continue
			}
			logger.Warn("Duplicate chain key, address ignored", "chain", chain, "key", prev)
		}
		owner[chain] = raw
		out[chain] = addressByChain[raw]
	}
	return out
}

func (a *BalanceAggregator) checkChain(ctx context.Context, chain string, client port.ChainClient, address string) (entity.BalanceResult, error) {
	limiter := a.limiters[chain]
	if err := limiter.Wait(ctx); err != nil {
		return entity.BalanceResult{}, fmt.Errorf("%w: %v", entity.ErrTransient, err)
	}

	qctx, cancel := context.WithTimeout(ctx, a.requestTimeout)
	defer cancel()

	start := time.Now()
	res, err := client.NativeBalance(qctx, address)
	a.metrics.RecordChainQuery(chain, outcomeOf(err), time.Since(start))
	if err != nil {
		return entity.BalanceResult{}, err
	}
	res.Chain = chain
	if res.Tokens == nil {
		res.Tokens = []entity.TokenBalance{}
	}

	if a.fetchTokens && len(client.Definition().Tokens) > 0 {
		if err := limiter.Wait(ctx); err == nil {
			tokens, terr := client.TokenBalances(qctx, address)
			if terr != nil {
				a.logger.Warn("Token balance query failed, keeping native balance", "chain", chain, "error", terr)
			} else if tokens != nil {
				res.Tokens = tokens
			}
		}
	}

	if a.oracle != nil && res.Balance != nil && res.Balance.Sign() > 0 {
		if price, ok := a.oracle.SpotPriceUSD(ctx, res.Symbol); ok {
			value, verr := utils.CalculateValueUSD(res.Balance, res.Decimals, price)
			if verr == nil {
				res.PriceUSD = price
				res.USDValue = value
				res.Priced = true
			}
		}
	}
	return res, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, entity.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"seed_checker/internal/app/port"
	"seed_checker/internal/pkg/metrics"
)

const (
	defaultPriceCacheTTL     = 5 * time.Minute
	defaultPriceFetchTimeout = 10 * time.Second
)

// PriceOracle resolves native symbols to USD spot prices through a PriceFeed.
// Prices are cached per symbol; concurrent lookups of one symbol share a single request.
type PriceOracle struct {
	feed    port.PriceFeed
	ids     map[string]string // symbol -> provider id
	cache   *cache.Cache
	group   singleflight.Group
	timeout time.Duration // bounds one shared fetch
	logger  port.Logger
	metrics *metrics.Metrics
}

// NewPriceOracle creates a PriceOracle. ids maps native symbols (e.g. "ETH") to feed ids (e.g. "ethereum").
func NewPriceOracle(feed port.PriceFeed, ids map[string]string, ttl time.Duration, logger port.Logger, m *metrics.Metrics) *PriceOracle {
	if ttl <= 0 {
		ttl = defaultPriceCacheTTL
	}
	normalized := make(map[string]string, len(ids))
	for sym, id := range ids {
		normalized[strings.ToUpper(sym)] = id
	}
	return &PriceOracle{
		feed:    feed,
		ids:     normalized,
		cache:   cache.New(ttl, 2*ttl),
		timeout: defaultPriceFetchTimeout,
		logger:  logger,
		metrics: m,
	}
}

// SpotPriceUSD implements port.PriceOracle. It never fails: ok is false when no price is known.
func (o *PriceOracle) SpotPriceUSD(ctx context.Context, symbol string) (float64, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if cached, found := o.cache.Get(sym); found {
		o.metrics.RecordPriceLookup(metrics.PriceCacheHit)
		return cached.(float64), true
	}

	id, known := o.ids[sym]
	if !known {
		o.metrics.RecordPriceLookup(metrics.PriceUnknown)
		return 0, false
	}

	v, err, _ := o.group.Do(sym, func() (interface{}, error) {
		// The fetch is shared by every waiter, so one caller's cancellation must not fail the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
		defer cancel()
		prices, err := o.feed.SimplePriceUSD(fetchCtx, []string{id})
		if err != nil {
			return nil, err
		}
		price, ok := prices[id]
		if !ok {
			return nil, fmt.Errorf("no USD quote for %s (%s)", sym, id)
		}
		o.cache.SetDefault(sym, price)
		return price, nil
	})
	if err != nil {
		o.metrics.RecordPriceLookup(metrics.PriceFailed)
		o.logger.Debug("Price lookup failed", "symbol", sym, "error", err)
		return 0, false
	}
	o.metrics.RecordPriceLookup(metrics.PriceFetched)
	return v.(float64), true
}

// Warm fetches every known price in one request and fills the cache.
func (o *PriceOracle) Warm(ctx context.Context) error {
	if len(o.ids) == 0 {
		return nil
	}
	bySymbol := make(map[string][]string, len(o.ids))
	ids := make([]string, 0, len(o.ids))
	for sym, id := range o.ids {
		if _, seen := bySymbol[id]; !seen {
			ids = append(ids, id)
		}
		bySymbol[id] = append(bySymbol[id], sym)
	}

	prices, err := o.feed.SimplePriceUSD(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to warm price cache: %w", err)
	}
	for id, price := range prices {
		for _, sym := range bySymbol[id] {
			o.cache.SetDefault(sym, price)
		}
	}
	o.logger.Info("Price cache warmed", "requested", len(ids), "received", len(prices))
	return nil
}

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seed_checker/internal/pkg/logger"
	"seed_checker/internal/pkg/metrics"
)

type fakeFeed struct {
	mu     sync.Mutex
	prices map[string]float64
	err    error
	delay  time.Duration
	calls  atomic.Int32
	asked  [][]string
}

func (f *fakeFeed) SimplePriceUSD(ctx context.Context, ids []string) (map[string]float64, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.asked = append(f.asked, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]float64)
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestPriceOracle_CacheHit(t *testing.T) {
	feed := &fakeFeed{prices: map[string]float64{"ethereum": 3000}}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	o := NewPriceOracle(feed, map[string]string{"eth": "ethereum"}, time.Minute, logger.Discard(), m)

	p, ok := o.SpotPriceUSD(context.Background(), "ETH")
	require.True(t, ok)
	assert.Equal(t, 3000.0, p)

	p, ok = o.SpotPriceUSD(context.Background(), "eth")
	require.True(t, ok)
	assert.Equal(t, 3000.0, p)

	assert.Equal(t, int32(1), feed.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceLookups.WithLabelValues(metrics.PriceCacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceLookups.WithLabelValues(metrics.PriceFetched)))
}

func TestPriceOracle_Failures(t *testing.T) {
	feed := &fakeFeed{err: errors.New("rate limited")}
	o := NewPriceOracle(feed, map[string]string{"BTC": "bitcoin", "XYZ": "xyz"}, time.Minute, logger.Discard(), nil)

	p, ok := o.SpotPriceUSD(context.Background(), "BTC")
	assert.False(t, ok)
	assert.Zero(t, p)

	_, ok = o.SpotPriceUSD(context.Background(), "DOGE")
	assert.False(t, ok)
	assert.Equal(t, int32(1), feed.calls.Load(), "unknown symbols never reach the feed")

	feed.err = nil
	_, ok = o.SpotPriceUSD(context.Background(), "XYZ")
	assert.False(t, ok, "feed answered without a quote")
}

func TestPriceOracle_ConcurrentLookupsShareRequest(t *testing.T) {
	feed := &fakeFeed{prices: map[string]float64{"ethereum": 2500}, delay: 50 * time.Millisecond}
	o := NewPriceOracle(feed, map[string]string{"ETH": "ethereum"}, time.Minute, logger.Discard(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, ok := o.SpotPriceUSD(context.Background(), "ETH")
			assert.True(t, ok)
			assert.Equal(t, 2500.0, p)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, feed.calls.Load(), int32(2))
}

func TestPriceOracle_Warm(t *testing.T) {
	feed := &fakeFeed{prices: map[string]float64{"ethereum": 3000, "bitcoin": 60000}}
	o := NewPriceOracle(feed, map[string]string{"ETH": "ethereum", "BTC": "bitcoin"}, time.Minute, logger.Discard(), nil)

	require.NoError(t, o.Warm(context.Background()))
	require.Len(t, feed.asked, 1)
	assert.ElementsMatch(t, []string{"ethereum", "bitcoin"}, feed.asked[0])

	p, ok := o.SpotPriceUSD(context.Background(), "BTC")
	assert.True(t, ok)
	assert.Equal(t, 60000.0, p)
	assert.Equal(t, int32(1), feed.calls.Load())
}

func TestPriceOracle_SharedFetchSurvivesCallerCancel(t *testing.T) {
	feed := &fakeFeed{prices: map[string]float64{"solana": 150}, delay: 100 * time.Millisecond}
	o := NewPriceOracle(feed, map[string]string{"SOL": "solana"}, time.Minute, logger.Discard(), nil)

	// The first caller gives up while the fetch is still in flight.
	abandoned, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.SpotPriceUSD(abandoned, "SOL")
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	p, ok := o.SpotPriceUSD(context.Background(), "SOL")
	wg.Wait()

	require.True(t, ok)
	assert.Equal(t, 150.0, p)
	assert.Equal(t, int32(1), feed.calls.Load())
}

package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"seed_checker/internal/app/port"
)

// DefaultCoinGeckoBaseURL is the public CoinGecko API.
const DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

type coinGeckoClient struct {
	http    *Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a port.PriceFeed backed by CoinGecko's simple/price endpoint.
// apiKey is optional and sent as x-cg-demo-api-key.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) port.PriceFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = DefaultCoinGeckoBaseURL
	}
	return &coinGeckoClient{
		http:    New(timeout, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// SimplePriceUSD implements port.PriceFeed.
func (c *coinGeckoClient) SimplePriceUSD(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	q := url.Values{}
	q.Set("ids", strings.Join(sorted, ","))
	q.Set("vs_currencies", "usd")
	requestURL := c.baseURL + "/simple/price?" + q.Encode()

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"x-cg-demo-api-key": c.apiKey}
	}

	var raw map[string]map[string]float64
	if err := c.http.GetJSON(ctx, requestURL, headers, &raw); err != nil {
		c.logger.Warn("CoinGecko price request failed", zap.Strings("ids", sorted), zap.Error(err))
		return nil, fmt.Errorf("coingecko simple price: %w", err)
	}

	prices := make(map[string]float64, len(raw))
	for id, quote := range raw {
		if usd, ok := quote["usd"]; ok {
			prices[id] = usd
		}
	}
	c.logger.Debug("Fetched prices from CoinGecko", zap.Int("requested", len(sorted)), zap.Int("received", len(prices)))
	return prices, nil
}

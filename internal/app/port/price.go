package port

import "context"

// PriceOracle converts native symbols to a USD spot price. Best-effort:
// ok is false when no price is available, and callers treat that as zero.
type PriceOracle interface {
	SpotPriceUSD(ctx context.Context, symbol string) (price float64, ok bool)
}

// PriceFeed fetches USD prices by provider coin id (e.g. "bitcoin", "ethereum").
// Ids the provider does not know are absent from the result.
type PriceFeed interface {
	SimplePriceUSD(ctx context.Context, ids []string) (map[string]float64, error)
}

package entity

import "math/big"

// BalanceResult is one chain's native balance for an address, in a uniform shape.
type BalanceResult struct {
	Chain            string         `json:"-"`
	Address          string         `json:"address"`
	Symbol           string         `json:"symbol"`
	Decimals         uint8          `json:"decimals"`
	Balance          *big.Int       `json:"balance"` // smallest unit, never negative
	FormattedBalance string         `json:"balance_formatted"`
	PriceUSD         float64        `json:"price_usd"`
	USDValue         float64        `json:"usd_value"`
	Priced           bool           `json:"priced"`
	Tokens           []TokenBalance `json:"tokens"`
}

// HasFunds reports whether the native balance or any token balance is above zero.
func (r BalanceResult) HasFunds() bool {
	if r.Balance != nil && r.Balance.Sign() > 0 {
		return true
	}
	for _, t := range r.Tokens {
		if t.Balance != nil && t.Balance.Sign() > 0 {
			return true
		}
	}
	return false
}

// TokenBalance is a non-native token held by an address.
type TokenBalance struct {
	Contract         string   `json:"contract"`
	Symbol           string   `json:"symbol"`
	Decimals         uint8    `json:"decimals"`
	Balance          *big.Int `json:"balance"`
	FormattedBalance string   `json:"balance_formatted"`
}

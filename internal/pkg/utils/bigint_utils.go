package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatBigInt converts a smallest-unit amount to a human-readable decimal string,
// considering the given number of decimals. The conversion is exact.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil {
		return "0", nil
	}
	if amount.Sign() < 0 {
		return "", fmt.Errorf("negative amount %s", amount.String())
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String(), nil
}

// CalculateValueUSD returns amount / 10^decimals * priceUSD.
// Only the final product is converted to float64.
func CalculateValueUSD(amount *big.Int, decimals uint8, priceUSD float64) (float64, error) {
	if amount == nil || amount.Sign() == 0 || priceUSD <= 0 {
		return 0, nil
	}
	if amount.Sign() < 0 {
		return 0, fmt.Errorf("negative amount %s", amount.String())
	}
	value := decimal.NewFromBigInt(amount, -int32(decimals)).Mul(decimal.NewFromFloat(priceUSD))
	f, _ := value.Float64()
	return f, nil
}

// ParseBigInt parses a base-10 unsigned integer as sent by explorer APIs.
func ParseBigInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative balance %q", s)
	}
	return v, nil
}

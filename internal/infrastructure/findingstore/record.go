package findingstore

import (
	"math/big"
	"time"

	"seed_checker/internal/domain/entity"
)

// Record is the persisted and served shape of a finding.
type Record struct {
	Seed      string                  `json:"seed"`
	Wallets   map[string]WalletRecord `json:"wallets"`
	Timestamp string                  `json:"timestamp"`
}

// WalletRecord is one chain's entry in a Record.
type WalletRecord struct {
	Address string                `json:"address"`
	Native  NativeRecord          `json:"native"`
	Tokens  []entity.TokenBalance `json:"tokens"`
}

// NativeRecord is the native balance of a WalletRecord.
type NativeRecord struct {
	Symbol           string   `json:"symbol"`
	Balance          *big.Int `json:"balance"`
	BalanceFormatted string   `json:"balance_formatted"`
	USDValue         float64  `json:"usd_value"`
}

// NewRecord converts a finding. The timestamp is RFC 3339 in UTC.
func NewRecord(f entity.WalletFinding) Record {
	wallets := make(map[string]WalletRecord, len(f.Wallets))
	for chain, r := range f.Wallets {
		tokens := r.Tokens
		if tokens == nil {
			tokens = []entity.TokenBalance{}
		}
		balance := r.Balance
		if balance == nil {
			balance = new(big.Int)
		}
		wallets[chain] = WalletRecord{
			Address: r.Address,
			Native: NativeRecord{
				Symbol:           r.Symbol,
				Balance:          balance,
				BalanceFormatted: r.FormattedBalance,
				USDValue:         r.USDValue,
			},
			Tokens: tokens,
		}
	}
	return Record{
		Seed:      f.Seed,
		Wallets:   wallets,
		Timestamp: f.Timestamp.UTC().Format(time.RFC3339),
	}
}

package entity

import "time"

// WalletFinding is a mnemonic whose derived addresses hold funds on at least one chain.
type WalletFinding struct {
	Seed      string
	Wallets   map[string]BalanceResult
	Timestamp time.Time
}

// NewWalletFinding returns a finding when at least one result holds funds.
// The results map is copied.
func NewWalletFinding(m Mnemonic, results map[string]BalanceResult, at time.Time) (WalletFinding, bool) {
	funded := false
	wallets := make(map[string]BalanceResult, len(results))
	for chain, r := range results {
		wallets[chain] = r
		if r.HasFunds() {
			funded = true
		}
	}
	if !funded {
		return WalletFinding{}, false
	}
	return WalletFinding{Seed: m.String(), Wallets: wallets, Timestamp: at}, true
}

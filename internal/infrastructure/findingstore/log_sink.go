package findingstore

import (
	"context"
	"sort"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
)

// LogSink reports findings through the application logger. The seed is never logged.
type LogSink struct {
	logger port.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger port.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Save implements port.FindingSink.
func (s *LogSink) Save(_ context.Context, f entity.WalletFinding) error {
	chains := make([]string, 0, len(f.Wallets))
	for chain := range f.Wallets {
		chains = append(chains, chain)
	}
	sort.Strings(chains)

	for _, chain := range chains {
		r := f.Wallets[chain]
		if !r.HasFunds() {
			continue
		}
		s.logger.Warn("Funded wallet",
			"chain", chain,
			"address", r.Address,
			"balance", r.FormattedBalance+" "+r.Symbol,
			"usd_value", r.USDValue,
			"tokens", len(r.Tokens),
		)
	}
	return nil
}

package port

import (
	"context"

	"seed_checker/internal/domain/entity"
)

// AddressDeriver maps a mnemonic to one address per chain identifier.
// No derivation path is assumed; implementations are supplied by the caller.
type AddressDeriver interface {
	Derive(ctx context.Context, m entity.Mnemonic) (map[string]string, error)
}

// BalanceAggregator queries every configured chain for its address.
// The result holds only chains that answered without error.
type BalanceAggregator interface {
	CheckAll(ctx context.Context, addressByChain map[string]string) map[string]entity.BalanceResult
}

// FindingSink receives wallet findings (persistence, display).
type FindingSink interface {
	Save(ctx context.Context, f entity.WalletFinding) error
}

package port

import (
	"context"

	"seed_checker/internal/domain/entity"
)

// ChainClient defines the balance-query protocol of one blockchain.
// Implementations are selected by chain family (bitcoin, etherscan, solana).
type ChainClient interface {
	// NativeBalance fetches the base-currency balance of address.
	// Failures wrap entity.ErrNotFound or entity.ErrTransient.
	NativeBalance(ctx context.Context, address string) (entity.BalanceResult, error)

	// TokenBalances fetches non-zero token balances. Chains without token support return an empty slice.
	TokenBalances(ctx context.Context, address string) ([]entity.TokenBalance, error)

	// Definition returns the chain definition associated with this client.
	Definition() entity.ChainDefinition
}

// ChainClientProvider builds and caches chain clients.
type ChainClientProvider interface {
	GetClient(def entity.ChainDefinition) (ChainClient, error)
}

// ChainDefinitionProvider exposes the configured chain table.
type ChainDefinitionProvider interface {
	GetAllChainDefinitions() []entity.ChainDefinition
	GetChainDefinition(identifier string) (entity.ChainDefinition, bool)
}

package service

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"seed_checker/internal/domain/entity"
)

type fakeChainClient struct {
	def       entity.ChainDefinition
	balance   *big.Int
	err       error
	tokens    []entity.TokenBalance
	tokenErr  error
	delay     time.Duration
	panicMsg  string
	calls     atomic.Int32
	lastCtxOK atomic.Bool
}

func newFakeChain(id, symbol string, decimals uint8, balance int64) *fakeChainClient {
	return &fakeChainClient{
		def:     entity.ChainDefinition{Identifier: id, NativeSymbol: symbol, Decimals: decimals},
		balance: big.NewInt(balance),
	}
}

func (f *fakeChainClient) NativeBalance(ctx context.Context, address string) (entity.BalanceResult, error) {
	f.calls.Add(1)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return entity.BalanceResult{}, ctx.Err()
		}
	}
	f.lastCtxOK.Store(ctx.Err() == nil)
	if f.err != nil {
		return entity.BalanceResult{}, f.err
	}
	return entity.BalanceResult{
		Chain:            f.def.Identifier,
		Address:          address,
		Symbol:           f.def.NativeSymbol,
		Decimals:         f.def.Decimals,
		Balance:          new(big.Int).Set(f.balance),
		FormattedBalance: f.balance.String(),
	}, nil
}

func (f *fakeChainClient) TokenBalances(context.Context, string) ([]entity.TokenBalance, error) {
	return f.tokens, f.tokenErr
}

func (f *fakeChainClient) Definition() entity.ChainDefinition { return f.def }

type fakeOracle struct {
	prices map[string]float64
	calls  atomic.Int32
}

func (o *fakeOracle) SpotPriceUSD(_ context.Context, symbol string) (float64, bool) {
	o.calls.Add(1)
	p, ok := o.prices[symbol]
	return p, ok
}

type memorySink struct {
	mu       sync.Mutex
	findings []entity.WalletFinding
	err      error
}

func (s *memorySink) Save(_ context.Context, f entity.WalletFinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings = append(s.findings, f)
	return s.err
}

func (s *memorySink) all() []entity.WalletFinding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.WalletFinding(nil), s.findings...)
}

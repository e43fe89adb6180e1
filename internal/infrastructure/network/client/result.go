package client

import (
	"fmt"
	"math/big"

	"seed_checker/internal/domain/entity"
	"seed_checker/internal/pkg/utils"
)

func newBalanceResult(def entity.ChainDefinition, address string, raw *big.Int) (entity.BalanceResult, error) {
	if raw == nil {
		raw = new(big.Int)
	}
	formatted, err := utils.FormatBigInt(raw, def.Decimals)
	if err != nil {
		return entity.BalanceResult{}, fmt.Errorf("%w: failed to format %s balance: %v", entity.ErrTransient, def.Identifier, err)
	}
	return entity.BalanceResult{
		Chain:            def.Identifier,
		Address:          address,
		Symbol:           def.NativeSymbol,
		Decimals:         def.Decimals,
		Balance:          raw,
		FormattedBalance: formatted,
		Tokens:           []entity.TokenBalance{},
	}, nil
}

func newTokenBalance(token entity.TokenInfo, raw *big.Int) (entity.TokenBalance, error) {
	formatted, err := utils.FormatBigInt(raw, token.Decimals)
	if err != nil {
		return entity.TokenBalance{}, err
	}
	return entity.TokenBalance{
		Contract:         token.Contract,
		Symbol:           token.Symbol,
		Decimals:         token.Decimals,
		Balance:          raw,
		FormattedBalance: formatted,
	}, nil
}

func parseAmount(s string) (*big.Int, error) {
	v, err := utils.ParseBigInt(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrTransient, err)
	}
	return v, nil
}

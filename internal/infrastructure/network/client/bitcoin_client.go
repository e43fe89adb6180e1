package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/infrastructure/httpclient"
)

// BitcoinClient queries a blockchain.info style rawaddr endpoint with a blockchair dashboard backup.
type BitcoinClient struct {
	def    entity.ChainDefinition
	http   *httpclient.Client
	logger *zap.Logger
}

type rawAddrResponse struct {
	FinalBalance *jsoniter.Number `json:"final_balance"`
}

type blockchairResponse struct {
	Data map[string]struct {
		Address struct {
			Balance jsoniter.Number `json:"balance"`
		} `json:"address"`
	} `json:"data"`
}

// NewBitcoinClient creates a client for a bitcoin-family chain.
func NewBitcoinClient(def entity.ChainDefinition, http *httpclient.Client, logger *zap.Logger) (port.ChainClient, error) {
	if def.URL == "" {
		return nil, fmt.Errorf("chain %s: url is required", def.Identifier)
	}
	return &BitcoinClient{
		def:    def,
		http:   http,
		logger: logger.Named("BitcoinClient").With(zap.String("chain", def.Identifier)),
	}, nil
}

// NativeBalance implements port.ChainClient.
func (c *BitcoinClient) NativeBalance(ctx context.Context, address string) (entity.BalanceResult, error) {
	address = strings.TrimSpace(address)
	if address == "" || strings.ContainsAny(address, "/?#& ") {
		return entity.BalanceResult{}, malformedAddress(c.def.Identifier, address, nil)
	}

	var backup func() (*big.Int, error)
	if c.def.BackupURL != "" {
		backup = func() (*big.Int, error) { return c.fromBlockchair(ctx, address) }
	}
	raw, err := withFallback(func() (*big.Int, error) { return c.fromRawAddr(ctx, address) }, backup)
	if err != nil {
		return entity.BalanceResult{}, err
	}
	return newBalanceResult(c.def, address, raw)
}

func (c *BitcoinClient) fromRawAddr(ctx context.Context, address string) (*big.Int, error) {
	var resp rawAddrResponse
	if err := c.http.GetJSON(ctx, expandURL(c.def.URL, address), nil, &resp); err != nil {
		return nil, err
	}
	if resp.FinalBalance == nil {
		return nil, fmt.Errorf("%w: final_balance missing in response", entity.ErrTransient)
	}
	return parseAmount(resp.FinalBalance.String())
}

func (c *BitcoinClient) fromBlockchair(ctx context.Context, address string) (*big.Int, error) {
	c.logger.Debug("Using backup endpoint", zap.String("address", address))
	var resp blockchairResponse
	if err := c.http.GetJSON(ctx, expandURL(c.def.BackupURL, address), nil, &resp); err != nil {
		return nil, err
	}
	entry, ok := resp.Data[address]
	if !ok {
		return nil, fmt.Errorf("%w: address missing in backup response", entity.ErrNotFound)
	}
	if entry.Address.Balance == "" {
		return new(big.Int), nil
	}
	return parseAmount(entry.Address.Balance.String())
}

// TokenBalances implements port.ChainClient. Bitcoin has no tokens.
func (c *BitcoinClient) TokenBalances(context.Context, string) ([]entity.TokenBalance, error) {
	return []entity.TokenBalance{}, nil
}

// Definition implements port.ChainClient.
func (c *BitcoinClient) Definition() entity.ChainDefinition { return c.def }

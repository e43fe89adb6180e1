package client

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/infrastructure/httpclient"
)

// EtherscanClient queries an etherscan-compatible explorer API, falling back to an EVM JSON-RPC node.
type EtherscanClient struct {
	def    entity.ChainDefinition
	http   *httpclient.Client
	rpc    *evmRPC
	logger *zap.Logger
}

type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// NewEtherscanClient creates a client for an etherscan-family chain.
func NewEtherscanClient(def entity.ChainDefinition, http *httpclient.Client, logger *zap.Logger) (port.ChainClient, error) {
	if def.URL == "" {
		return nil, fmt.Errorf("chain %s: url is required", def.Identifier)
	}
	c := &EtherscanClient{
		def:    def,
		http:   http,
		logger: logger.Named("EtherscanClient").With(zap.String("chain", def.Identifier)),
	}
	if def.BackupURL != "" {
		r, err := dialEVM(def.BackupURL)
		if err != nil {
			return nil, err
		}
		c.rpc = r
	}
	return c, nil
}

// NativeBalance implements port.ChainClient.
func (c *EtherscanClient) NativeBalance(ctx context.Context, address string) (entity.BalanceResult, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return entity.BalanceResult{}, malformedAddress(c.def.Identifier, address, nil)
	}

	var backup func() (*big.Int, error)
	if c.rpc != nil {
		backup = func() (*big.Int, error) {
			c.logger.Debug("Using backup RPC", zap.String("address", address))
			return c.rpc.nativeBalance(ctx, address)
		}
	}
	raw, err := withFallback(func() (*big.Int, error) {
		return c.query(ctx, url.Values{
			"module":  {"account"},
			"action":  {"balance"},
			"address": {address},
			"tag":     {"latest"},
		})
	}, backup)
	if err != nil {
		return entity.BalanceResult{}, err
	}
	return newBalanceResult(c.def, address, raw)
}

// TokenBalances implements port.ChainClient for the configured token list.
// Zero balances are dropped and tokens that fail on both endpoints are skipped.
func (c *EtherscanClient) TokenBalances(ctx context.Context, address string) ([]entity.TokenBalance, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return nil, malformedAddress(c.def.Identifier, address, nil)
	}

	balances := make([]*big.Int, len(c.def.Tokens))
	var retry []int
	for i, token := range c.def.Tokens {
		if err := ctx.Err(); err != nil {
			return nil, classify(err)
		}
		raw, err := c.query(ctx, url.Values{
			"module":          {"account"},
			"action":          {"tokenbalance"},
			"contractaddress": {token.Contract},
			"address":         {address},
			"tag":             {"latest"},
		})
		if err != nil {
			c.logger.Debug("Token balance query failed", zap.String("token", token.Symbol), zap.Error(err))
			retry = append(retry, i)
			continue
		}
		balances[i] = raw
	}

	if len(retry) > 0 && c.rpc != nil {
		tokens := make([]entity.TokenInfo, len(retry))
		for j, i := range retry {
			tokens[j] = c.def.Tokens[i]
		}
		backupBalances, errs, err := c.rpc.tokenBalances(ctx, address, tokens)
		if err != nil {
			c.logger.Debug("Token balance backup batch failed", zap.Int("tokens", len(tokens)), zap.Error(err))
		} else {
			for j, i := range retry {
				if errs[j] != nil {
					c.logger.Debug("Token balance backup failed", zap.String("token", tokens[j].Symbol), zap.Error(errs[j]))
					continue
				}
				balances[i] = backupBalances[j]
			}
		}
	}

	out := make([]entity.TokenBalance, 0, len(c.def.Tokens))
	for i, token := range c.def.Tokens {
		if balances[i] == nil || balances[i].Sign() <= 0 {
			continue
		}
		tb, err := newTokenBalance(token, balances[i])
		if err != nil {
			c.logger.Debug("Failed to format token balance", zap.String("token", token.Symbol), zap.Error(err))
			continue
		}
		out = append(out, tb)
	}
	return out, nil
}

func (c *EtherscanClient) query(ctx context.Context, params url.Values) (*big.Int, error) {
	if c.def.AuthKey != "" {
		params.Set("apikey", c.def.AuthKey)
	}
	sep := "?"
	if strings.Contains(c.def.URL, "?") {
		sep = "&"
	}

	var resp etherscanResponse
	if err := c.http.GetJSON(ctx, c.def.URL+sep+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "1" {
		if strings.Contains(strings.ToLower(resp.Result), "invalid address") {
			return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, resp.Result)
		}
		return nil, fmt.Errorf("%w: explorer returned status %q: %s %s", entity.ErrTransient, resp.Status, resp.Message, resp.Result)
	}
	return parseAmount(resp.Result)
}

// Definition implements port.ChainClient.
func (c *EtherscanClient) Definition() entity.ChainDefinition { return c.def }

// Close releases the backup RPC client.
func (c *EtherscanClient) Close() {
	if c.rpc != nil {
		c.rpc.close()
	}
}

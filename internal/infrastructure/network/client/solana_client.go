package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/infrastructure/httpclient"
)

// SolanaClient queries solscan with bearer auth and falls back to a Solana JSON-RPC node.
type SolanaClient struct {
	def       entity.ChainDefinition
	http      *httpclient.Client
	rpcClient *solanarpc.Client
	logger    *zap.Logger
}

// solscan has returned lamports both at the top level and under data.
type solscanAccountResponse struct {
	Success  *bool               `json:"success"`
	Errors   jsoniter.RawMessage `json:"errors"`
	Lamports *jsoniter.Number    `json:"lamports"`
	Data     *struct {
		Lamports *jsoniter.Number `json:"lamports"`
	} `json:"data"`
}

func (r solscanAccountResponse) failed() bool {
	if r.Success != nil && !*r.Success {
		return true
	}
	errs := strings.TrimSpace(string(r.Errors))
	return errs != "" && errs != "null" && errs != "{}" && errs != "[]"
}

// NewSolanaClient creates a client for a solana-family chain.
func NewSolanaClient(def entity.ChainDefinition, http *httpclient.Client, logger *zap.Logger) (port.ChainClient, error) {
	if def.URL == "" {
		return nil, fmt.Errorf("chain %s: url is required", def.Identifier)
	}
	c := &SolanaClient{
		def:    def,
		http:   http,
		logger: logger.Named("SolanaClient").With(zap.String("chain", def.Identifier)),
	}
	if def.BackupURL != "" {
		c.rpcClient = solanarpc.New(def.BackupURL)
	}
	return c, nil
}

// NativeBalance implements port.ChainClient.
func (c *SolanaClient) NativeBalance(ctx context.Context, address string) (entity.BalanceResult, error) {
	address = strings.TrimSpace(address)
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return entity.BalanceResult{}, malformedAddress(c.def.Identifier, address, err)
	}

	var backup func() (*big.Int, error)
	if c.rpcClient != nil {
		backup = func() (*big.Int, error) { return c.fromRPC(ctx, pubkey) }
	}
	raw, err := withFallback(func() (*big.Int, error) { return c.fromSolscan(ctx, address) }, backup)
	if err != nil {
		return entity.BalanceResult{}, err
	}
	return newBalanceResult(c.def, address, raw)
}

func (c *SolanaClient) fromSolscan(ctx context.Context, address string) (*big.Int, error) {
	var headers map[string]string
	if c.def.AuthKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.def.AuthKey}
	}
	var resp solscanAccountResponse
	if err := c.http.GetJSON(ctx, expandURL(c.def.URL, address), headers, &resp); err != nil {
		return nil, err
	}
	switch {
	case resp.failed():
		return nil, fmt.Errorf("%w: solscan rejected request: %s", entity.ErrTransient, strings.TrimSpace(string(resp.Errors)))
	case resp.Lamports != nil:
		return parseAmount(resp.Lamports.String())
	case resp.Data != nil && resp.Data.Lamports != nil:
		return parseAmount(resp.Data.Lamports.String())
	case resp.Success != nil:
		// Unfunded accounts come back as success without lamports.
		return new(big.Int), nil
	default:
		return nil, fmt.Errorf("%w: solscan response has neither lamports nor success flag", entity.ErrTransient)
	}
}

func (c *SolanaClient) fromRPC(ctx context.Context, pubkey solana.PublicKey) (*big.Int, error) {
	c.logger.Debug("Using backup RPC", zap.String("address", pubkey.String()))
	out, err := c.rpcClient.GetBalance(ctx, pubkey, solanarpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("getBalance failed: %w", err)
	}
	return new(big.Int).SetUint64(out.Value), nil
}

// TokenBalances implements port.ChainClient. SPL tokens are not tracked.
func (c *SolanaClient) TokenBalances(context.Context, string) ([]entity.TokenBalance, error) {
	return []entity.TokenBalance{}, nil
}

// Definition implements port.ChainClient.
func (c *SolanaClient) Definition() entity.ChainDefinition { return c.def }

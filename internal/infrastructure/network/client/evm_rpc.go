package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"seed_checker/internal/domain/entity"
)

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
	erc20MethodID   []byte
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		balanceOfMethod, ok := parsedERC20ABI.Methods["balanceOf"]
		if !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
		erc20MethodID = balanceOfMethod.ID
	})
}

// evmRPC is the JSON-RPC node used as the backup for etherscan-family chains.
type evmRPC struct {
	ethClient *ethclient.Client
}

func dialEVM(url string) (*evmRPC, error) {
	initParsedERC20ABI()
	// HTTP transports connect lazily, so this does no network I/O.
	c, err := ethclient.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client for %s: %w", url, err)
	}
	return &evmRPC{ethClient: c}, nil
}

func (r *evmRPC) nativeBalance(ctx context.Context, address string) (*big.Int, error) {
	balance, err := r.ethClient.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance failed: %w", err)
	}
	return balance, nil
}

// tokenBalances fetches balanceOf for every token in one batch.
// errs[i] is set when the i-th call failed; err is set when the whole batch failed.
func (r *evmRPC) tokenBalances(ctx context.Context, address string, tokens []entity.TokenInfo) (balances []*big.Int, errs []error, err error) {
	balances = make([]*big.Int, len(tokens))
	errs = make([]error, len(tokens))
	if len(tokens) == 0 {
		return balances, errs, nil
	}

	paddedWalletAddress := common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)
	callData := append(append([]byte(nil), erc20MethodID...), paddedWalletAddress...)

	batchElems := make([]rpc.BatchElem, len(tokens))
	for i, token := range tokens {
		callArgs := map[string]interface{}{
			"to":   common.HexToAddress(token.Contract),
			"data": hexutil.Bytes(callData),
		}
		batchElems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callArgs, "latest"},
			Result: new(hexutil.Bytes),
		}
	}

	if err := r.ethClient.Client().BatchCallContext(ctx, batchElems); err != nil {
		return nil, nil, fmt.Errorf("RPC batch call failed: %w", err)
	}

	for i, elem := range batchElems {
		if elem.Error != nil {
			errs[i] = fmt.Errorf("balanceOf %s: %w", tokens[i].Symbol, elem.Error)
			continue
		}
		result, ok := elem.Result.(*hexutil.Bytes)
		if !ok || result == nil || len(*result) == 0 {
			balances[i] = new(big.Int)
			continue
		}
		unpacked, err := parsedERC20ABI.Unpack("balanceOf", *result)
		if err != nil {
			errs[i] = fmt.Errorf("failed to unpack balanceOf result for %s: %w. Raw: %s", tokens[i].Symbol, err, hexutil.Encode(*result))
			continue
		}
		if len(unpacked) == 0 {
			errs[i] = fmt.Errorf("balanceOf unpack returned no data for %s", tokens[i].Symbol)
			continue
		}
		balance, ok := unpacked[0].(*big.Int)
		if !ok {
			errs[i] = fmt.Errorf("failed to assert unpacked balanceOf result to *big.Int for %s. Got: %T", tokens[i].Symbol, unpacked[0])
			continue
		}
		balances[i] = balance
	}
	return balances, errs, nil
}

func (r *evmRPC) close() {
	r.ethClient.Close()
}

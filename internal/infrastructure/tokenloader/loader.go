package tokenloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/pkg/utils"
)

const defaultTokenDirectoryPath = "data/tokens"

// TokenFileLoader loads per-chain token lists from <dir>/<CHAIN>.json files.
type TokenFileLoader struct {
	tokenDirPath string
	logger       port.Logger
}

// NewTokenLoader creates a new TokenFileLoader. An empty dir means data/tokens.
func NewTokenLoader(dir string, logger port.Logger) *TokenFileLoader {
	if dir == "" {
		dir = defaultTokenDirectoryPath
	}
	return &TokenFileLoader{tokenDirPath: dir, logger: logger}
}

// LoadTokens returns token lists keyed by upper-cased chain identifier (the file name without .json).
// A missing directory is not an error. Unreadable files and invalid entries are skipped.
func (l *TokenFileLoader) LoadTokens() (map[string][]entity.TokenInfo, error) {
	tokensByChain := make(map[string][]entity.TokenInfo)

	files, err := os.ReadDir(l.tokenDirPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Info("Token directory not found, no token lists loaded", "path", l.tokenDirPath)
			return tokensByChain, nil
		}
		return nil, fmt.Errorf("failed to read token directory %s: %w", l.tokenDirPath, err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}
		chain := strings.ToUpper(strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
		filePath := filepath.Join(l.tokenDirPath, file.Name())

		tokensInFile, err := utils.LoadTokensFromJSON(filePath)
		if err != nil {
			l.logger.Warn("Failed to load token file, skipping file.", "path", filePath, "error", err)
			continue
		}

		valid := make([]entity.TokenInfo, 0, len(tokensInFile))
		for _, token := range tokensInFile {
			if !common.IsHexAddress(token.Contract) || token.Symbol == "" {
				l.logger.Warn("Invalid token entry, skipping token.", "file", filePath, "token_symbol", token.Symbol, "token_contract", token.Contract)
				continue
			}
			valid = append(valid, token)
		}
		if len(valid) == 0 {
			continue
		}
		tokensByChain[chain] = append(tokensByChain[chain], valid...)
		l.logger.Info("Loaded token list", "chain", chain, "file", file.Name(), "count", len(valid))
	}
	return tokensByChain, nil
}

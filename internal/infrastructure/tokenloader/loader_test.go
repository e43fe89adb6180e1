package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seed_checker/internal/pkg/logger"
)

func TestTokenFileLoader_LoadTokens(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eth.json"), []byte(`[
		{"contract": "0xdAC17F958D2ee523a2206206994597C13D831ec7", "symbol": "USDT", "decimals": 6},
		{"contract": "not-an-address", "symbol": "BAD", "decimals": 6},
		{"contract": "0x6B175474E89094C44Da98b954EedeAC495271d0F", "symbol": "", "decimals": 18}
	]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BSC.json"), []byte(`{broken`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(`ignored`), 0o600))

	tokens, err := NewTokenLoader(dir, logger.Discard()).LoadTokens()
	require.NoError(t, err)

	require.Len(t, tokens, 1)
	require.Len(t, tokens["ETH"], 1)
	assert.Equal(t, "USDT", tokens["ETH"][0].Symbol)
	assert.Equal(t, uint8(6), tokens["ETH"][0].Decimals)
}

func TestTokenFileLoader_MissingDirectory(t *testing.T) {
	tokens, err := NewTokenLoader(filepath.Join(t.TempDir(), "absent"), logger.Discard()).LoadTokens()
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

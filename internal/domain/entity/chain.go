package entity

// ChainFamily selects the client implementation shared by several chains.
type ChainFamily string

const (
	FamilyBitcoin   ChainFamily = "bitcoin"
	FamilyEtherscan ChainFamily = "etherscan"
	FamilySolana    ChainFamily = "solana"
)

// ChainDefinition holds the static, read-only configuration of one supported chain.
type ChainDefinition struct {
	Identifier   string      `json:"identifier" yaml:"identifier"` // e.g. "BTC", "ETH", "SOLANA"
	Family       ChainFamily `json:"family" yaml:"family"`
	NativeSymbol string      `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals     uint8       `json:"decimals" yaml:"decimals"`
	URL          string      `json:"url" yaml:"url"`
	AuthKey      string      `json:"-" yaml:"authKey"`
	BackupURL    string      `json:"backupUrl,omitempty" yaml:"backupUrl"`
	PriceID      string      `json:"priceId,omitempty" yaml:"priceId"` // CoinGecko coin id
	Tokens       []TokenInfo `json:"tokens,omitempty" yaml:"tokens"`
	Disabled     bool        `json:"-" yaml:"disabled"`
}

// TokenInfo holds the details of a token tracked on a chain.
type TokenInfo struct {
	Contract string `json:"contract" yaml:"contract"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

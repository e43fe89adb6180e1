package networkdefinition

import "seed_checker/internal/domain/entity"

// Built-in chain definitions. API keys are never built in; they come from configuration.
var ( //nolint:gochecknoglobals // Global for definitions
	Bitcoin = entity.ChainDefinition{
		Identifier:   "BTC",
		Family:       entity.FamilyBitcoin,
		NativeSymbol: "BTC",
		Decimals:     8,
		URL:          "https://blockchain.info/rawaddr/{address}",
		BackupURL:    "https://api.blockchair.com/bitcoin/dashboards/address/{address}",
		PriceID:      "bitcoin",
	}
	Ethereum = entity.ChainDefinition{
		Identifier:   "ETH",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "ETH",
		Decimals:     18,
		URL:          "https://api.etherscan.io/api",
		BackupURL:    "https://ethereum-rpc.publicnode.com",
		PriceID:      "ethereum",
	}
	BSC = entity.ChainDefinition{
		Identifier:   "BSC",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "BNB",
		Decimals:     18,
		URL:          "https://api.bscscan.com/api",
		BackupURL:    "https://bsc-dataseed.binance.org/",
		PriceID:      "binancecoin",
	}
	Polygon = entity.ChainDefinition{
		Identifier:   "MATIC",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "MATIC",
		Decimals:     18,
		URL:          "https://api.polygonscan.com/api",
		BackupURL:    "https://polygon-rpc.com/",
		PriceID:      "matic-network",
	}
	Avalanche = entity.ChainDefinition{
		Identifier:   "AVAX",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "AVAX",
		Decimals:     18,
		URL:          "https://api.snowtrace.io/api",
		BackupURL:    "https://api.avax.network/ext/bc/C/rpc",
		PriceID:      "avalanche-2",
	}
	Fantom = entity.ChainDefinition{
		Identifier:   "FTM",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "FTM",
		Decimals:     18,
		URL:          "https://api.ftmscan.com/api",
		BackupURL:    "https://rpc.ftm.tools/",
		PriceID:      "fantom",
	}
	Arbitrum = entity.ChainDefinition{
		Identifier:   "ARBITRUM",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "ETH",
		Decimals:     18,
		URL:          "https://api.arbiscan.io/api",
		BackupURL:    "https://arb1.arbitrum.io/rpc",
		PriceID:      "ethereum",
	}
	Optimism = entity.ChainDefinition{
		Identifier:   "OPTIMISM",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "ETH",
		Decimals:     18,
		URL:          "https://api-optimistic.etherscan.io/api",
		BackupURL:    "https://mainnet.optimism.io",
		PriceID:      "ethereum",
	}
	Cronos = entity.ChainDefinition{
		Identifier:   "CRONOS",
		Family:       entity.FamilyEtherscan,
		NativeSymbol: "CRO",
		Decimals:     18,
		URL:          "https://api.cronoscan.com/api",
		BackupURL:    "https://evm.cronos.org",
		PriceID:      "crypto-com-chain",
	}
	Solana = entity.ChainDefinition{
		Identifier:   "SOLANA",
		Family:       entity.FamilySolana,
		NativeSymbol: "SOL",
		Decimals:     9,
		URL:          "https://api.solscan.io/account/{address}",
		BackupURL:    "https://api.mainnet-beta.solana.com",
		PriceID:      "solana",
	}
)

// builtinDefinitions keeps the table order stable for logs and the API.
var builtinDefinitions = []entity.ChainDefinition{
	Bitcoin, Ethereum, BSC, Polygon, Avalanche, Fantom, Arbitrum, Optimism, Cronos, Solana,
}

// Builtin returns a copy of the built-in table.
func Builtin() []entity.ChainDefinition {
	out := make([]entity.ChainDefinition, len(builtinDefinitions))
	copy(out, builtinDefinitions)
	return out
}

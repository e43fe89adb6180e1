package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
)

// ChainDefinitionProvider provides the merged, read-only chain table.
type ChainDefinitionProvider struct {
	logger port.Logger
	defs   []entity.ChainDefinition
	byID   map[string]entity.ChainDefinition
}

var knownFamilies = map[entity.ChainFamily]struct{}{
	entity.FamilyBitcoin:   {},
	entity.FamilyEtherscan: {},
	entity.FamilySolana:    {},
}

// NewChainDefinitionProvider merges overrides (keyed by identifier) onto the built-in table
// and appends token lists loaded from files. Overrides for unknown identifiers become new chains
// when they name a known family and a URL; otherwise they are skipped with a warning.
func NewChainDefinitionProvider(log port.Logger, overrides map[string]entity.ChainDefinition, tokensByChain map[string][]entity.TokenInfo) *ChainDefinitionProvider {
	p := &ChainDefinitionProvider{
		logger: log,
		byID:   make(map[string]entity.ChainDefinition),
	}

	order := make([]string, 0, len(builtinDefinitions)+len(overrides))
	for _, def := range builtinDefinitions {
		p.byID[def.Identifier] = def
		order = append(order, def.Identifier)
	}

	extra := make([]string, 0, len(overrides))
	for id := range overrides {
		extra = append(extra, id)
	}
	sort.Strings(extra)

	for _, rawID := range extra {
		id := strings.ToUpper(strings.TrimSpace(rawID))
		override := overrides[rawID]
		base, known := p.byID[id]
		if !known {
			if err := validateCustom(override); err != nil {
				p.logger.Warn("Skipping chain override", "chain", id, "error", err)
				continue
			}
			base = entity.ChainDefinition{Identifier: id}
			order = append(order, id)
		}
		p.byID[id] = merge(base, override)
	}

	for rawID, tokens := range tokensByChain {
		id := strings.ToUpper(rawID)
		def, ok := p.byID[id]
		if !ok {
			p.logger.Warn("Token list found for an unknown chain, skipping", "chain", id, "count", len(tokens))
			continue
		}
		if def.Family != entity.FamilyEtherscan {
			p.logger.Warn("Token list found for a chain without token support, skipping", "chain", id, "family", def.Family)
			continue
		}
		def.Tokens = append(append([]entity.TokenInfo(nil), def.Tokens...), tokens...)
		p.byID[id] = def
	}

	for _, id := range order {
		def := p.byID[id]
		if def.Disabled {
			p.logger.Info("Chain disabled by configuration", "chain", id)
			delete(p.byID, id)
			continue
		}
		p.defs = append(p.defs, def)
		p.logger.Debug(fmt.Sprintf("  - Active chain: %s (family: %s, symbol: %s, tokens: %d)", def.Identifier, def.Family, def.NativeSymbol, len(def.Tokens)))
	}
	p.logger.Info(fmt.Sprintf("ChainDefinitionProvider initialized. Active chains: %d", len(p.defs)))
	return p
}

func validateCustom(def entity.ChainDefinition) error {
	if _, ok := knownFamilies[def.Family]; !ok {
		return fmt.Errorf("%w: %q", entity.ErrUnknownChainFamily, def.Family)
	}
	if def.URL == "" {
		return fmt.Errorf("url is required for a custom chain")
	}
	if def.NativeSymbol == "" {
		return fmt.Errorf("nativeSymbol is required for a custom chain")
	}
	return nil
}

// merge copies the non-zero fields of o onto base. Tokens are appended.
func merge(base, o entity.ChainDefinition) entity.ChainDefinition {
	if o.Family != "" {
		base.Family = o.Family
	}
	if o.NativeSymbol != "" {
		base.NativeSymbol = o.NativeSymbol
	}
	if o.Decimals != 0 {
		base.Decimals = o.Decimals
	}
	if o.URL != "" {
		base.URL = o.URL
	}
	if o.AuthKey != "" {
		base.AuthKey = o.AuthKey
	}
	if o.BackupURL != "" {
		base.BackupURL = o.BackupURL
	}
	if o.PriceID != "" {
		base.PriceID = o.PriceID
	}
	if len(o.Tokens) > 0 {
		base.Tokens = append(append([]entity.TokenInfo(nil), base.Tokens...), o.Tokens...)
	}
	base.Disabled = o.Disabled
	return base
}

// GetAllChainDefinitions returns the active chain definitions in table order.
func (p *ChainDefinitionProvider) GetAllChainDefinitions() []entity.ChainDefinition {
	if p == nil {
		return []entity.ChainDefinition{}
	}
	defsCopy := make([]entity.ChainDefinition, len(p.defs))
	copy(defsCopy, p.defs)
	return defsCopy
}

// GetChainDefinition returns an active definition by identifier (case-insensitive).
func (p *ChainDefinitionProvider) GetChainDefinition(identifier string) (entity.ChainDefinition, bool) {
	if p == nil {
		return entity.ChainDefinition{}, false
	}
	def, ok := p.byID[strings.ToUpper(identifier)]
	return def, ok
}

// PriceIDs maps native symbols to price provider ids. The first chain wins for shared symbols.
func (p *ChainDefinitionProvider) PriceIDs() map[string]string {
	ids := make(map[string]string)
	for _, def := range p.GetAllChainDefinitions() {
		if def.PriceID == "" {
			continue
		}
		if _, seen := ids[def.NativeSymbol]; !seen {
			ids[def.NativeSymbol] = def.PriceID
		}
	}
	return ids
}

package client

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/infrastructure/httpclient"
)

// Constructor builds the client of one chain family.
type Constructor func(def entity.ChainDefinition, http *httpclient.Client, logger *zap.Logger) (port.ChainClient, error)

// registry maps chain families to constructors. Adding a family means adding one entry here.
var registry = map[entity.ChainFamily]Constructor{
	entity.FamilyBitcoin:   NewBitcoinClient,
	entity.FamilyEtherscan: NewEtherscanClient,
	entity.FamilySolana:    NewSolanaClient,
}

// chainClientProvider implements the port.ChainClientProvider interface.
type chainClientProvider struct {
	clients map[string]port.ChainClient
	mu      sync.Mutex
	http    *httpclient.Client
	zap     *zap.Logger
	logger  port.Logger
}

// NewChainClientProvider creates a provider whose clients share one HTTP client.
func NewChainClientProvider(requestTimeout time.Duration, zapLogger *zap.Logger, logger port.Logger) port.ChainClientProvider {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &chainClientProvider{
		clients: make(map[string]port.ChainClient),
		http:    httpclient.New(requestTimeout, zapLogger),
		zap:     zapLogger,
		logger:  logger,
	}
}

// GetClient returns the cached client for def, creating it on first use.
func (p *chainClientProvider) GetClient(def entity.ChainDefinition) (port.ChainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[def.Identifier]; exists {
		return client, nil
	}

	construct, ok := registry[def.Family]
	if !ok {
		return nil, fmt.Errorf("chain %s: %w %q", def.Identifier, entity.ErrUnknownChainFamily, def.Family)
	}

	p.logger.Debug("Creating new chain client", "chain", def.Identifier, "family", def.Family, "url", def.URL)
	newClient, err := construct(def, p.http, p.zap)
	if err != nil {
		p.logger.Error("Failed to create chain client", "chain", def.Identifier, "error", err)
		return nil, fmt.Errorf("failed to create client for %s: %w", def.Identifier, err)
	}

	p.clients[def.Identifier] = newClient
	return newClient, nil
}

// BuildClients creates a client for every definition. Chains whose client cannot be built are
// logged and left out.
func BuildClients(provider port.ChainClientProvider, defs []entity.ChainDefinition, logger port.Logger) map[string]port.ChainClient {
	clients := make(map[string]port.ChainClient, len(defs))
	for _, def := range defs {
		c, err := provider.GetClient(def)
		if err != nil {
			logger.Warn("Chain skipped", "chain", def.Identifier, "error", err)
			continue
		}
		clients[def.Identifier] = c
	}
	return clients
}

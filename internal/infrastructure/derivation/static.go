// Package derivation holds AddressDeriver implementations.
//
// No key derivation is performed here. StaticDeriver returns the same configured addresses for
// every mnemonic and exists so the search pipeline can run end to end against known addresses.
// A real BIP-32/44 deriver plugs in through port.AddressDeriver.
package derivation

import (
	"context"
	"strings"

	"seed_checker/internal/domain/entity"
)

// StaticDeriver maps every mnemonic to a fixed chain -> address table.
type StaticDeriver struct {
	addresses map[string]string
}

// NewStaticDeriver copies addresses, upper-casing chain identifiers and dropping blank entries.
func NewStaticDeriver(addresses map[string]string) *StaticDeriver {
	m := make(map[string]string, len(addresses))
	for chain, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		m[strings.ToUpper(chain)] = addr
	}
	return &StaticDeriver{addresses: m}
}

// Derive implements port.AddressDeriver.
func (d *StaticDeriver) Derive(context.Context, entity.Mnemonic) (map[string]string, error) {
	out := make(map[string]string, len(d.addresses))
	for k, v := range d.addresses {
		out[k] = v
	}
	return out, nil
}

// Len returns the number of configured addresses.
func (d *StaticDeriver) Len() int { return len(d.addresses) }

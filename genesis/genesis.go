// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package genesis defines the initial balance allocations of a payment
// network and their canonical JSON encoding.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"

	payvmjson "github.com/luxfi/payvm/utils/json"
)

var (
	errDuplicateAllocation = errors.New("duplicate genesis allocation")
	errEmptyAddress        = errors.New("empty genesis address")
)

// Allocation funds a single address at startup.
type Allocation struct {
	Address ids.ShortID
	Balance uint64
}

// Genesis is the initial state of the payment network.
type Genesis struct {
	Allocations []Allocation
}

type allocationJSON struct {
	Address string           `json:"address"`
	Balance payvmjson.Uint64 `json:"balance"`
}

type genesisJSON struct {
	Allocations []allocationJSON `json:"allocations"`
}

// Parse decodes and validates genesis bytes.
func Parse(bytes []byte) (*Genesis, error) {
	raw := genesisJSON{}
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse genesis: %w", err)
	}

	g := &Genesis{
		Allocations: make([]Allocation, 0, len(raw.Allocations)),
	}
	seen := set.NewSet[ids.ShortID](len(raw.Allocations))
	for _, alloc := range raw.Allocations {
		addr, err := ids.ShortFromString(alloc.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to parse genesis address %q: %w", alloc.Address, err)
		}
		if addr == ids.ShortEmpty {
			return nil, errEmptyAddress
		}
		if seen.Contains(addr) {
			return nil, fmt.Errorf("%w: %s", errDuplicateAllocation, addr)
		}
		seen.Add(addr)
		g.Allocations = append(g.Allocations, Allocation{
			Address: addr,
			Balance: uint64(alloc.Balance),
		})
	}
	return g, nil
}

// Bytes returns the canonical JSON encoding of the genesis.
func (g *Genesis) Bytes() ([]byte, error) {
	raw := genesisJSON{
		Allocations: make([]allocationJSON, 0, len(g.Allocations)),
	}
	for _, alloc := range g.Allocations {
		raw.Allocations = append(raw.Allocations, allocationJSON{
			Address: alloc.Address.String(),
			Balance: payvmjson.Uint64(alloc.Balance),
		})
	}
	return json.Marshal(raw)
}

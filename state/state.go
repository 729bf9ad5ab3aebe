// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state holds the per-address account records of a validator.
package state

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/genesis"
)

// NothingFinalized is the Finalized value of an account that has had no
// payment effect applied yet.
const NothingFinalized int64 = -1

// Account is the mutable record a validator keeps per address.
//
// Nonce only ever grows, Finalized only ever grows, and Finalized stays
// strictly below Nonce.
type Account struct {
	// Balance is the spendable amount.
	Balance uint64

	// Nonce is the next nonce this validator will vote for.
	Nonce uint64

	// Pending is set while a vote has been cast at Nonce but the nonce has
	// not advanced yet.
	Pending bool

	// Finalized is the highest nonce whose payment effect has been
	// applied, or NothingFinalized.
	Finalized int64
}

// Store owns every account of one validator. It is not internally
// synchronized; the engine serializes all access.
type Store struct {
	accounts map[ids.ShortID]*Account
}

// NewStore returns an empty account store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[ids.ShortID]*Account),
	}
}

// Get returns the account for the address, creating it with a zero balance
// on first reference.
func (s *Store) Get(addr ids.ShortID) *Account {
	acct, ok := s.accounts[addr]
	if !ok {
		acct = &Account{
			Finalized: NothingFinalized,
		}
		s.accounts[addr] = acct
	}
	return acct
}

// SeedGenesis funds the genesis allocations.
func (s *Store) SeedGenesis(g *genesis.Genesis) {
	for _, alloc := range g.Allocations {
		s.Get(alloc.Address).Balance = alloc.Balance
	}
}

// Len returns the number of referenced accounts.
func (s *Store) Len() int {
	return len(s.accounts)
}

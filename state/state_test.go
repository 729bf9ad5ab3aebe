// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/genesis"
)

func TestGetAutoCreates(t *testing.T) {
	require := require.New(t)

	s := NewStore()
	require.Zero(s.Len())

	acct := s.Get(ids.ShortID{'a'})
	require.Equal(uint64(0), acct.Balance)
	require.Equal(uint64(0), acct.Nonce)
	require.False(acct.Pending)
	require.Equal(NothingFinalized, acct.Finalized)
	require.Equal(1, s.Len())

	// The same record comes back on re-reference.
	acct.Balance = 7
	require.Equal(uint64(7), s.Get(ids.ShortID{'a'}).Balance)
	require.Equal(1, s.Len())
}

func TestSeedGenesis(t *testing.T) {
	require := require.New(t)

	s := NewStore()
	s.SeedGenesis(&genesis.Genesis{
		Allocations: []genesis.Allocation{
			{Address: ids.ShortID{'a'}, Balance: 1000},
			{Address: ids.ShortID{'b'}, Balance: 5},
		},
	})

	require.Equal(uint64(1000), s.Get(ids.ShortID{'a'}).Balance)
	require.Equal(uint64(5), s.Get(ids.ShortID{'b'}).Balance)
	require.Equal(uint64(0), s.Get(ids.ShortID{'c'}).Balance)
}

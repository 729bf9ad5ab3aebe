// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestParseRoundTrip(t *testing.T) {
	require := require.New(t)

	g := &Genesis{
		Allocations: []Allocation{
			{Address: ids.ShortID{'a'}, Balance: 1000},
			{Address: ids.ShortID{'b'}, Balance: 42},
		},
	}
	bytes, err := g.Bytes()
	require.NoError(err)

	parsed, err := Parse(bytes)
	require.NoError(err)
	require.Equal(g, parsed)
}

func TestParseRejectsDuplicates(t *testing.T) {
	require := require.New(t)

	g := &Genesis{
		Allocations: []Allocation{
			{Address: ids.ShortID{'a'}, Balance: 1},
			{Address: ids.ShortID{'a'}, Balance: 2},
		},
	}
	bytes, err := g.Bytes()
	require.NoError(err)

	_, err = Parse(bytes)
	require.ErrorIs(err, errDuplicateAllocation)
}

func TestParseRejectsGarbage(t *testing.T) {
	require := require.New(t)

	_, err := Parse([]byte("not json"))
	require.Error(err)

	_, err = Parse([]byte(`{"allocations":[{"address":"not an address","balance":"1"}]}`))
	require.Error(err)
}

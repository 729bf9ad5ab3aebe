// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/ids"
)

func TestEvaluate(t *testing.T) {
	require := require.New(t)

	account := ids.ShortID{'a'}
	txA := ids.ID{1}
	txB := ids.ID{2}

	keys := make([]*secp256k1.PrivateKey, 5)
	for i := range keys {
		key, err := secp256k1.NewPrivateKey()
		require.NoError(err)
		keys[i] = key
	}

	require.Zero(Evaluate(nil))

	// 3 votes for txA, 2 for txB.
	votes := []*Vote{
		testVote(t, keys[0], account, 0, ForTx(txA)),
		testVote(t, keys[1], account, 0, ForTx(txA)),
		testVote(t, keys[2], account, 0, ForTx(txA)),
		testVote(t, keys[3], account, 0, ForTx(txB)),
		testVote(t, keys[4], account, 0, ForTx(txB)),
	}
	tally := Evaluate(votes)
	require.Equal(ForTx(txA), tally.Payload)
	require.Equal(3, tally.Max)
	require.Equal(5, tally.Total)

	// Bottom votes add to the bottom partition without increasing the
	// distinct voter total for validators that already voted.
	votes = append(votes,
		testVote(t, keys[0], account, 0, BottomPayload()),
		testVote(t, keys[1], account, 0, BottomPayload()),
		testVote(t, keys[2], account, 0, BottomPayload()),
		testVote(t, keys[3], account, 0, BottomPayload()),
	)
	tally = Evaluate(votes)
	require.Equal(BottomPayload(), tally.Payload)
	require.Equal(4, tally.Max)
	require.Equal(5, tally.Total)
}

func TestEvaluateTieBreakDeterministic(t *testing.T) {
	require := require.New(t)

	account := ids.ShortID{'a'}
	txA := ids.ID{1}
	txB := ids.ID{2}

	key0, err := secp256k1.NewPrivateKey()
	require.NoError(err)
	key1, err := secp256k1.NewPrivateKey()
	require.NoError(err)

	votes := []*Vote{
		testVote(t, key0, account, 0, ForTx(txB)),
		testVote(t, key1, account, 0, ForTx(txA)),
	}
	// The lower hash wins ties regardless of input order.
	for range 8 {
		tally := Evaluate(votes)
		require.Equal(ForTx(txA), tally.Payload)
		require.Equal(1, tally.Max)
		votes[0], votes[1] = votes[1], votes[0]
	}

	// Bottom sorts before any transaction on ties.
	votes[0] = testVote(t, key0, account, 0, BottomPayload())
	tally := Evaluate(votes)
	require.Equal(BottomPayload(), tally.Payload)
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
)

func testVote(t *testing.T, key *secp256k1.PrivateKey, account ids.ShortID, nonce uint64, payload Payload) *Vote {
	v, err := Sign(key, account, nonce, payload)
	require.NoError(t, err)
	return v
}

func TestStoreDeduplication(t *testing.T) {
	require := require.New(t)

	key, err := secp256k1.NewPrivateKey()
	require.NoError(err)
	account := ids.ShortID{'a'}
	txA := ids.ID{1}
	txB := ids.ID{2}

	s := NewStore()

	// First transaction vote binds.
	require.True(s.Add(testVote(t, key, account, 0, ForTx(txA))))
	require.False(s.Add(testVote(t, key, account, 0, ForTx(txA))))

	// A second transaction vote by the same validator is equivocation and
	// is ignored.
	require.False(s.Add(testVote(t, key, account, 0, ForTx(txB))))
	require.Equal(1, s.CountDistinct(account, 0, ForTx(txA)))
	require.Equal(0, s.CountDistinct(account, 0, ForTx(txB)))

	// One bottom vote is allowed after a transaction vote, but only one.
	require.True(s.Add(testVote(t, key, account, 0, BottomPayload())))
	require.False(s.Add(testVote(t, key, account, 0, BottomPayload())))
	require.Equal(1, s.CountDistinct(account, 0, BottomPayload()))

	// A transaction vote cannot follow a bottom vote at the same nonce.
	key2, err := secp256k1.NewPrivateKey()
	require.NoError(err)
	require.True(s.Add(testVote(t, key2, account, 0, BottomPayload())))
	require.False(s.Add(testVote(t, key2, account, 0, ForTx(txA))))

	// Other nonces are independent.
	require.True(s.Add(testVote(t, key, account, 1, ForTx(txB))))

	require.Len(s.Votes(account, 0), 3)
	require.Empty(s.Votes(ids.ShortID{'b'}, 0))
}

func TestStoreCertificate(t *testing.T) {
	require := require.New(t)

	account := ids.ShortID{'a'}
	txA := ids.ID{1}
	s := NewStore()

	keys := make([]*secp256k1.PrivateKey, 4)
	for i := range keys {
		key, err := secp256k1.NewPrivateKey()
		require.NoError(err)
		keys[i] = key
		require.True(s.Add(testVote(t, key, account, 0, ForTx(txA))))
	}

	_, ok := s.Certificate(account, 0, ForTx(txA), 5)
	require.False(ok)

	cert, ok := s.Certificate(account, 0, ForTx(txA), 4)
	require.True(ok)
	require.Equal(account, cert.Account)
	require.Equal(uint64(0), cert.Nonce)
	require.Equal(ForTx(txA), cert.Payload)
	require.Len(cert.Votes, 4)

	vdrs := set.Of(cert.Validators()...)
	require.Equal(4, vdrs.Len())

	_, ok = s.Certificate(account, 0, BottomPayload(), 1)
	require.False(ok)
}

func TestVoteVerify(t *testing.T) {
	require := require.New(t)

	key, err := secp256k1.NewPrivateKey()
	require.NoError(err)
	outsider, err := secp256k1.NewPrivateKey()
	require.NoError(err)
	validators := set.Of(key.Address())

	v := testVote(t, key, ids.ShortID{'a'}, 3, ForTx(ids.ID{9}))
	require.NoError(v.Verify(validators))

	// Signer outside the validator set.
	out := testVote(t, outsider, ids.ShortID{'a'}, 3, ForTx(ids.ID{9}))
	require.ErrorIs(out.Verify(validators), ErrNotInValidatorSet)

	// Claimed identity does not match the signature.
	forged := *v
	forged.Validator = outsider.Address()
	require.ErrorIs(forged.Verify(validators), ErrBadSignature)

	// A signature over one set of fields does not verify once a field is
	// changed.
	moved := *v
	moved.Nonce = 4
	require.ErrorIs(moved.Verify(validators), ErrBadSignature)

	// Bottom commits to the zero hash, so its digest differs from that of a
	// vote for a non-zero transaction hash.
	bottom := testVote(t, key, ids.ShortID{'a'}, 3, BottomPayload())
	require.NoError(bottom.Verify(validators))
	require.NotEqual(v.Signature, bottom.Signature)
}

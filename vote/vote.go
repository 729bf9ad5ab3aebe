// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vote implements validator votes over account nonces, their
// storage, and quorum evaluation.
package vote

import (
	"errors"
	"fmt"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"

	"github.com/luxfi/payvm/utils/hashing"
	"github.com/luxfi/payvm/utils/wrappers"
)

// Votes are signed over a domain-separated digest so that they can never
// collide with transaction signatures.
const digestDomain = "payvm vote v0"

var (
	ErrBadSignature      = errors.New("bad vote signature")
	ErrNotInValidatorSet = errors.New("vote signer is not in the validator set")
)

// Payload is what a vote endorses at a nonce: either a transaction, or
// bottom, the sentinel that carries no transaction and exists to break
// equivocation locks.
type Payload struct {
	TxID   ids.ID
	Bottom bool
}

// ForTx returns the payload endorsing the given transaction.
func ForTx(txID ids.ID) Payload {
	return Payload{TxID: txID}
}

// BottomPayload returns the bottom sentinel payload.
func BottomPayload() Payload {
	return Payload{Bottom: true}
}

func (p Payload) String() string {
	if p.Bottom {
		return "bottom"
	}
	return p.TxID.String()
}

// digestID is the hash committed to by the vote signature: the transaction
// hash, or the zero hash for bottom.
func (p Payload) digestID() ids.ID {
	if p.Bottom {
		return ids.Empty
	}
	return p.TxID
}

// Vote is a single validator's endorsement of a payload at an account
// nonce. Votes are immutable once constructed.
type Vote struct {
	Validator ids.ShortID
	Account   ids.ShortID
	Nonce     uint64
	Payload   Payload
	Signature []byte
}

// Digest returns the signed message hash for the vote's fields.
func Digest(account ids.ShortID, nonce uint64, payload Payload) ids.ID {
	p := wrappers.Packer{MaxSize: 128}
	p.PackFixedBytes([]byte(digestDomain))
	p.PackFixedBytes(account[:])
	p.PackLong(nonce)
	id := payload.digestID()
	p.PackFixedBytes(id[:])
	return ids.ID(hashing.ComputeHash256Array(p.Bytes))
}

// Sign produces a vote by the given validator key.
func Sign(
	key *secp256k1.PrivateKey,
	account ids.ShortID,
	nonce uint64,
	payload Payload,
) (*Vote, error) {
	digest := Digest(account, nonce, payload)
	sig, err := key.SignHash(digest[:])
	if err != nil {
		return nil, err
	}
	return &Vote{
		Validator: key.Address(),
		Account:   account,
		Nonce:     nonce,
		Payload:   payload,
		Signature: sig,
	}, nil
}

// Verify checks that the signature recovers to the claimed validator and
// that the validator is a member of the static validator set. Locally
// signed votes skip this; it guards the peer ingress only.
func (v *Vote) Verify(validators set.Set[ids.ShortID]) error {
	digest := Digest(v.Account, v.Nonce, v.Payload)
	pub, err := secp256k1.RecoverPublicKeyFromHash(digest[:], v.Signature)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	if pub.Address() != v.Validator {
		return ErrBadSignature
	}
	if !validators.Contains(v.Validator) {
		return fmt.Errorf("%w: %s", ErrNotInValidatorSet, v.Validator)
	}
	return nil
}

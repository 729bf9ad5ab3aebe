// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tx implements the signed transfer envelope. A transaction is
// either a payment or, when addressed to the recovery contract, a recovery
// carrying a serialized inner transaction (the tip) in its data payload.
package tx

import (
	"errors"
	"fmt"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/utils/hashing"
	"github.com/luxfi/payvm/utils/wrappers"
)

const (
	codecVersion uint16 = 0

	// maxDataLen bounds the data payload. Recovery tips nest, so the bound
	// must fit the deepest allowed chain.
	maxDataLen = 256 * 1024

	maxTxLen = maxDataLen + 1024
)

var (
	ErrBadSignature = errors.New("bad transaction signature")
	ErrNoTip        = errors.New("recovery carries no tip transaction")
	ErrTooDeep      = errors.New("recovery chain exceeds depth limit")

	errWrongCodecVersion = errors.New("wrong codec version")
	errTrailingBytes     = errors.New("trailing bytes after transaction")
)

// Tx is an immutable signed transfer. The sender is not serialized; it is
// recovered from the signature over the unsigned envelope.
type Tx struct {
	recipient ids.ShortID
	amount    uint64
	nonce     uint64
	data      []byte

	signature []byte
	bytes     []byte
	id        ids.ID
	sender    ids.ShortID
}

// Sign builds and signs a transaction with the given key.
func Sign(
	key *secp256k1.PrivateKey,
	recipient ids.ShortID,
	amount uint64,
	nonce uint64,
	data []byte,
) (*Tx, error) {
	if len(data) > maxDataLen {
		return nil, fmt.Errorf("data of %d bytes exceeds maximum of %d", len(data), maxDataLen)
	}

	t := &Tx{
		recipient: recipient,
		amount:    amount,
		nonce:     nonce,
		data:      data,
		sender:    key.Address(),
	}

	unsigned := t.packUnsigned()
	sig, err := key.SignHash(hashing.ComputeHash256(unsigned))
	if err != nil {
		return nil, err
	}
	t.signature = sig

	p := wrappers.Packer{MaxSize: maxTxLen, Bytes: unsigned, Offset: len(unsigned)}
	p.PackFixedBytes(sig)
	if p.Errored() {
		return nil, p.Err
	}
	t.bytes = p.Bytes
	t.id = ids.ID(hashing.ComputeHash256Array(t.bytes))
	return t, nil
}

// Parse decodes a signed transaction and recovers its sender.
func Parse(bytes []byte) (*Tx, error) {
	p := wrappers.Packer{Bytes: bytes}

	if version := p.UnpackShort(); version != codecVersion && !p.Errored() {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, version)
	}

	t := &Tx{}
	copy(t.recipient[:], p.UnpackFixedBytes(ids.ShortIDLen))
	t.amount = p.UnpackLong()
	t.nonce = p.UnpackLong()
	t.data = p.UnpackLimitedBytes(maxDataLen)

	unsignedLen := p.Offset
	t.signature = p.UnpackFixedBytes(secp256k1.SignatureLen)
	if p.Errored() {
		return nil, p.Err
	}
	if p.Offset != len(bytes) {
		return nil, errTrailingBytes
	}

	pub, err := secp256k1.RecoverPublicKeyFromHash(
		hashing.ComputeHash256(bytes[:unsignedLen]),
		t.signature,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	t.sender = pub.Address()
	if t.sender == ids.ShortEmpty {
		return nil, ErrBadSignature
	}

	t.bytes = bytes
	t.id = ids.ID(hashing.ComputeHash256Array(bytes))
	return t, nil
}

func (t *Tx) packUnsigned() []byte {
	p := wrappers.Packer{MaxSize: maxTxLen}
	p.PackShort(codecVersion)
	p.PackFixedBytes(t.recipient[:])
	p.PackLong(t.amount)
	p.PackLong(t.nonce)
	p.PackBytes(t.data)
	return p.Bytes
}

// ID returns the content hash of the signed transaction.
func (t *Tx) ID() ids.ID {
	return t.id
}

// Bytes returns the full signed serialization.
func (t *Tx) Bytes() []byte {
	return t.bytes
}

// Sender returns the address recovered from the signature.
func (t *Tx) Sender() ids.ShortID {
	return t.sender
}

// Recipient returns the destination address.
func (t *Tx) Recipient() ids.ShortID {
	return t.recipient
}

// Amount returns the transferred amount.
func (t *Tx) Amount() uint64 {
	return t.amount
}

// Nonce returns the account nonce this transaction spends.
func (t *Tx) Nonce() uint64 {
	return t.nonce
}

// Data returns the opaque data payload.
func (t *Tx) Data() []byte {
	return t.data
}

// IsRecovery reports whether the transaction is addressed to the recovery
// contract.
func (t *Tx) IsRecovery(recoveryContract ids.ShortID) bool {
	return t.recipient == recoveryContract
}

// Tip decodes the inner transaction embedded in a recovery's data payload.
func (t *Tx) Tip() (*Tx, error) {
	if len(t.data) == 0 {
		return nil, ErrNoTip
	}
	tip, err := Parse(t.data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTip, err)
	}
	return tip, nil
}

// ChainStart returns the deepest inner payment reached by unwrapping
// recoveries, up to maxDepth layers. Each inner layer has a strictly lower
// nonce than its parent, so chains cannot cycle; the cap defends against
// pathological input.
func (t *Tx) ChainStart(recoveryContract ids.ShortID, maxDepth int) (*Tx, error) {
	cur := t
	for depth := 0; cur.IsRecovery(recoveryContract); depth++ {
		if depth >= maxDepth {
			return nil, ErrTooDeep
		}
		tip, err := cur.Tip()
		if err != nil {
			return nil, err
		}
		cur = tip
	}
	return cur, nil
}

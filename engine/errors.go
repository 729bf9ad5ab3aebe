// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import "errors"

var (
	// ErrPending rejects a transaction while the account already has an
	// in-flight vote at its current nonce.
	ErrPending = errors.New("account has an in-flight vote at its current nonce")

	// ErrNonceMismatch rejects a transaction whose nonce is not the
	// account's current nonce.
	ErrNonceMismatch = errors.New("transaction nonce does not match account nonce")

	// ErrPrevNotFinalized rejects a payment while the previous nonce has
	// not finalized.
	ErrPrevNotFinalized = errors.New("previous nonce has not finalized")

	// ErrInsufficientBalance rejects a payment exceeding the sender's
	// balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidRecovery rejects a recovery transaction; it wraps one of
	// the specific causes below.
	ErrInvalidRecovery = errors.New("invalid recovery")

	// ErrMissingTip is returned when the recovery data does not decode to
	// an inner transaction.
	ErrMissingTip = errors.New("missing or undecodable tip transaction")

	// ErrTipSenderMismatch is returned when the tip was signed by a
	// different sender than the recovery.
	ErrTipSenderMismatch = errors.New("tip sender does not match recovery sender")

	// ErrTipNotNotarized is returned when the local vote store holds no
	// notarization certificate for the tip at its nonce.
	ErrTipNotNotarized = errors.New("tip is not notarized")

	// ErrIntermediateNotBottom is returned when a nonce between the tip
	// and the recovery lacks a bottom notarization.
	ErrIntermediateNotBottom = errors.New("intermediate nonce is not notarized as bottom")

	// ErrRecoveryTooDeep is returned when the recovery nesting exceeds the
	// configured depth cap.
	ErrRecoveryTooDeep = errors.New("recovery chain exceeds depth limit")

	// ErrRecoveryDisabled rejects recovery transactions in classic mode.
	ErrRecoveryDisabled = errors.New("recovery transactions are disabled")

	// ErrMissingNotarization reports an invariant violation observed while
	// assembling a recovery snapshot: the account nonce advanced past a
	// nonce for which no notarization certificate can be assembled. Fatal
	// for the snapshot call only.
	ErrMissingNotarization = errors.New("missing notarization certificate")

	errNotValidatorKey = errors.New("signing key is not a configured validator")
)

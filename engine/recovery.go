// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/config"
	"github.com/luxfi/payvm/tx"
	"github.com/luxfi/payvm/vote"
)

// validateRecovery checks the certificate evidence behind a recovery
// transaction: the tip must be notarized at its nonce, every nonce between
// tip and recovery must be notarized as bottom, and the chain must resolve
// within the depth cap. The balance check is deferred to chain-start
// application at finalization time.
func (e *Engine) validateRecovery(t *tx.Tx) error {
	tip, err := t.Tip()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecovery, ErrMissingTip)
	}
	if tip.Sender() != t.Sender() {
		return fmt.Errorf("%w: %w", ErrInvalidRecovery, ErrTipSenderMismatch)
	}
	if tip.Nonce() >= t.Nonce() {
		return fmt.Errorf("%w: %w: tip nonce %d is not below recovery nonce %d",
			ErrInvalidRecovery, ErrMissingTip, tip.Nonce(), t.Nonce(),
		)
	}
	if _, err := t.ChainStart(config.RecoveryContractAddress, e.cfg.RecoveryDepthLimit()); err != nil {
		if errors.Is(err, tx.ErrTooDeep) {
			return fmt.Errorf("%w: %w", ErrInvalidRecovery, ErrRecoveryTooDeep)
		}
		return fmt.Errorf("%w: %w", ErrInvalidRecovery, ErrMissingTip)
	}

	account := t.Sender()
	if got := e.votes.CountDistinct(account, tip.Nonce(), vote.ForTx(tip.ID())); got < e.notarizationQuorum {
		return fmt.Errorf("%w: %w: %d of %d votes at nonce %d",
			ErrInvalidRecovery, ErrTipNotNotarized, got, e.notarizationQuorum, tip.Nonce(),
		)
	}
	for k := tip.Nonce() + 1; k < t.Nonce(); k++ {
		if got := e.votes.CountDistinct(account, k, vote.BottomPayload()); got < e.notarizationQuorum {
			return fmt.Errorf("%w: %w: %d of %d votes at nonce %d",
				ErrInvalidRecovery, ErrIntermediateNotBottom, got, e.notarizationQuorum, k,
			)
		}
	}
	return nil
}

// RecoveryInfo is the evidence a client needs to craft a recovery
// transaction after equivocating: the finalized transaction and its
// finality certificate, plus one notarization certificate for every nonce
// the account has advanced past since.
type RecoveryInfo struct {
	Account        ids.ShortID
	FinalizedNonce int64
	FinalizedTx    *tx.Tx
	FinalityCert   *vote.Certificate
	CurrentNonce   uint64
	Chain          []*vote.Certificate
}

// RecoveryInfoFor assembles the recovery snapshot for an account. A nonce
// the account advanced past without a formable notarization certificate is
// an invariant violation reported as ErrMissingNotarization; it fails this
// call but not the validator.
func (e *Engine) RecoveryInfoFor(account ids.ShortID) (*RecoveryInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct := e.accounts.Get(account)
	info := &RecoveryInfo{
		Account:        account,
		FinalizedNonce: acct.Finalized,
		CurrentNonce:   acct.Nonce,
	}

	if acct.Finalized >= 0 {
		fn := uint64(acct.Finalized)
		// The finalized payload is the non-bottom payload holding a
		// finality certificate at the finalized nonce.
		for _, v := range e.votes.Votes(account, fn) {
			if v.Payload.Bottom {
				continue
			}
			if cert, ok := e.votes.Certificate(account, fn, v.Payload, e.finalityQuorum); ok {
				info.FinalityCert = cert
				break
			}
		}
		if info.FinalityCert == nil {
			return nil, fmt.Errorf("%w: no finality certificate at nonce %d",
				ErrMissingNotarization, fn,
			)
		}
		if t, ok := e.archive.Get(info.FinalityCert.Payload.TxID); ok {
			info.FinalizedTx = t
		}
	}

	for k := uint64(acct.Finalized + 1); k < acct.Nonce; k++ {
		tally := vote.Evaluate(e.votes.Votes(account, k))
		cert, ok := e.votes.Certificate(account, k, tally.Payload, e.notarizationQuorum)
		if !ok {
			return nil, fmt.Errorf("%w: nonce %d", ErrMissingNotarization, k)
		}
		info.Chain = append(info.Chain, cert)
	}
	return info, nil
}

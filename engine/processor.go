// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	safemath "github.com/luxfi/payvm/utils/math"

	"github.com/luxfi/payvm/config"
	"github.com/luxfi/payvm/state"
	"github.com/luxfi/payvm/vote"
)

// process re-evaluates the account after a vote landed at the given nonce.
// It applies, in order: the bottom-vote rule, the notarization advance,
// and the finality execution, then re-enters at the new nonce if the
// account advanced, because votes for it may already be stored.
//
// Callers hold e.mu. The processor is pure in-memory work and never yields
// mid-rule; vote broadcast is enqueue-only.
func (e *Engine) process(account ids.ShortID, acct *state.Account, nonce uint64) {
	for {
		tally := vote.Evaluate(e.votes.Votes(account, nonce))

		// Bottom-vote rule: n-f validators have voted at the account's
		// current nonce but no payload can reach notarization, so a
		// majority bottom is achievable and unlocks the account. Cast
		// bottom once and re-tally, since it may complete a quorum.
		if !e.cfg.Classic &&
			nonce == acct.Nonce &&
			tally.Max < e.notarizationQuorum &&
			tally.Total >= e.finalityQuorum &&
			!e.votes.HasBottom(account, nonce, e.self) {
			bv, err := vote.Sign(e.key, account, nonce, vote.BottomPayload())
			if err != nil {
				e.log.Error("failed to sign bottom vote", log.Err(err))
				return
			}
			acct.Pending = true
			e.votes.Add(bv)
			e.metrics.votesIngested.Inc()
			e.metrics.bottomVotesCast.Inc()
			e.log.Info("cast bottom vote",
				log.Stringer("account", account),
				log.Uint64("nonce", nonce),
				log.Int("distinctVoters", tally.Total),
				log.Int("maxPayloadCount", tally.Max),
			)
			e.sender.SendVote(bv)
			continue
		}

		// Notarization advance: some payload, possibly bottom, is
		// certified at the account's current nonce, so the account is
		// unambiguously free to move on.
		if nonce == acct.Nonce && acct.Pending && tally.Max >= e.notarizationQuorum {
			acct.Nonce = nonce + 1
			acct.Pending = false
			e.metrics.nonceAdvances.Inc()
			e.log.Debug("nonce advanced",
				log.Stringer("account", account),
				log.Uint64("nonce", acct.Nonce),
				log.Stringer("payload", tally.Payload),
			)
		}

		// Finality execution: a non-bottom payload holds a finality
		// certificate above the finalized watermark.
		if tally.Max >= e.finalityQuorum &&
			!tally.Payload.Bottom &&
			int64(nonce) > acct.Finalized {
			e.finalize(account, acct, nonce, tally.Payload.TxID)
		}

		if acct.Nonce > nonce {
			nonce = acct.Nonce
			continue
		}
		return
	}
}

// finalize applies the effect of a finality certificate at (account,
// nonce) for the given transaction. The transfer applied is the one at the
// start of the recovery chain; a recovery introduces no economic effect
// beyond its tip's.
//
// Inconsistent chain starts are a real possibility under adversarial
// votes, so every mismatch here is ignored rather than treated as fatal.
func (e *Engine) finalize(account ids.ShortID, acct *state.Account, nonce uint64, txID ids.ID) {
	t, ok := e.archive.Get(txID)
	if !ok {
		e.log.Debug("finality certificate for unarchived transaction",
			log.Stringer("account", account),
			log.Uint64("nonce", nonce),
			log.Stringer("txID", txID),
		)
		return
	}

	orig, err := t.ChainStart(config.RecoveryContractAddress, e.cfg.RecoveryDepthLimit())
	if err != nil {
		e.log.Warn("failed to resolve chain start of finalized transaction",
			log.Stringer("txID", txID),
			log.Err(err),
		)
		return
	}
	if orig.Sender() != account {
		e.log.Warn("chain start signed by a different account",
			log.Stringer("account", account),
			log.Stringer("chainStartSender", orig.Sender()),
		)
		return
	}

	switch {
	case orig.Nonce() == uint64(acct.Finalized+1):
		// First certificate covering the chain start: apply the transfer.
		if err := e.applyTransfer(account, acct, orig.Recipient(), orig.Amount()); err != nil {
			e.log.Warn("skipping transfer application",
				log.Stringer("txID", orig.ID()),
				log.Err(err),
			)
			return
		}
	case acct.Finalized >= 0 && orig.Nonce() == uint64(acct.Finalized):
		// The chain start already executed through a prior finalization;
		// only the watermark moves.
	default:
		e.log.Debug("ignoring finality certificate with inconsistent chain start",
			log.Stringer("account", account),
			log.Uint64("chainStartNonce", orig.Nonce()),
			log.Int("finalized", int(acct.Finalized)),
		)
		return
	}

	acct.Finalized = int64(nonce)
	if acct.Nonce <= nonce {
		acct.Nonce = nonce + 1
		acct.Pending = false
		e.metrics.nonceAdvances.Inc()
	}

	e.metrics.txsFinalized.Inc()
	if t.IsRecovery(config.RecoveryContractAddress) {
		e.metrics.recoveriesFinalized.Inc()
	}
	e.log.Info("transaction finalized",
		log.Stringer("account", account),
		log.Uint64("nonce", nonce),
		log.Stringer("txID", txID),
		log.Stringer("chainStart", orig.ID()),
	)
}

// applyTransfer debits the sender and credits the recipient with checked
// arithmetic. A transfer back to the sender is a no-op on balances.
func (e *Engine) applyTransfer(sender ids.ShortID, acct *state.Account, recipient ids.ShortID, amount uint64) error {
	if recipient == sender {
		return nil
	}

	debited, err := safemath.Sub(acct.Balance, amount)
	if err != nil {
		return err
	}
	rcpt := e.accounts.Get(recipient)
	credited, err := safemath.Add(rcpt.Balance, amount)
	if err != nil {
		return err
	}

	acct.Balance = debited
	rcpt.Balance = credited
	return nil
}

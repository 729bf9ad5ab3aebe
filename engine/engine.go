// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine implements the validator state machine: transaction
// validation, vote ingestion, certificate processing, and recovery
// snapshots.
package engine

import (
	"fmt"
	"sync"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
	"github.com/luxfi/metric"

	"github.com/luxfi/payvm/archive"
	"github.com/luxfi/payvm/config"
	"github.com/luxfi/payvm/genesis"
	"github.com/luxfi/payvm/state"
	"github.com/luxfi/payvm/tx"
	"github.com/luxfi/payvm/vote"
)

// Sender broadcasts locally signed votes to peers. Implementations must
// return without waiting for any peer: the single-round-trip latency of
// the protocol depends on the ingress response never blocking on fan-out.
type Sender interface {
	SendVote(*vote.Vote)
}

// Engine is a single validator. All handlers are serialized by one lock;
// accounts are independent state machines, so a finer per-account lock
// would also be correct, but the handlers are pure in-memory work and the
// coarse lock keeps the cross-account transfer path trivially safe.
type Engine struct {
	mu sync.Mutex

	cfg        *config.Config
	key        *secp256k1.PrivateKey
	self       ids.ShortID
	validators set.Set[ids.ShortID]

	notarizationQuorum int
	finalityQuorum     int

	accounts *state.Store
	votes    *vote.Store
	archive  *archive.Archive

	sender  Sender
	log     log.Logger
	metrics *engineMetrics
}

// New builds a validator engine from its configuration, signing key,
// genesis allocations, and transaction database.
func New(
	cfg *config.Config,
	key *secp256k1.PrivateKey,
	g *genesis.Genesis,
	db database.Database,
	sender Sender,
	logger log.Logger,
	registry metric.Registry,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	self := key.Address()
	validators := cfg.ValidatorSet()
	if !validators.Contains(self) {
		return nil, fmt.Errorf("%w: %s", errNotValidatorKey, self)
	}

	accounts := state.NewStore()
	accounts.SeedGenesis(g)

	e := &Engine{
		cfg:                cfg,
		key:                key,
		self:               self,
		validators:         validators,
		notarizationQuorum: cfg.NotarizationQuorum(),
		finalityQuorum:     cfg.FinalityQuorum(),
		accounts:           accounts,
		votes:              vote.NewStore(),
		archive:            archive.New(db),
		sender:             sender,
		log:                logger,
		metrics:            newMetrics(registry),
	}
	e.metrics.accounts.Set(float64(accounts.Len()))

	logger.Info("validator engine initialized",
		log.Stringer("validator", self),
		log.Int("n", cfg.NumValidators()),
		log.Int("f", cfg.FaultBudget),
		log.Int("notarizationQuorum", e.notarizationQuorum),
		log.Int("finalityQuorum", e.finalityQuorum),
		log.Bool("classic", cfg.Classic),
	)
	return e, nil
}

// Validator returns this validator's address.
func (e *Engine) Validator() ids.ShortID {
	return e.self
}

// OnTransaction validates a signed transaction, casts and stores the
// self-vote, and drives the certificate processor. The returned vote is
// the ingress response; broadcast to peers is detached from it.
func (e *Engine) OnTransaction(t *tx.Tx) (*vote.Vote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.onTransaction(t)
	if err != nil {
		e.metrics.txsRejected.Inc()
		return nil, err
	}
	e.metrics.txsAccepted.Inc()
	return sv, nil
}

func (e *Engine) onTransaction(t *tx.Tx) (*vote.Vote, error) {
	sender := t.Sender()
	if sender == ids.ShortEmpty {
		return nil, tx.ErrBadSignature
	}

	acct := e.accounts.Get(sender)
	if acct.Pending {
		return nil, ErrPending
	}
	if t.Nonce() != acct.Nonce {
		return nil, fmt.Errorf("%w: transaction has %d, account expects %d",
			ErrNonceMismatch, t.Nonce(), acct.Nonce,
		)
	}

	if t.IsRecovery(config.RecoveryContractAddress) {
		if e.cfg.Classic {
			return nil, ErrRecoveryDisabled
		}
		if err := e.validateRecovery(t); err != nil {
			return nil, err
		}
	} else {
		if acct.Finalized != int64(t.Nonce())-1 {
			return nil, fmt.Errorf("%w: finalized %d, nonce %d",
				ErrPrevNotFinalized, acct.Finalized, t.Nonce(),
			)
		}
		if acct.Balance < t.Amount() {
			return nil, fmt.Errorf("%w: have %d, need %d",
				ErrInsufficientBalance, acct.Balance, t.Amount(),
			)
		}
	}

	if err := e.archive.Put(t); err != nil {
		return nil, err
	}

	sv, err := vote.Sign(e.key, sender, t.Nonce(), vote.ForTx(t.ID()))
	if err != nil {
		return nil, err
	}

	acct.Pending = true
	e.votes.Add(sv)
	e.metrics.votesIngested.Inc()
	e.metrics.accounts.Set(float64(e.accounts.Len()))

	e.log.Debug("transaction accepted",
		log.Stringer("txID", t.ID()),
		log.Stringer("account", sender),
		log.Uint64("nonce", t.Nonce()),
	)

	e.process(sender, acct, t.Nonce())
	e.sender.SendVote(sv)
	return sv, nil
}

// OnVote verifies and ingests a single peer vote. Redelivering a stored
// vote is a no-op.
func (e *Engine) OnVote(v *vote.Vote) error {
	if err := v.Verify(e.validators); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ingest(v)
	return nil
}

// OnVotes ingests a batch of peer votes, skipping invalid ones. It returns
// the number of votes that verified.
func (e *Engine) OnVotes(votes []*vote.Vote) int {
	accepted := 0
	for _, v := range votes {
		if err := e.OnVote(v); err != nil {
			e.log.Debug("dropping invalid vote in batch", log.Err(err))
			continue
		}
		accepted++
	}
	return accepted
}

// ingest appends a vote and, if it was new, re-evaluates the account.
// Callers hold e.mu.
func (e *Engine) ingest(v *vote.Vote) {
	if !e.votes.Add(v) {
		e.metrics.votesDropped.Inc()
		return
	}
	e.metrics.votesIngested.Inc()

	acct := e.accounts.Get(v.Account)
	e.metrics.accounts.Set(float64(e.accounts.Len()))
	e.process(v.Account, acct, v.Nonce)
}

// Account returns a copy of the account record for the address.
func (e *Engine) Account(addr ids.ShortID) state.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.accounts.Get(addr)
}

// ArchivedTx returns the archived transaction with the given ID, if the
// validator has seen its bytes.
func (e *Engine) ArchivedTx(id ids.ID) (*tx.Tx, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.archive.Get(id)
}

// Close releases the engine's transaction archive.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.archive.Close()
}

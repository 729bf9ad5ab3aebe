// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api exposes the validator over JSON-RPC and provides the typed
// client used for peer vote propagation.
package api

import (
	"fmt"
	"net/http"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/payvm/engine"
	"github.com/luxfi/payvm/tx"
	"github.com/luxfi/payvm/utils/formatting"
	payvmjson "github.com/luxfi/payvm/utils/json"
	"github.com/luxfi/payvm/utils/timer/mockable"
)

// Name is the service namespace methods are registered under.
const Name = "payvm"

// Service provides the validator's JSON-RPC endpoints.
type Service struct {
	Engine  *engine.Engine
	Log     log.Logger
	Clock   *mockable.Clock
	Version string

	startTime uint64
}

// NewService returns a service over the engine. The clock is read for
// health uptime reporting.
func NewService(e *engine.Engine, logger log.Logger, clock *mockable.Clock, version string) *Service {
	return &Service{
		Engine:    e,
		Log:       logger,
		Clock:     clock,
		Version:   version,
		startTime: clock.Unix(),
	}
}

// SendRawTransactionArgs contains arguments for SendRawTransaction.
type SendRawTransactionArgs struct {
	// Tx is the hex-encoded signed transaction.
	Tx string `json:"tx"`
}

// SendRawTransactionReply contains the response for SendRawTransaction.
type SendRawTransactionReply struct {
	TxID string   `json:"txID"`
	Vote JSONVote `json:"vote"`
}

// SendRawTransaction is the ingress for client-signed transactions. On
// success the validator's own vote is returned; peer broadcast is already
// in flight and is not awaited.
func (s *Service) SendRawTransaction(_ *http.Request, args *SendRawTransactionArgs, reply *SendRawTransactionReply) error {
	txBytes, err := formatting.Decode(formatting.Hex, args.Tx)
	if err != nil {
		return fmt.Errorf("problem decoding transaction: %w", err)
	}
	t, err := tx.Parse(txBytes)
	if err != nil {
		return err
	}

	s.Log.Debug("sendRawTransaction called",
		log.Stringer("txID", t.ID()),
		log.Stringer("sender", t.Sender()),
	)

	v, err := s.Engine.OnTransaction(t)
	if err != nil {
		return err
	}
	jv, err := NewJSONVote(v)
	if err != nil {
		return err
	}
	reply.TxID = t.ID().String()
	reply.Vote = jv
	return nil
}

// SubmitVoteArgs contains arguments for SubmitVote.
type SubmitVoteArgs struct {
	Vote JSONVote `json:"vote"`
}

// SubmitVoteReply contains the response for SubmitVote.
type SubmitVoteReply struct{}

// SubmitVote is the peer ingress for a single vote. Redelivery of a stored
// vote acknowledges without effect.
func (s *Service) SubmitVote(_ *http.Request, args *SubmitVoteArgs, _ *SubmitVoteReply) error {
	v, err := args.Vote.Vote()
	if err != nil {
		return err
	}
	return s.Engine.OnVote(v)
}

// SubmitVotesArgs contains arguments for SubmitVotes.
type SubmitVotesArgs struct {
	Votes []JSONVote `json:"votes"`
}

// SubmitVotesReply contains the response for SubmitVotes.
type SubmitVotesReply struct {
	Accepted int `json:"accepted"`
}

// SubmitVotes is the batched peer ingress. Votes that fail to parse or
// verify are skipped; the reply carries the accepted count.
func (s *Service) SubmitVotes(_ *http.Request, args *SubmitVotesArgs, reply *SubmitVotesReply) error {
	for i := range args.Votes {
		v, err := args.Votes[i].Vote()
		if err != nil {
			s.Log.Debug("dropping unparseable vote in batch", log.Err(err))
			continue
		}
		if err := s.Engine.OnVote(v); err != nil {
			s.Log.Debug("dropping invalid vote in batch", log.Err(err))
			continue
		}
		reply.Accepted++
	}
	return nil
}

// GetRecoveryInfoArgs contains arguments for GetRecoveryInfo.
type GetRecoveryInfoArgs struct {
	Address string `json:"address"`
}

// GetRecoveryInfoReply contains the response for GetRecoveryInfo.
type GetRecoveryInfoReply struct {
	FinalizedNonce payvmjson.Int64 `json:"finalizedNonce"`
	// FinalizedTx is the hex-encoded finalized transaction, empty when
	// nothing has finalized or its bytes are unknown to this validator.
	FinalizedTx  string            `json:"finalizedTx,omitempty"`
	FinalityCert *JSONCertificate  `json:"finalityCert,omitempty"`
	CurrentNonce payvmjson.Uint64  `json:"currentNonce"`
	Chain        []JSONCertificate `json:"chain"`
}

// GetRecoveryInfo returns the snapshot a client needs to craft a recovery
// transaction for the account.
func (s *Service) GetRecoveryInfo(_ *http.Request, args *GetRecoveryInfoArgs, reply *GetRecoveryInfoReply) error {
	addr, err := ids.ShortFromString(args.Address)
	if err != nil {
		return fmt.Errorf("failed to parse address: %w", err)
	}

	info, err := s.Engine.RecoveryInfoFor(addr)
	if err != nil {
		return err
	}

	reply.FinalizedNonce = payvmjson.Int64(info.FinalizedNonce)
	reply.CurrentNonce = payvmjson.Uint64(info.CurrentNonce)
	if info.FinalizedTx != nil {
		encoded, err := formatting.Encode(formatting.Hex, info.FinalizedTx.Bytes())
		if err != nil {
			return err
		}
		reply.FinalizedTx = encoded
	}
	if info.FinalityCert != nil {
		jc, err := NewJSONCertificate(info.FinalityCert)
		if err != nil {
			return err
		}
		reply.FinalityCert = &jc
	}
	reply.Chain = make([]JSONCertificate, 0, len(info.Chain))
	for _, cert := range info.Chain {
		jc, err := NewJSONCertificate(cert)
		if err != nil {
			return err
		}
		reply.Chain = append(reply.Chain, jc)
	}
	return nil
}

// GetAccountArgs contains arguments for GetAccount.
type GetAccountArgs struct {
	Address string `json:"address"`
}

// GetAccountReply contains the response for GetAccount.
type GetAccountReply struct {
	Balance   payvmjson.Uint64 `json:"balance"`
	Nonce     payvmjson.Uint64 `json:"nonce"`
	Pending   bool             `json:"pending"`
	Finalized payvmjson.Int64  `json:"finalized"`
}

// GetAccount returns the validator's view of an account.
func (s *Service) GetAccount(_ *http.Request, args *GetAccountArgs, reply *GetAccountReply) error {
	addr, err := ids.ShortFromString(args.Address)
	if err != nil {
		return fmt.Errorf("failed to parse address: %w", err)
	}
	acct := s.Engine.Account(addr)
	reply.Balance = payvmjson.Uint64(acct.Balance)
	reply.Nonce = payvmjson.Uint64(acct.Nonce)
	reply.Pending = acct.Pending
	reply.Finalized = payvmjson.Int64(acct.Finalized)
	return nil
}

// HealthArgs contains arguments for Health.
type HealthArgs struct{}

// HealthReply contains the response for Health.
type HealthReply struct {
	Healthy       bool             `json:"healthy"`
	Version       string           `json:"version"`
	Validator     string           `json:"validator"`
	UptimeSeconds payvmjson.Uint64 `json:"uptimeSeconds"`
}

// Health reports liveness.
func (s *Service) Health(_ *http.Request, _ *HealthArgs, reply *HealthReply) error {
	reply.Healthy = true
	reply.Version = s.Version
	reply.Validator = s.Engine.Validator().String()
	reply.UptimeSeconds = payvmjson.Uint64(s.Clock.Unix() - s.startTime)
	return nil
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/utils/formatting"
	payvmjson "github.com/luxfi/payvm/utils/json"
	"github.com/luxfi/payvm/vote"
)

var errNoSignature = errors.New("vote carries no signature")

// JSONVote is the wire representation of a vote.
type JSONVote struct {
	Validator string           `json:"validator"`
	Account   string           `json:"account"`
	Nonce     payvmjson.Uint64 `json:"nonce"`
	// TxID is empty for bottom votes.
	TxID      string `json:"txID,omitempty"`
	Bottom    bool   `json:"bottom,omitempty"`
	Signature string `json:"signature"`
}

// NewJSONVote converts a vote for the wire.
func NewJSONVote(v *vote.Vote) (JSONVote, error) {
	sig, err := formatting.Encode(formatting.Hex, v.Signature)
	if err != nil {
		return JSONVote{}, err
	}
	jv := JSONVote{
		Validator: v.Validator.String(),
		Account:   v.Account.String(),
		Nonce:     payvmjson.Uint64(v.Nonce),
		Bottom:    v.Payload.Bottom,
		Signature: sig,
	}
	if !v.Payload.Bottom {
		jv.TxID = v.Payload.TxID.String()
	}
	return jv, nil
}

// Vote parses the wire representation back into a vote.
func (jv *JSONVote) Vote() (*vote.Vote, error) {
	validator, err := ids.ShortFromString(jv.Validator)
	if err != nil {
		return nil, fmt.Errorf("failed to parse validator address: %w", err)
	}
	account, err := ids.ShortFromString(jv.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account address: %w", err)
	}
	payload := vote.BottomPayload()
	if !jv.Bottom {
		txID, err := ids.FromString(jv.TxID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse txID: %w", err)
		}
		payload = vote.ForTx(txID)
	}
	sig, err := formatting.Decode(formatting.Hex, jv.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature: %w", err)
	}
	if len(sig) == 0 {
		return nil, errNoSignature
	}
	return &vote.Vote{
		Validator: validator,
		Account:   account,
		Nonce:     uint64(jv.Nonce),
		Payload:   payload,
		Signature: sig,
	}, nil
}

// JSONCertificate is the wire representation of a certificate: the shared
// (account, nonce, payload) plus the member votes.
type JSONCertificate struct {
	Account string           `json:"account"`
	Nonce   payvmjson.Uint64 `json:"nonce"`
	TxID    string           `json:"txID,omitempty"`
	Bottom  bool             `json:"bottom,omitempty"`
	Votes   []JSONVote       `json:"votes"`
}

// NewJSONCertificate converts a certificate for the wire.
func NewJSONCertificate(c *vote.Certificate) (JSONCertificate, error) {
	jc := JSONCertificate{
		Account: c.Account.String(),
		Nonce:   payvmjson.Uint64(c.Nonce),
		Bottom:  c.Payload.Bottom,
		Votes:   make([]JSONVote, 0, len(c.Votes)),
	}
	if !c.Payload.Bottom {
		jc.TxID = c.Payload.TxID.String()
	}
	for _, v := range c.Votes {
		jv, err := NewJSONVote(v)
		if err != nil {
			return JSONCertificate{}, err
		}
		jc.Votes = append(jc.Votes, jv)
	}
	return jc, nil
}

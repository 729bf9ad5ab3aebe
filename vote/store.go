// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
)

// Store holds every vote a validator has seen, indexed by account and
// nonce. Votes are appended and never mutated or evicted. The store is not
// internally synchronized; callers serialize access the same way they
// serialize account mutations.
type Store struct {
	rows map[ids.ShortID]map[uint64]*row
}

// row is the vote bag for one (account, nonce) pair. A validator may
// contribute at most one transaction vote and at most one bottom vote.
type row struct {
	txVotes     map[ids.ShortID]*Vote
	bottomVotes map[ids.ShortID]*Vote
}

// NewStore returns an empty vote store.
func NewStore() *Store {
	return &Store{
		rows: make(map[ids.ShortID]map[uint64]*row),
	}
}

func (s *Store) row(account ids.ShortID, nonce uint64) *row {
	nonces, ok := s.rows[account]
	if !ok {
		nonces = make(map[uint64]*row)
		s.rows[account] = nonces
	}
	r, ok := nonces[nonce]
	if !ok {
		r = &row{
			txVotes:     make(map[ids.ShortID]*Vote),
			bottomVotes: make(map[ids.ShortID]*Vote),
		}
		nonces[nonce] = r
	}
	return r
}

// Add appends a vote, returning false if it was dropped as a duplicate.
//
// A transaction vote is dropped if the validator already voted anything at
// the nonce: the first transaction vote binds, so a later equivocating one
// is ignored, and a validator that has moved on to bottom cannot be pulled
// back. A bottom vote is dropped only if the validator's bottom vote is
// already present; casting one transaction vote and later one bottom vote
// is how accounts get unlocked.
func (s *Store) Add(v *Vote) bool {
	r := s.row(v.Account, v.Nonce)
	if v.Payload.Bottom {
		if _, ok := r.bottomVotes[v.Validator]; ok {
			return false
		}
		r.bottomVotes[v.Validator] = v
		return true
	}

	if _, ok := r.txVotes[v.Validator]; ok {
		return false
	}
	if _, ok := r.bottomVotes[v.Validator]; ok {
		return false
	}
	r.txVotes[v.Validator] = v
	return true
}

// Votes returns every stored vote at (account, nonce).
func (s *Store) Votes(account ids.ShortID, nonce uint64) []*Vote {
	nonces, ok := s.rows[account]
	if !ok {
		return nil
	}
	r, ok := nonces[nonce]
	if !ok {
		return nil
	}
	votes := make([]*Vote, 0, len(r.txVotes)+len(r.bottomVotes))
	for _, v := range r.txVotes {
		votes = append(votes, v)
	}
	for _, v := range r.bottomVotes {
		votes = append(votes, v)
	}
	return votes
}

// CountDistinct returns the number of distinct validators that voted for
// the payload at (account, nonce).
func (s *Store) CountDistinct(account ids.ShortID, nonce uint64, payload Payload) int {
	count := 0
	for _, v := range s.Votes(account, nonce) {
		if v.Payload == payload {
			count++
		}
	}
	return count
}

// HasBottom reports whether the validator already cast a bottom vote at
// (account, nonce).
func (s *Store) HasBottom(account ids.ShortID, nonce uint64, validator ids.ShortID) bool {
	nonces, ok := s.rows[account]
	if !ok {
		return false
	}
	r, ok := nonces[nonce]
	if !ok {
		return false
	}
	_, ok = r.bottomVotes[validator]
	return ok
}

// Certificate assembles the votes for the payload at (account, nonce) if
// they meet the threshold of distinct validators.
func (s *Store) Certificate(account ids.ShortID, nonce uint64, payload Payload, threshold int) (*Certificate, bool) {
	members := []*Vote(nil)
	voters := set.NewSet[ids.ShortID](threshold)
	for _, v := range s.Votes(account, nonce) {
		if v.Payload == payload && !voters.Contains(v.Validator) {
			voters.Add(v.Validator)
			members = append(members, v)
		}
	}
	if voters.Len() < threshold {
		return nil, false
	}
	return &Certificate{
		Account: account,
		Nonce:   nonce,
		Payload: payload,
		Votes:   members,
	}, true
}

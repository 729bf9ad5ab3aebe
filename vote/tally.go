// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"bytes"

	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
)

// Tally summarizes the vote bag at one (account, nonce): the payload with
// the most distinct validator votes, its count, and the total number of
// distinct validators that voted anything.
type Tally struct {
	// Payload with the maximum distinct-validator count. Meaningless when
	// Max is zero.
	Payload Payload
	// Max is the count for Payload.
	Max int
	// Total counts validators with at least one vote at the nonce.
	Total int
}

// Evaluate partitions votes by payload and computes the tally. Ties on the
// maximum count break deterministically: bottom sorts before any
// transaction, transactions by hash order. The thresholds the certificate
// processor compares against do not depend on the tie-break.
func Evaluate(votes []*Vote) Tally {
	counts := make(map[Payload]int, 2)
	voters := set.NewSet[ids.ShortID](len(votes))
	for _, v := range votes {
		counts[v.Payload]++
		voters.Add(v.Validator)
	}

	t := Tally{Total: voters.Len()}
	for payload, count := range counts {
		if count > t.Max || (count == t.Max && payloadLess(payload, t.Payload)) {
			t.Max = count
			t.Payload = payload
		}
	}
	return t
}

func payloadLess(a, b Payload) bool {
	if a.Bottom != b.Bottom {
		return a.Bottom
	}
	return bytes.Compare(a.TxID[:], b.TxID[:]) < 0
}

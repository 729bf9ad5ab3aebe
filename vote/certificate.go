// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"github.com/luxfi/ids"
)

// Certificate is a set of votes by distinct validators sharing (account,
// nonce, payload). Certificates are derived views over the vote store;
// they are assembled on demand and never persisted as primary records.
//
// With n validators and fault budget f, a certificate of n-3f votes
// notarizes the nonce (safe to advance) and one of n-f votes finalizes the
// payload (safe to execute).
type Certificate struct {
	Account ids.ShortID
	Nonce   uint64
	Payload Payload
	Votes   []*Vote
}

// Validators lists the distinct signers contributing to the certificate.
func (c *Certificate) Validators() []ids.ShortID {
	vdrs := make([]ids.ShortID, len(c.Votes))
	for i, v := range c.Votes {
		vdrs[i] = v.Validator
	}
	return vdrs
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
)

const (
	// DefaultMaxRecoveryDepth bounds how many recovery layers may wrap a
	// payment before the transaction is rejected.
	DefaultMaxRecoveryDepth = 8
)

// RecoveryContractAddress is the sentinel recipient that marks a transaction
// as a recovery. Funds can never be spent from it; its private key is
// unknown.
var RecoveryContractAddress = ids.ShortID{
	'p', 'a', 'y', 'v', 'm', ' ', 'r', 'e', 'c', 'o', 'v', 'e', 'r', 'y',
}

var (
	errNoFaultBudget        = errors.New("fault budget must be positive")
	errNotEnoughValidators  = errors.New("not enough validators for the fault budget")
	errDuplicateValidator   = errors.New("duplicate validator address")
	errEmptyValidator       = errors.New("empty validator address")
	errRecoveryContractUsed = errors.New("recovery contract address used as validator")
)

// Config collects the protocol parameters of a validator, resolved once at
// startup.
type Config struct {
	// FaultBudget is the number of Byzantine validators tolerated (f).
	FaultBudget int `json:"faultBudget"`

	// Validators is the static validator set. Its length is n.
	Validators []ids.ShortID `json:"validators"`

	// Classic selects the 3f+1 single-quorum variant: no bottom votes and
	// no recovery transactions. Kept for comparison benchmarks.
	Classic bool `json:"classic"`

	// MaxRecoveryDepth overrides DefaultMaxRecoveryDepth when positive.
	MaxRecoveryDepth int `json:"maxRecoveryDepth"`
}

// NumValidators returns n.
func (c *Config) NumValidators() int {
	return len(c.Validators)
}

// FinalityQuorum returns the number of distinct validator votes that commit
// a payload: n - f.
func (c *Config) FinalityQuorum() int {
	return len(c.Validators) - c.FaultBudget
}

// NotarizationQuorum returns the number of distinct validator votes that
// make a nonce safe to advance: n - 3f, or n - f in classic mode where the
// finality quorum is the only threshold.
func (c *Config) NotarizationQuorum() int {
	if c.Classic {
		return c.FinalityQuorum()
	}
	return len(c.Validators) - 3*c.FaultBudget
}

// RecoveryDepthLimit returns the configured recovery nesting cap.
func (c *Config) RecoveryDepthLimit() int {
	if c.MaxRecoveryDepth > 0 {
		return c.MaxRecoveryDepth
	}
	return DefaultMaxRecoveryDepth
}

// ValidatorSet returns the validator set as a set keyed by address.
func (c *Config) ValidatorSet() set.Set[ids.ShortID] {
	vdrs := set.NewSet[ids.ShortID](len(c.Validators))
	for _, vdr := range c.Validators {
		vdrs.Add(vdr)
	}
	return vdrs
}

// Validate checks the fault model: n >= 5f+1 validators (n >= 3f+1 in
// classic mode), all distinct, none empty.
func (c *Config) Validate() error {
	if c.FaultBudget <= 0 {
		return errNoFaultBudget
	}

	minValidators := 5*c.FaultBudget + 1
	if c.Classic {
		minValidators = 3*c.FaultBudget + 1
	}
	if n := len(c.Validators); n < minValidators {
		return fmt.Errorf("%w: have %d, need at least %d for f=%d",
			errNotEnoughValidators, n, minValidators, c.FaultBudget,
		)
	}

	seen := set.NewSet[ids.ShortID](len(c.Validators))
	for _, vdr := range c.Validators {
		if vdr == ids.ShortEmpty {
			return errEmptyValidator
		}
		if vdr == RecoveryContractAddress {
			return errRecoveryContractUsed
		}
		if seen.Contains(vdr) {
			return fmt.Errorf("%w: %s", errDuplicateValidator, vdr)
		}
		seen.Add(vdr)
	}
	return nil
}

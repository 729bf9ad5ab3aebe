// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func validators(n int) []ids.ShortID {
	vdrs := make([]ids.ShortID, n)
	for i := range vdrs {
		vdrs[i] = ids.ShortID{'v', byte(i + 1)}
	}
	return vdrs
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "minimal recovery setup",
			cfg:  Config{FaultBudget: 1, Validators: validators(6)},
		},
		{
			name:    "too few validators",
			cfg:     Config{FaultBudget: 1, Validators: validators(5)},
			wantErr: true,
		},
		{
			name: "classic needs only 3f+1",
			cfg:  Config{FaultBudget: 1, Validators: validators(4), Classic: true},
		},
		{
			name:    "classic below 3f+1",
			cfg:     Config{FaultBudget: 1, Validators: validators(3), Classic: true},
			wantErr: true,
		},
		{
			name:    "zero fault budget",
			cfg:     Config{FaultBudget: 0, Validators: validators(6)},
			wantErr: true,
		},
		{
			name: "duplicate validator",
			cfg: Config{
				FaultBudget: 1,
				Validators:  append(validators(5), ids.ShortID{'v', 1}),
			},
			wantErr: true,
		},
		{
			name: "empty validator address",
			cfg: Config{
				FaultBudget: 1,
				Validators:  append(validators(5), ids.ShortEmpty),
			},
			wantErr: true,
		},
		{
			name: "recovery contract as validator",
			cfg: Config{
				FaultBudget: 1,
				Validators:  append(validators(5), RecoveryContractAddress),
			},
			wantErr: true,
		},
		{
			name: "larger fault budget",
			cfg:  Config{FaultBudget: 2, Validators: validators(11)},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestQuorums(t *testing.T) {
	require := require.New(t)

	cfg := Config{FaultBudget: 1, Validators: validators(6)}
	require.Equal(6, cfg.NumValidators())
	require.Equal(5, cfg.FinalityQuorum())
	require.Equal(3, cfg.NotarizationQuorum())

	classic := Config{FaultBudget: 1, Validators: validators(4), Classic: true}
	require.Equal(3, classic.FinalityQuorum())
	require.Equal(3, classic.NotarizationQuorum())
}

func TestRecoveryDepthLimit(t *testing.T) {
	require := require.New(t)

	cfg := Config{}
	require.Equal(DefaultMaxRecoveryDepth, cfg.RecoveryDepthLimit())
	cfg.MaxRecoveryDepth = 3
	require.Equal(3, cfg.RecoveryDepthLimit())
}

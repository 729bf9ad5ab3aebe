// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/config"
	"github.com/luxfi/payvm/node"
)

const (
	HTTPHostKey      = "http-host"
	HTTPPortKey      = "http-port"
	GenesisFileKey   = "genesis-file"
	StakingKeyKey    = "staking-key"
	FaultBudgetKey   = "fault-budget"
	ValidatorsKey    = "validators"
	PeersKey         = "peers"
	ClassicKey       = "classic"
	RecoveryDepthKey = "max-recovery-depth"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(HTTPHostKey, "127.0.0.1", "Host to listen on")
	flags.Uint16(HTTPPortKey, 9650, "Port to listen on")
	flags.String(GenesisFileKey, "", "Path to the JSON genesis (required)")
	flags.String(StakingKeyKey, "", "This validator's secp256k1 private key (required)")
	flags.Int(FaultBudgetKey, 1, "Number of Byzantine validators tolerated (f)")
	flags.StringSlice(ValidatorsKey, nil, "Addresses of the full validator set")
	flags.StringSlice(PeersKey, nil, "Base URIs of the other validators")
	flags.Bool(ClassicKey, false, "Run the 3f+1 single-quorum variant without recovery")
	flags.Int(RecoveryDepthKey, config.DefaultMaxRecoveryDepth, "Maximum recovery nesting depth")
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*node.Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	httpHost, err := flags.GetString(HTTPHostKey)
	if err != nil {
		return nil, err
	}
	httpPort, err := flags.GetUint16(HTTPPortKey)
	if err != nil {
		return nil, err
	}

	genesisPath, err := flags.GetString(GenesisFileKey)
	if err != nil {
		return nil, err
	}
	genesisBytes, err := os.ReadFile(genesisPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}

	skStr, err := flags.GetString(StakingKeyKey)
	if err != nil {
		return nil, err
	}
	var sk secp256k1.PrivateKey
	if err := sk.UnmarshalText([]byte(`"` + skStr + `"`)); err != nil {
		return nil, fmt.Errorf("failed to parse staking key: %w", err)
	}

	faultBudget, err := flags.GetInt(FaultBudgetKey)
	if err != nil {
		return nil, err
	}

	validatorStrs, err := flags.GetStringSlice(ValidatorsKey)
	if err != nil {
		return nil, err
	}
	validators := make([]ids.ShortID, 0, len(validatorStrs))
	for _, s := range validatorStrs {
		addr, err := ids.ShortFromString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse validator address %q: %w", s, err)
		}
		validators = append(validators, addr)
	}

	peers, err := flags.GetStringSlice(PeersKey)
	if err != nil {
		return nil, err
	}
	classic, err := flags.GetBool(ClassicKey)
	if err != nil {
		return nil, err
	}
	recoveryDepth, err := flags.GetInt(RecoveryDepthKey)
	if err != nil {
		return nil, err
	}

	return &node.Config{
		Protocol: config.Config{
			FaultBudget:      faultBudget,
			Validators:       validators,
			Classic:          classic,
			MaxRecoveryDepth: recoveryDepth,
		},
		StakingKey:   &sk,
		GenesisBytes: genesisBytes,
		PeerURIs:     peers,
		HTTPHost:     httpHost,
		HTTPPort:     httpPort,
	}, nil
}

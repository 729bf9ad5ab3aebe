// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/payvm/api"
	"github.com/luxfi/payvm/config"
	"github.com/luxfi/payvm/genesis"
)

func TestNodeLifecycle(t *testing.T) {
	require := require.New(t)

	keys := make([]*secp256k1.PrivateKey, 6)
	validators := make([]ids.ShortID, len(keys))
	for i := range keys {
		key, err := secp256k1.NewPrivateKey()
		require.NoError(err)
		keys[i] = key
		validators[i] = key.Address()
	}

	g := &genesis.Genesis{
		Allocations: []genesis.Allocation{
			{Address: ids.ShortID{'a'}, Balance: 1000},
		},
	}
	genesisBytes, err := g.Bytes()
	require.NoError(err)

	n, err := New(&Config{
		Protocol: config.Config{
			FaultBudget: 1,
			Validators:  validators,
		},
		StakingKey:   keys[0],
		GenesisBytes: genesisBytes,
		HTTPHost:     "127.0.0.1",
		HTTPPort:     0,
	}, log.NoLog{})
	require.NoError(err)

	errs := make(chan error, 1)
	go func() {
		errs <- n.Dispatch()
	}()

	require.Eventually(func() bool {
		uri := n.URI()
		if uri == "" {
			return false
		}
		_, err := api.NewClient(uri).Health(context.Background())
		return err == nil
	}, 10*time.Second, 50*time.Millisecond)

	acct, err := api.NewClient(n.URI()).GetAccount(context.Background(), ids.ShortID{'a'})
	require.NoError(err)
	require.Equal(uint64(1000), uint64(acct.Balance))

	require.NoError(n.Shutdown())
	require.NoError(<-errs)
}

func TestNodeRejectsBadFaultModel(t *testing.T) {
	require := require.New(t)

	key, err := secp256k1.NewPrivateKey()
	require.NoError(err)
	g := &genesis.Genesis{}
	genesisBytes, err := g.Bytes()
	require.NoError(err)

	_, err = New(&Config{
		Protocol: config.Config{
			FaultBudget: 1,
			Validators:  []ids.ShortID{key.Address()},
		},
		StakingKey:   key,
		GenesisBytes: genesisBytes,
	}, log.NoLog{})
	require.Error(err)
}

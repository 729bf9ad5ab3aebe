// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/payvm/api"
	"github.com/luxfi/payvm/config"
	"github.com/luxfi/payvm/engine"
	"github.com/luxfi/payvm/genesis"
	"github.com/luxfi/payvm/tx"
	payvmjson "github.com/luxfi/payvm/utils/json"
	"github.com/luxfi/payvm/utils/timer/mockable"
)

// lateHandler lets the HTTP servers start before the engines that back
// them exist, so every broadcaster can be configured with its peers' URIs.
type lateHandler struct {
	mu      sync.RWMutex
	handler http.Handler
}

func (h *lateHandler) set(handler http.Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

func (h *lateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	handler := h.handler
	h.mu.RUnlock()
	if handler == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	handler.ServeHTTP(w, r)
}

// TestClusterOverHTTP runs the full happy path over real HTTP: every
// validator receives the signed transaction, votes fan out through the
// broadcasters, and every validator finalizes without any further client
// involvement.
func TestClusterOverHTTP(t *testing.T) {
	require := require.New(t)

	const n = 6
	keys := make([]*secp256k1.PrivateKey, n)
	validators := make([]ids.ShortID, n)
	for i := range keys {
		key, err := secp256k1.NewPrivateKey()
		require.NoError(err)
		keys[i] = key
		validators[i] = key.Address()
	}
	cfg := config.Config{FaultBudget: 1, Validators: validators}

	clientKey, err := secp256k1.NewPrivateKey()
	require.NoError(err)
	sender := clientKey.Address()
	g := &genesis.Genesis{Allocations: []genesis.Allocation{{Address: sender, Balance: 1000}}}

	handlers := make([]*lateHandler, n)
	servers := make([]*httptest.Server, n)
	uris := make([]string, n)
	for i := range handlers {
		handlers[i] = &lateHandler{}
		servers[i] = httptest.NewServer(handlers[i])
		t.Cleanup(servers[i].Close)
		uris[i] = servers[i].URL
	}

	engines := make([]*engine.Engine, n)
	for i := range engines {
		peerURIs := make([]string, 0, n-1)
		for j, uri := range uris {
			if j != i {
				peerURIs = append(peerURIs, uri)
			}
		}
		broadcaster := NewBroadcaster(log.NoLog{}, peerURIs)
		t.Cleanup(broadcaster.Close)

		eng, err := engine.New(&cfg, keys[i], g, memdb.New(), broadcaster, log.NoLog{}, metric.NewRegistry())
		require.NoError(err)
		engines[i] = eng

		clock := &mockable.Clock{}
		service := api.NewService(eng, log.NoLog{}, clock, "payvm/test")
		codec := payvmjson.NewCodec()
		rpcServer := rpc.NewServer()
		rpcServer.RegisterCodec(codec, "application/json")
		rpcServer.RegisterCodec(codec, "application/json;charset=UTF-8")
		require.NoError(rpcServer.RegisterService(service, api.Name))

		router := mux.NewRouter()
		router.Handle(api.Endpoint, rpcServer)
		handlers[i].set(router)
	}

	payment, err := tx.Sign(clientKey, ids.ShortID{'r', '1'}, 100, 0, nil)
	require.NoError(err)

	ctx := context.Background()
	for _, uri := range uris {
		v, err := api.NewClient(uri).SendRawTransaction(ctx, payment.Bytes())
		require.NoError(err)
		require.Equal(sender, v.Account)
	}

	require.Eventually(func() bool {
		for _, eng := range engines {
			acct := eng.Account(sender)
			if acct.Finalized != 0 || acct.Nonce != 1 || acct.Balance != 900 {
				return false
			}
		}
		return true
	}, 10*time.Second, 50*time.Millisecond)
}

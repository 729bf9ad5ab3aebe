// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node assembles a validator process: engine, peer broadcaster,
// and the HTTP front end.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/rs/cors"

	"github.com/luxfi/payvm/api"
	"github.com/luxfi/payvm/config"
	"github.com/luxfi/payvm/engine"
	"github.com/luxfi/payvm/genesis"
	"github.com/luxfi/payvm/network"
	payvmjson "github.com/luxfi/payvm/utils/json"
	"github.com/luxfi/payvm/utils/timer/mockable"
)

// Version is reported by the health endpoint.
const Version = "payvm/1.0.0"

const shutdownTimeout = 10 * time.Second

// Config collects everything a validator process needs beyond the
// protocol parameters.
type Config struct {
	Protocol config.Config

	// StakingKey signs this validator's votes. Its address must be in the
	// validator set.
	StakingKey *secp256k1.PrivateKey

	// GenesisBytes is the JSON genesis content.
	GenesisBytes []byte

	// PeerURIs are the base URIs of the other validators.
	PeerURIs []string

	HTTPHost string
	HTTPPort uint16
}

// Node is a running validator.
type Node struct {
	log         log.Logger
	engine      *engine.Engine
	broadcaster *network.Broadcaster
	httpServer  *http.Server
	listener    net.Listener
	clock       mockable.Clock
}

// New wires a validator node. It fails on configuration errors, including
// a fault model the validator count cannot support.
func New(cfg *Config, logger log.Logger) (*Node, error) {
	g, err := genesis.Parse(cfg.GenesisBytes)
	if err != nil {
		return nil, err
	}

	registry := metric.NewRegistry()
	broadcaster := network.NewBroadcaster(logger, cfg.PeerURIs)

	eng, err := engine.New(
		&cfg.Protocol,
		cfg.StakingKey,
		g,
		memdb.New(),
		broadcaster,
		logger,
		registry,
	)
	if err != nil {
		broadcaster.Close()
		return nil, err
	}

	n := &Node{
		log:         logger,
		engine:      eng,
		broadcaster: broadcaster,
	}

	service := api.NewService(eng, logger, &n.clock, Version)
	codec := payvmjson.NewCodec()
	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(codec, "application/json")
	rpcServer.RegisterCodec(codec, "application/json;charset=UTF-8")
	if interceptor, err := metric.NewAPIInterceptor(registry); err == nil {
		rpcServer.RegisterInterceptFunc(interceptor.InterceptRequest)
		rpcServer.RegisterAfterFunc(interceptor.AfterRequest)
	}
	if err := rpcServer.RegisterService(service, api.Name); err != nil {
		broadcaster.Close()
		return nil, err
	}

	router := mux.NewRouter()
	router.Handle(api.Endpoint, rpcServer)
	router.Handle("/metrics", metric.HandlerFor(registry))

	n.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler:           cors.Default().Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return n, nil
}

// Dispatch starts serving the API and blocks until shutdown.
func (n *Node) Dispatch() error {
	listener, err := net.Listen("tcp", n.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", n.httpServer.Addr, err)
	}
	n.listener = listener

	n.log.Info("validator API listening",
		log.Stringer("address", listener.Addr()),
		log.String("endpoint", api.Endpoint),
	)

	err = n.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// URI returns the base URI the node is serving on. Valid after Dispatch
// started listening.
func (n *Node) URI() string {
	if n.listener == nil {
		return ""
	}
	return "http://" + n.listener.Addr().String()
}

// Shutdown stops the HTTP server, the broadcaster, and the engine.
func (n *Node) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := n.httpServer.Shutdown(ctx)
	n.broadcaster.Close()
	if closeErr := n.engine.Close(); err == nil {
		err = closeErr
	}
	n.log.Info("validator shut down")
	return err
}

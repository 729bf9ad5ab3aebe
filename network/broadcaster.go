// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package network fans locally signed votes out to peer validators.
package network

import (
	"context"
	"sync"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/payvm/api"
	"github.com/luxfi/payvm/vote"
)

const (
	queueSize   = 1024
	sendTimeout = 5 * time.Second
)

// Broadcaster delivers votes to every configured peer. SendVote never
// blocks the caller: votes are queued and fanned out by a background
// worker, and delivery failures are dropped after logging. Losing a
// broadcast costs liveness for the affected account only until the client
// or another peer re-propagates, never safety.
type Broadcaster struct {
	log   log.Logger
	peers []*api.Client

	queue    chan *vote.Vote
	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

// NewBroadcaster starts a broadcaster over the peer URIs. The returned
// broadcaster must be closed.
func NewBroadcaster(logger log.Logger, peerURIs []string) *Broadcaster {
	b := &Broadcaster{
		log:     logger,
		peers:   make([]*api.Client, 0, len(peerURIs)),
		queue:   make(chan *vote.Vote, queueSize),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, uri := range peerURIs {
		b.peers = append(b.peers, api.NewClient(uri))
	}
	go b.run()
	return b
}

// SendVote enqueues the vote for delivery to all peers. If the queue is
// full the vote is dropped.
func (b *Broadcaster) SendVote(v *vote.Vote) {
	select {
	case b.queue <- v:
	case <-b.stopped:
	default:
		b.log.Warn("broadcast queue full, dropping vote",
			log.Stringer("account", v.Account),
			log.Uint64("nonce", v.Nonce),
		)
	}
}

func (b *Broadcaster) run() {
	defer close(b.done)
	for {
		select {
		case v := <-b.queue:
			b.fanOut(v)
		case <-b.stopped:
			// Drain what was already queued.
			for {
				select {
				case v := <-b.queue:
					b.fanOut(v)
				default:
					return
				}
			}
		}
	}
}

func (b *Broadcaster) fanOut(v *vote.Vote) {
	wg := sync.WaitGroup{}
	for _, peer := range b.peers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			if err := peer.SubmitVote(ctx, v); err != nil {
				b.log.Debug("failed to deliver vote to peer", log.Err(err))
			}
		}()
	}
	wg.Wait()
}

// Close stops the worker after draining the queue.
func (b *Broadcaster) Close() {
	b.stopOnce.Do(func() {
		close(b.stopped)
	})
	<-b.done
}

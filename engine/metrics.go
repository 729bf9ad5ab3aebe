// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/luxfi/metric"
)

type engineMetrics struct {
	txsAccepted         metric.Counter
	txsRejected         metric.Counter
	votesIngested       metric.Counter
	votesDropped        metric.Counter
	bottomVotesCast     metric.Counter
	nonceAdvances       metric.Counter
	txsFinalized        metric.Counter
	recoveriesFinalized metric.Counter
	accounts            metric.Gauge
}

func newMetrics(registry metric.Registry) *engineMetrics {
	m := metric.NewWithRegistry("engine", registry)
	return &engineMetrics{
		txsAccepted: m.NewCounter(
			"txs_accepted",
			"Number of transactions that passed validation and were voted for",
		),
		txsRejected: m.NewCounter(
			"txs_rejected",
			"Number of transactions rejected by validation",
		),
		votesIngested: m.NewCounter(
			"votes_ingested",
			"Number of votes appended to the vote store",
		),
		votesDropped: m.NewCounter(
			"votes_dropped",
			"Number of votes dropped as duplicates",
		),
		bottomVotesCast: m.NewCounter(
			"bottom_votes_cast",
			"Number of bottom votes this validator has cast",
		),
		nonceAdvances: m.NewCounter(
			"nonce_advances",
			"Number of account nonce advances",
		),
		txsFinalized: m.NewCounter(
			"txs_finalized",
			"Number of finality certificates executed",
		),
		recoveriesFinalized: m.NewCounter(
			"recoveries_finalized",
			"Number of finalized transactions that were recoveries",
		),
		accounts: m.NewGauge(
			"accounts",
			"Number of referenced accounts",
		),
	}
}

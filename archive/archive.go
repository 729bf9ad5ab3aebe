// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package archive keeps the full bytes of every transaction the validator
// has accepted, addressed by content hash. Votes travel as hashes only, so
// this is where finality certificates are resolved back into executable
// transactions and where recovery snapshots find the finalized payload.
package archive

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/tx"
)

// Archive is a write-once store of transaction bytes over a database, with
// a decoded in-memory cache. Safe for use under the engine's serialization
// only.
type Archive struct {
	db    database.Database
	cache map[ids.ID]*tx.Tx
}

// New returns an archive over the given database. Previously persisted
// transactions are decoded lazily on first access.
func New(db database.Database) *Archive {
	return &Archive{
		db:    db,
		cache: make(map[ids.ID]*tx.Tx),
	}
}

// Put stores the transaction.
func (a *Archive) Put(t *tx.Tx) error {
	id := t.ID()
	if _, ok := a.cache[id]; ok {
		return nil
	}
	if err := a.db.Put(id[:], t.Bytes()); err != nil {
		return fmt.Errorf("failed to archive transaction %s: %w", id, err)
	}
	a.cache[id] = t
	return nil
}

// Get returns the transaction with the given ID, if the validator has it.
func (a *Archive) Get(id ids.ID) (*tx.Tx, bool) {
	if t, ok := a.cache[id]; ok {
		return t, true
	}
	bytes, err := a.db.Get(id[:])
	if err != nil {
		return nil, false
	}
	t, err := tx.Parse(bytes)
	if err != nil {
		return nil, false
	}
	a.cache[id] = t
	return t, true
}

// Has reports whether the transaction is archived.
func (a *Archive) Has(id ids.ID) bool {
	if _, ok := a.cache[id]; ok {
		return true
	}
	has, err := a.db.Has(id[:])
	return err == nil && has
}

// Close releases the underlying database.
func (a *Archive) Close() error {
	err := a.db.Close()
	if err != nil && !errors.Is(err, database.ErrClosed) {
		return err
	}
	return nil
}

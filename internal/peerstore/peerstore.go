// Package peerstore persists the known peer address set across restarts
// (§C supplemented feature): a restarted node can redial its last-known
// peers immediately, before gossip repopulates the set, without persisting
// any chain or mempool state (the "no persistent on-disk chain store"
// non-goal is untouched). Repurposed from the teacher's sharechain bbolt
// store (internal/sharechain/boltstore_test.go's NewBoltStore/Add/Get/Count
// shape) onto a single bucket of peer addresses instead of a share DAG.
package peerstore

import (
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

var peersBucket = []byte("peers")

// Store is a bbolt-backed address book, keyed by a peer's dedup digest.
type Store struct {
	db *bbolt.DB
	dp digest.Provider
}

// Open opens (creating if necessary) the address book at path.
func Open(path string, dp digest.Provider) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("peerstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(peersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("peerstore: create bucket: %w", err)
	}
	return &Store{db: db, dp: dp}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add persists p, keyed by its dedup digest (idempotent on repeat adds).
func (s *Store) Add(p chaintypes.PeerAddr) error {
	key := p.Digest(s.dp)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(peersBucket).Put([]byte(key), []byte(p.Encode()))
	})
}

// Remove deletes p from the address book, e.g. after it is pruned for an
// I/O failure (§4.7).
func (s *Store) Remove(p chaintypes.PeerAddr) error {
	key := p.Digest(s.dp)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(peersBucket).Delete([]byte(key))
	})
}

// All returns every persisted peer address, in no particular order.
func (s *Store) All() ([]chaintypes.PeerAddr, error) {
	var out []chaintypes.PeerAddr
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(peersBucket).ForEach(func(_, value []byte) error {
			p, err := chaintypes.DecodePeerAddr(string(value))
			if err != nil {
				return fmt.Errorf("peerstore: decode stored peer: %w", err)
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of persisted peers.
func (s *Store) Count() int {
	var n int
	s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(peersBucket).Stats().KeyN
		return nil
	})
	return n
}

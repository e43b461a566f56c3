package core

// KVStore is a standalone, durable implementation of HostContext, used by
// the devnet/standalone runner and by tests. Grounded on the teacher's
// core/ledger.go: the same open-WAL/replay-then-serve, append-then-
// periodic-snapshot durability shape, trimmed from a full block/UTXO/
// contract ledger down to the plain address→bytes state table spec.md §3–4
// actually needs. Adds a bounded front cache via
// github.com/hashicorp/golang-lru/v2 — a dependency the teacher's own
// go.mod declares (indirectly, via the chi/grpc dependency graph) but never
// imports anywhere in the source tree.

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

// StoreConfig configures a KVStore's durability files.
type StoreConfig struct {
	WALPath          string
	SnapshotPath     string
	SnapshotInterval int // write a snapshot and truncate the WAL every N SetState calls; 0 disables
	CacheSize        int // bounded read-cache entries; 0 disables the cache
}

// walRecord is one line of the write-ahead log: one atomic SetState batch.
type walRecord struct {
	Updates map[string][]byte `json:"updates"`
}

// KVStore is an in-process, WAL-backed key/value state table.
type KVStore struct {
	mu               sync.RWMutex
	state            map[string][]byte
	wal              *os.File
	snapshotPath     string
	snapshotInterval int
	writesSinceSnap  int
	cache            *lru.Cache[string, []byte]
}

// NewKVStore opens (creating if absent) the WAL and snapshot files named in
// cfg, loads any existing snapshot, and replays the WAL on top of it.
func NewKVStore(cfg StoreConfig) (store *KVStore, err error) {
	wal, err := os.OpenFile(cfg.WALPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open WAL: %w", err)
	}
	defer func() {
		if err != nil {
			_ = wal.Close()
		}
	}()

	store = &KVStore{
		state:            make(map[string][]byte),
		wal:              wal,
		snapshotPath:     cfg.SnapshotPath,
		snapshotInterval: cfg.SnapshotInterval,
	}

	if cfg.CacheSize > 0 {
		store.cache, err = lru.New[string, []byte](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("init read cache: %w", err)
		}
	}

	if cfg.SnapshotPath != "" {
		if f, openErr := os.Open(cfg.SnapshotPath); openErr == nil {
			decodeErr := json.NewDecoder(f).Decode(&store.state)
			_ = f.Close()
			if decodeErr != nil {
				return nil, fmt.Errorf("decode snapshot: %w", decodeErr)
			}
		} else if !os.IsNotExist(openErr) {
			return nil, fmt.Errorf("open snapshot: %w", openErr)
		}
	}

	scanner := bufio.NewScanner(wal)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var rec walRecord
		if err = json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("WAL unmarshal: %w", err)
		}
		for addr, data := range rec.Updates {
			store.state[addr] = data
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("WAL scan: %w", err)
	}

	log.Infof("store: loaded %d addresses (wal=%s snapshot=%s)", len(store.state), cfg.WALPath, cfg.SnapshotPath)
	return store, nil
}

// GetState implements HostContext.
func (s *KVStore) GetState(addresses []string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(addresses))
	for _, addr := range addresses {
		if s.cache != nil {
			if data, ok := s.cache.Get(addr); ok {
				out = append(out, Entry{Address: addr, Data: data})
				continue
			}
		}
		data, ok := s.state[addr]
		if !ok {
			continue
		}
		if s.cache != nil {
			s.cache.Add(addr, data)
		}
		out = append(out, Entry{Address: addr, Data: data})
	}
	return out, nil
}

// SetState implements HostContext: applies updates in memory, appends one
// WAL line covering the whole batch, and snapshots on the configured
// interval. A failure at any step leaves the in-memory map unmutated by any
// later update in the same call — SetState itself either records the full
// batch or none of it.
func (s *KVStore) SetState(updates map[string][]byte) error {
	if len(updates) == 0 {
		return nil
	}

	data, err := json.Marshal(walRecord{Updates: updates})
	if err != nil {
		return fmt.Errorf("marshal WAL record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.wal.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write WAL: %w", err)
	}
	if err := s.wal.Sync(); err != nil {
		return fmt.Errorf("sync WAL: %w", err)
	}

	for addr, val := range updates {
		s.state[addr] = val
		if s.cache != nil {
			s.cache.Add(addr, val)
		}
	}

	s.writesSinceSnap++
	if s.snapshotInterval > 0 && s.writesSinceSnap >= s.snapshotInterval {
		if err := s.snapshotLocked(); err != nil {
			log.Errorf("store: snapshot failed: %v", err)
		}
	}
	return nil
}

// snapshotLocked writes the full state to SnapshotPath and truncates the
// WAL. Caller must hold s.mu.
func (s *KVStore) snapshotLocked() error {
	if s.snapshotPath == "" {
		return nil
	}
	f, err := os.Create(s.snapshotPath)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(s.state); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := s.wal.Close(); err != nil {
		return err
	}
	wal, err := os.Create(s.wal.Name())
	if err != nil {
		return err
	}
	s.wal = wal
	s.writesSinceSnap = 0
	log.Infof("store: snapshot saved to %s; WAL truncated", s.snapshotPath)
	return nil
}

// Close flushes and closes the underlying WAL file.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wal.Close()
}

// Package storage provides the ordered key-value backends rotz keeps its graph in.
//
// BadgerStore provides persistent storage using BadgerDB.
// It implements the Store interface with full ACID transaction support.
package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerStore provides persistent storage using BadgerDB.
//
// Features:
//   - ACID transactions for all operations
//   - Persistent storage to disk, or RAM-only for tests
//   - Prefix-ordered iteration
//   - Automatic crash recovery
//
// The graph keeps three key families in one keyspace (name index, "vtx" alias lists,
// "edg" adjacency lists); BadgerStore does not interpret them.
//
// Example:
//
//	store, err := storage.NewBadgerStore(storage.Options{Path: "rotz.badger", Create: true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
type BadgerStore struct {
	db       *badger.DB
	mu       sync.RWMutex // Protects closed
	closed   bool
	path     string
	readOnly bool
	inMemory bool // True if running in memory-only mode (testing)
	log      logrus.FieldLogger
}

// NewBadgerStore opens (and optionally creates) a BadgerDB directory.
//
// Options honoured: Path, ReadOnly, Create, InMemory, SyncWrites, Logger.
// A read-only store cannot be created; the directory must exist.
func NewBadgerStore(opts Options) (*BadgerStore, error) {
	if !opts.InMemory {
		if opts.Path == "" {
			return nil, fmt.Errorf("badger: data directory is required")
		}
		if _, err := os.Stat(opts.Path); err != nil {
			if !os.IsNotExist(err) || !opts.Create || opts.ReadOnly {
				return nil, fmt.Errorf("badger: %s: %w", opts.Path, err)
			}
		}
	}

	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	if opts.ReadOnly {
		badgerOpts = badgerOpts.WithReadOnly(true)
	}

	if opts.SyncWrites {
		badgerOpts = badgerOpts.WithSyncWrites(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(badgerLogger{opts.Logger})
	} else {
		// Use a quiet logger by default
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	// A rotz catalogue is small: tens of thousands of short keys at most.
	badgerOpts = badgerOpts.
		WithMemTableSize(8 << 20).      // 8MB memtable
		WithValueLogFileSize(32 << 20). // 32MB value log
		WithNumMemtables(2).
		WithNumLevelZeroTables(2).
		WithNumLevelZeroTablesStall(4).
		WithValueThreshold(1 << 10). // adjacency lists stay in the LSM tree
		WithBlockCacheSize(8 << 20).
		WithIndexCacheSize(4 << 20)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return &BadgerStore{
		db:       db,
		path:     opts.Path,
		readOnly: opts.ReadOnly,
		inMemory: opts.InMemory,
		log:      opts.Logger,
	}, nil
}

// NewBadgerStoreInMemory creates an in-memory BadgerDB for testing.
//
// Data is not persisted and is lost when the store is closed.
func NewBadgerStoreInMemory() (*BadgerStore, error) {
	return NewBadgerStore(Options{InMemory: true})
}

// IsInMemory returns true if the store is running in memory-only mode.
func (b *BadgerStore) IsInMemory() bool {
	return b.inMemory
}

// Backend implements Store.
func (b *BadgerStore) Backend() string { return BackendBadger }

// Path implements Store.
func (b *BadgerStore) Path() string {
	if b.inMemory {
		return ""
	}
	return b.path
}

// View implements Store.
func (b *BadgerStore) View(fn func(txn Txn) error) error {
	return b.withView(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn, readOnly: true})
	})
}

// Update implements Store.
func (b *BadgerStore) Update(fn func(txn Txn) error) error {
	return b.withUpdate(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

func (b *BadgerStore) ensureOpen() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrStorageClosed
	}
	return nil
}

func (b *BadgerStore) withView(fn func(txn *badger.Txn) error) error {
	if err := b.ensureOpen(); err != nil {
		return err
	}
	return b.db.View(fn)
}

// withUpdate refuses writes on a read-only store before badger gets to see them.
func (b *BadgerStore) withUpdate(fn func(txn *badger.Txn) error) error {
	if err := b.ensureOpen(); err != nil {
		return err
	}
	if b.readOnly {
		return ErrReadOnly
	}
	return b.db.Update(fn)
}

// Close implements Store.
func (b *BadgerStore) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	return b.db.Close()
}

// Sync forces a sync of all data to disk.
func (b *BadgerStore) Sync() error {
	if err := b.ensureOpen(); err != nil {
		return err
	}
	return b.db.Sync()
}

// Size returns the approximate size of the database in bytes.
func (b *BadgerStore) Size() (lsm, vlog int64) {
	if b.ensureOpen() != nil {
		return 0, 0
	}

	return b.db.Size()
}

// badgerTxn adapts *badger.Txn to Txn.
type badgerTxn struct {
	txn      *badger.Txn
	readOnly bool
}

func (t *badgerTxn) Get(key []byte) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	item, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// Item values are only valid inside item.Value; hand out a copy that lives
	// as long as the transaction.
	return item.ValueCopy(nil)
}

func (t *badgerTxn) Put(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if err := validKey(key); err != nil {
		return err
	}
	return t.txn.Set(key, value)
}

func (t *badgerTxn) Delete(key []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if err := validKey(key); err != nil {
		return err
	}
	return t.txn.Delete(key)
}

func (t *badgerTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		key := item.Key()
		err := item.Value(func(val []byte) error {
			return fn(key, val)
		})
		if errors.Is(err, ErrStopIteration) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// badgerLogger routes BadgerDB's internal logging through logrus. Badger reports
// routine events (compactions, table flushes) at info level; they are demoted to debug.
type badgerLogger struct {
	log logrus.FieldLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// Verify BadgerStore implements Store interface
var _ Store = (*BadgerStore)(nil)

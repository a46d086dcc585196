// Package storage provides the ordered key-value backends rotz keeps its graph in.
//
// The graph engine never talks to a concrete database. It sees a Store, which hands out
// short transactions (Txn) supporting get, put, delete and prefix-ordered iteration.
// Two implementations are available and picked at construction time by Open:
//
//   - "badger": BadgerDB, an LSM tree (github.com/dgraph-io/badger/v4)
//   - "bolt":   bbolt, a copy-on-write B+tree in a single file (go.etcd.io/bbolt)
//
// Example:
//
//	store, err := storage.Open(storage.Options{
//		Backend: storage.BackendBadger,
//		Path:    "rotz.badger",
//		Create:  true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.Update(func(txn storage.Txn) error {
//		return storage.Append(txn, []byte("key"), []byte("more"))
//	})
package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open.
const (
	BackendBadger = "badger"
	BackendBolt   = "bolt"
)

// Storage error types
var (
	ErrNotFound       = errors.New("key not found")
	ErrStorageClosed  = errors.New("storage is closed")
	ErrReadOnly       = errors.New("storage is read-only")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrInvalidKey     = errors.New("invalid key")
)

// Txn is a single backend transaction.
//
// Values returned by Get and passed to Iterate callbacks are owned by the backend and
// are only valid until the transaction ends. Callers that keep them must copy.
type Txn interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	Put(key, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error

	// Iterate calls fn for every entry whose key starts with prefix, in ascending
	// byte order. Returning a non-nil error from fn stops the iteration and is
	// returned from Iterate, except for ErrStopIteration which stops silently.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}

// ErrStopIteration can be returned from an Iterate callback to end the walk early.
var ErrStopIteration = errors.New("stop iteration")

// Store is an ordered byte-key store with ACID transactions.
type Store interface {
	// View runs fn inside a read-only transaction.
	View(fn func(txn Txn) error) error

	// Update runs fn inside a read-write transaction. The transaction commits
	// when fn returns nil and is discarded otherwise.
	Update(fn func(txn Txn) error) error

	// Compact defragments the backend files. It is a maintenance operation and is
	// never run implicitly.
	Compact() error

	// Backup streams a consistent snapshot of the store to w.
	Backup(w io.Writer) error

	// Backend returns the backend name (BackendBadger or BackendBolt).
	Backend() string

	// Path returns the on-disk location, or "" for in-memory stores.
	Path() string

	// Close releases the store. Closing twice is a no-op.
	Close() error
}

// Options configures Open.
type Options struct {
	// Backend selects the implementation. Empty means BackendBadger.
	Backend string

	// Path is the directory (badger) or file (bolt) holding the data.
	// Ignored when InMemory is set.
	Path string

	// ReadOnly opens the store without write access. Update returns ErrReadOnly.
	ReadOnly bool

	// Create creates the store if it does not exist yet.
	Create bool

	// InMemory keeps all data in RAM. Only supported by badger, used in tests.
	InMemory bool

	// SyncWrites forces an fsync after each commit.
	SyncWrites bool

	// Logger receives backend diagnostics. Nil silences them.
	Logger logrus.FieldLogger
}

// Open creates the Store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendBadger:
		return NewBadgerStore(opts)
	case BackendBolt:
		return NewBoltStore(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Append concatenates data to the value stored under key, or stores data if the key
// is absent. It is the read-modify-write "putcat" the graph uses for alias and
// adjacency lists.
func Append(txn Txn, key, data []byte) error {
	old, err := txn.Get(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	buf := make([]byte, 0, len(old)+len(data))
	buf = append(buf, old...)
	buf = append(buf, data...)
	return txn.Put(key, buf)
}

// Get copies the value under key out of a fresh read transaction.
func Get(s Store, key []byte) ([]byte, error) {
	var out []byte
	err := s.View(func(txn Txn) error {
		val, err := txn.Get(key)
		if err != nil {
			return err
		}
		out = append([]byte(nil), val...)
		return nil
	})
	return out, err
}

func validKey(key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}
	return nil
}

package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

// rootBucket holds every rotz key. bbolt needs at least one bucket; the graph's key
// families share it the same way they share badger's single keyspace.
var rootBucket = []byte("rotz")

// compactTxMaxSize bounds the size of each transaction bolt.Compact opens on the
// destination file.
const compactTxMaxSize = 64 << 20

// BoltStore provides persistent storage in a single bbolt B+tree file.
//
// bbolt allows one writer and many readers per file; a second process opening the
// same file for writing blocks for up to the open timeout and then fails.
type BoltStore struct {
	db       *bolt.DB
	mu       sync.RWMutex // Protects db swaps during Compact and closed
	closed   bool
	path     string
	readOnly bool
	log      logrus.FieldLogger
}

// NewBoltStore opens (and optionally creates) a bbolt file.
//
// Options honoured: Path, ReadOnly, Create, SyncWrites, Logger.
func NewBoltStore(opts Options) (*BoltStore, error) {
	if opts.InMemory {
		return nil, errors.New("bolt: in-memory mode is not supported")
	}
	if opts.Path == "" {
		return nil, errors.New("bolt: database file is required")
	}
	if _, err := os.Stat(opts.Path); err != nil {
		if !os.IsNotExist(err) || !opts.Create || opts.ReadOnly {
			return nil, fmt.Errorf("bolt: %s: %w", opts.Path, err)
		}
	}

	s := &BoltStore{
		path:     opts.Path,
		readOnly: opts.ReadOnly,
		log:      opts.Logger,
	}
	db, err := s.open(opts.SyncWrites)
	if err != nil {
		return nil, err
	}
	s.db = db
	return s, nil
}

func (s *BoltStore) open(syncWrites bool) (*bolt.DB, error) {
	db, err := bolt.Open(s.path, 0o644, &bolt.Options{
		Timeout:  time.Second,
		ReadOnly: s.readOnly,
		NoSync:   !syncWrites,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", s.path)
	}
	if s.readOnly {
		return db, nil
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create bucket %q", rootBucket)
	}
	return db, nil
}

// Backend implements Store.
func (s *BoltStore) Backend() string { return BackendBolt }

// Path implements Store.
func (s *BoltStore) Path() string { return s.path }

// View implements Store.
func (s *BoltStore) View(fn func(txn Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStorageClosed
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTxn{bucket: tx.Bucket(rootBucket), readOnly: true})
	})
}

// Update implements Store.
func (s *BoltStore) Update(fn func(txn Txn) error) error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStorageClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTxn{bucket: tx.Bucket(rootBucket)})
	})
}

// Compact rewrites the database into a fresh file, dropping free pages, and swaps it
// in place of the original.
func (s *BoltStore) Compact() error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStorageClosed
	}

	tmpPath := s.path + ".compact"
	os.Remove(tmpPath)
	dst, err := bolt.Open(tmpPath, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return errors.Wrapf(err, "open %q", tmpPath)
	}
	if err := bolt.Compact(dst, s.db, compactTxMaxSize); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "compact")
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "close %q", tmpPath)
	}

	noSync := s.db.NoSync
	if err := s.db.Close(); err != nil {
		return errors.Wrapf(err, "close %q", s.path)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		// The original file is intact; reopen it and report.
		if db, rerr := s.open(!noSync); rerr == nil {
			s.db = db
		} else {
			s.closed = true
		}
		return errors.Wrapf(err, "replace %q", s.path)
	}
	db, err := s.open(!noSync)
	if err != nil {
		s.closed = true
		return err
	}
	s.db = db
	if s.log != nil {
		s.log.WithField("path", s.path).Debug("bolt compaction finished")
	}
	return nil
}

// Backup writes a consistent copy of the database file to w.
func (s *BoltStore) Backup(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStorageClosed
	}
	return s.db.View(func(tx *bolt.Tx) error {
		_, err := tx.WriteTo(w)
		return errors.Wrap(err, "backup")
	})
}

// Close implements Store.
func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// boltTxn adapts a bbolt bucket to Txn. A nil bucket is a read-only file that was
// never written to; it behaves as an empty store.
type boltTxn struct {
	bucket   *bolt.Bucket
	readOnly bool
}

func (t *boltTxn) Get(key []byte) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if t.bucket == nil {
		return nil, ErrNotFound
	}
	val := t.bucket.Get(key)
	if val == nil {
		return nil, ErrNotFound
	}
	return val, nil
}

func (t *boltTxn) Put(key, value []byte) error {
	if t.readOnly || t.bucket == nil {
		return ErrReadOnly
	}
	if err := validKey(key); err != nil {
		return err
	}
	return t.bucket.Put(key, value)
}

func (t *boltTxn) Delete(key []byte) error {
	if t.readOnly || t.bucket == nil {
		return ErrReadOnly
	}
	if err := validKey(key); err != nil {
		return err
	}
	return t.bucket.Delete(key)
}

func (t *boltTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	if t.bucket == nil {
		return nil
	}
	c := t.bucket.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := fn(k, v); err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Verify BoltStore implements Store interface
var _ Store = (*BoltStore)(nil)

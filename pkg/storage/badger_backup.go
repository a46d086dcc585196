package storage

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/dgraph-io/badger/v4"
)

// Compact flattens the LSM tree into a single level and then garbage collects the
// value log until a GC round has nothing left to rewrite.
func (b *BadgerStore) Compact() error {
	if err := b.ensureOpen(); err != nil {
		return err
	}
	if b.readOnly {
		return ErrReadOnly
	}

	if err := b.db.Flatten(runtime.NumCPU()); err != nil {
		return fmt.Errorf("flatten failed: %w", err)
	}
	if b.inMemory {
		// No value log to collect.
		return nil
	}

	rounds := 0
	for {
		err := b.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			return fmt.Errorf("value log gc failed: %w", err)
		}
		rounds++
	}
	if b.log != nil {
		b.log.WithField("gc_rounds", rounds).Debug("badger compaction finished")
	}
	return nil
}

// Backup streams a full backup (since=0) of the store to w.
func (b *BadgerStore) Backup(w io.Writer) error {
	if err := b.ensureOpen(); err != nil {
		return err
	}
	if _, err := b.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	return nil
}


package rotz

import (
	"fmt"
	"io"

	"github.com/rotzdb/rotz/pkg/storage"
)

// Dump writes every raw key-value pair of the store as "KEY\tVALUE", the key quoted
// Go-style and the value in hex. It is a debugging aid; the format is not stable.
func (db *DB) Dump(w io.Writer) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	return db.store.View(func(txn storage.Txn) error {
		return txn.Iterate(nil, func(k, v []byte) error {
			_, err := fmt.Fprintf(w, "%q\t%x\n", k, v)
			return err
		})
	})
}

// Backup streams a consistent snapshot of the store to w in the backend's native
// backup format (badger's backup stream or a bbolt file image).
func (db *DB) Backup(w io.Writer) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := db.store.Backup(w); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	db.log.WithField("backend", db.store.Backend()).Info("backup written")
	return nil
}

package rotz

import (
	"errors"
	"fmt"

	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
)

// Rename gives tag oldName the name newName: newName is added as an alias, then the
// alias oldName is dropped. If newName already names another tag nothing changes and
// an error wrapping ErrTargetExists is returned. An unknown oldName is not an error.
func (db *DB) Rename(oldName, newName string) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	tid, oldStored, err := db.tagVertex(oldName)
	if err != nil {
		return err
	}
	if tid == graph.NoVertex {
		db.miss("tag", oldName)
		return nil
	}
	newStored, err := namespace.Tag(newName)
	if err != nil {
		return fmt.Errorf("no NEWNAME given: %w", err)
	}
	if newStored == oldStored {
		return nil
	}

	if _, err := db.graph.AddAlias(tid, newStored); err != nil {
		if errors.Is(err, graph.ErrAliasConflict) {
			return fmt.Errorf("couldn't rename %q to %q: %w", oldName, newName, ErrTargetExists)
		}
		return err
	}
	_, err = db.graph.RemoveAlias(oldStored)
	return err
}

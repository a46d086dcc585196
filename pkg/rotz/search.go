package rotz

import (
	"errors"
	"fmt"
	"io"

	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
	"github.com/rotzdb/rotz/pkg/storage"
)

// SearchOptions configures Search.
type SearchOptions struct {
	// Top stops after that many names. Zero means no limit.
	Top int
}

// Search writes "NAME\tCOUNT" for every tag name starting with prefix, in byte order.
// Aliases are listed in their own right. A prefix containing a colon is taken as
// already namespaced, so a "::::" prefix searches symbols.
func (db *DB) Search(w io.Writer, prefix string, opts SearchOptions) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	stored, err := namespace.Tag(prefix)
	if err != nil {
		return fmt.Errorf("no PREFIX given: %w", err)
	}

	n := 0
	err = db.graph.Names(stored, func(name string, id graph.VertexID) error {
		if opts.Top > 0 && n >= opts.Top {
			return storage.ErrStopIteration
		}
		count, err := db.graph.CountEdges(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\n", namespace.Massage(name), count)
		n++
		return nil
	})
	if errors.Is(err, storage.ErrStopIteration) {
		return nil
	}
	return err
}

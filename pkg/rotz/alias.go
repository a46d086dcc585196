package rotz

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
)

// Alias makes every name in aliases another name of tag. Aliases that already belong
// to a different tag are skipped. It returns the number of aliases added.
func (db *DB) Alias(tag string, aliases []string) (int, error) {
	release, err := db.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	tid, _, err := db.tagVertex(tag)
	if err != nil {
		return 0, err
	}
	if tid == graph.NoVertex {
		db.miss("tag", tag)
		return 0, nil
	}

	added := 0
	for _, alias := range aliases {
		stored, err := namespace.Tag(alias)
		if err != nil {
			continue
		}
		res, err := db.graph.AddAlias(tid, stored)
		switch {
		case errors.Is(err, graph.ErrAliasConflict):
			db.log.WithField("alias", alias).Debug("alias names another tag, skipped")
		case err != nil:
			return added, err
		case res == graph.AliasAdded:
			added++
		}
	}
	return added, nil
}

// Unalias removes every name in names from its tag. The last name of a tag takes the
// tag with it: its vertex keeps its edges but can no longer be found by name.
//
// Nothing is removed unless the first name resolves.
func (db *DB) Unalias(names []string) (int, error) {
	release, err := db.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	if len(names) == 0 {
		return 0, nil
	}
	tid, _, err := db.tagVertex(names[0])
	if err != nil {
		return 0, err
	}
	if tid == graph.NoVertex {
		db.miss("tag", names[0])
		return 0, nil
	}

	removed := 0
	for _, name := range names {
		stored, err := namespace.Tag(name)
		if err != nil {
			continue
		}
		id, err := db.graph.RemoveAlias(stored)
		if err != nil {
			return removed, err
		}
		if id != graph.NoVertex {
			removed++
		}
	}
	return removed, nil
}

// Aliases writes the names of tag, canonical first, one per line.
func (db *DB) Aliases(w io.Writer, tag string) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	tid, _, err := db.tagVertex(tag)
	if err != nil {
		return err
	}
	if tid == graph.NoVertex {
		db.miss("tag", tag)
		return nil
	}
	return db.writeAliases(w, tid, "\n")
}

// AllAliases writes one line per tag listing its names, tab separated. Symbols have
// no aliases and are left out.
func (db *DB) AllAliases(w io.Writer) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	return db.graph.Vertices(func(id graph.VertexID, al graph.AliasList) error {
		if namespace.IsSym(al.Canonical()) {
			return nil
		}
		fmt.Fprintln(w, joinMassaged(al.Names(), "\t"))
		return nil
	})
}

func (db *DB) writeAliases(w io.Writer, id graph.VertexID, sep string) error {
	al, err := db.graph.GetAliases(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, joinMassaged(al.Names(), sep))
	return nil
}

func joinMassaged(names []string, sep string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = namespace.Massage(n)
	}
	return strings.Join(out, sep)
}

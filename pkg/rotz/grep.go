package rotz

import (
	"fmt"
	"io"

	"github.com/rotzdb/rotz/pkg/graph"
)

// GrepOptions configures Grep.
type GrepOptions struct {
	// Invert writes the inputs that do not resolve instead.
	Invert bool
	// Normalise writes the canonical name of a match instead of the input.
	Normalise bool
}

// Grep filters inputs: an input passes if it names an existing tag or symbol.
func (db *DB) Grep(w io.Writer, opts GrepOptions, inputs []string) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	for _, input := range inputs {
		id, err := db.lookup(input)
		if err != nil {
			return err
		}
		found := id != graph.NoVertex
		if found == opts.Invert {
			continue
		}
		out := input
		if found && opts.Normalise {
			if out, err = db.displayName(id); err != nil {
				return err
			}
		}
		fmt.Fprintln(w, out)
	}
	return nil
}

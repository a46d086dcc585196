package rotz

import (
	"fmt"
	"io"

	"github.com/rotzdb/rotz/pkg/graph"
)

// FsckOptions configures Fsck.
type FsckOptions struct {
	// Check scans the graph for structural damage after compaction and writes one
	// line per issue. Nothing is repaired.
	Check bool
}

// Fsck compacts the backend files and, with opts.Check, reports graph damage.
// The returned report is nil unless opts.Check is set.
func (db *DB) Fsck(w io.Writer, opts FsckOptions) (*graph.CheckReport, error) {
	release, err := db.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	if db.config.Database.ReadOnly {
		db.log.Info("read-only datastore, skipping compaction")
	} else {
		log := db.log.WithField("backend", db.store.Backend())
		log.Info("compacting datastore")
		if err := db.store.Compact(); err != nil {
			return nil, fmt.Errorf("error during defrag: %w", err)
		}
		log.Info("compaction finished")
	}

	if !opts.Check {
		return nil, nil
	}
	report, err := db.graph.Check()
	if err != nil {
		return nil, err
	}
	for _, is := range report.Issues {
		fmt.Fprintln(w, is.String())
	}
	fmt.Fprintf(w, "%d vertices, %d names, %d edges, %d issues\n",
		report.Vertices, report.Names, report.Edges, len(report.Issues))
	return report, nil
}

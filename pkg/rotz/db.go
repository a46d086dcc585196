// Package rotz provides the rotz command set on top of the graph engine.
//
// rotz associates symbols (files, URLs, anything with a name) with tags. Every command
// of the rotz tool is a method on DB that reads its inputs from arguments and writes
// its report to an io.Writer:
//
//	db, err := rotz.Open(rotz.Options{Config: cfg, Logger: log, Create: true})
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	db.Add("music", []string{"/srv/a.mp3", "/srv/b.mp3"})
//	db.Show(os.Stdout, rotz.ShowEach, []string{"music"})
//
// User input is namespaced on the way in (see package namespace) and massaged back on
// the way out, so "music" is stored as "tag:music" and printed as "music". Inputs that
// do not resolve are skipped; with a debug-level logger each miss is reported.
package rotz

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rotzdb/rotz/pkg/config"
	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
	"github.com/rotzdb/rotz/pkg/storage"
	"github.com/sirupsen/logrus"
)

// Errors returned by DB operations.
var (
	ErrClosed       = errors.New("rotz: database is closed")
	ErrNoConfig     = errors.New("rotz: configuration is required")
	ErrTargetExists = errors.New("rotz: target tag exists")
)

// Options configures Open.
type Options struct {
	// Config selects the backend and database location.
	Config *config.Config

	// Logger receives diagnostics. Nil discards them.
	Logger logrus.FieldLogger

	// Create creates the database if it does not exist. Commands that only read
	// leave it unset so a mistyped path is reported instead of silently created.
	Create bool
}

// DB is an open rotz catalogue.
//
// DB is safe for concurrent use; commands hold a read lock on the DB for their
// duration and Close waits for them.
type DB struct {
	config *config.Config
	mu     sync.RWMutex
	closed bool

	store storage.Store
	graph *graph.Graph
	log   logrus.FieldLogger
}

// Open opens the catalogue described by opts.Config.
func Open(opts Options) (*DB, error) {
	if opts.Config == nil {
		return nil, ErrNoConfig
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("rotz: %w", err)
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	cfg := opts.Config
	store, err := storage.Open(storage.Options{
		Backend:    cfg.Database.Backend,
		Path:       cfg.Database.ResolvedPath(),
		ReadOnly:   cfg.Database.ReadOnly,
		Create:     opts.Create && !cfg.Database.ReadOnly,
		InMemory:   cfg.Database.InMemory,
		SyncWrites: cfg.Database.SyncWrites,
		Logger:     log.WithField("component", "storage"),
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"backend": store.Backend(),
		"path":    store.Path(),
	}).Debug("opened rotz datastore")

	return &DB{
		config: cfg,
		store:  store,
		graph:  graph.New(store, log.WithField("component", "graph")),
		log:    log,
	}, nil
}

// Close releases the underlying store. Closing twice is a no-op.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true
	return db.store.Close()
}

// Graph returns the graph engine the commands run on.
func (db *DB) Graph() *graph.Graph { return db.graph }

// acquire takes the read lock for one command. The returned func releases it.
func (db *DB) acquire() (func(), error) {
	db.mu.RLock()
	if db.closed {
		db.mu.RUnlock()
		return nil, ErrClosed
	}
	return db.mu.RUnlock, nil
}

// verbose reports whether per-item chatter (del's "-tag\tsym" lines) is wanted.
func (db *DB) verbose() bool { return db.config.Verbose }

// tagVertex resolves input in the tag namespace.
func (db *DB) tagVertex(input string) (graph.VertexID, string, error) {
	return db.vertexIn(namespace.Tag, input)
}

// symVertex resolves input in the symbol namespace.
func (db *DB) symVertex(input string) (graph.VertexID, string, error) {
	return db.vertexIn(namespace.Sym, input)
}

func (db *DB) vertexIn(glue func(string) (string, error), input string) (graph.VertexID, string, error) {
	stored, err := glue(input)
	if err != nil {
		// an empty input names nothing
		return graph.NoVertex, "", nil
	}
	id, err := db.graph.GetVertex(stored)
	if errors.Is(err, graph.ErrInvalidName) {
		return graph.NoVertex, stored, nil
	}
	return id, stored, err
}

// lookup resolves input as a tag first and as a symbol second.
func (db *DB) lookup(input string) (graph.VertexID, error) {
	id, _, err := db.tagVertex(input)
	if err != nil || id != graph.NoVertex {
		return id, err
	}
	id, _, err = db.symVertex(input)
	return id, err
}

// displayName returns id's canonical name without namespace prefix.
func (db *DB) displayName(id graph.VertexID) (string, error) {
	name, ok, err := db.graph.GetName(id)
	if err != nil {
		return "", err
	}
	if !ok {
		db.log.WithField("vertex", id).Debug("vertex has no name")
		return "", nil
	}
	return namespace.Massage(name), nil
}

// printNames writes the display name of every id on its own line.
func (db *DB) printNames(w io.Writer, ids graph.VertexList) error {
	for _, id := range ids {
		name, err := db.displayName(id)
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		fmt.Fprintln(w, name)
	}
	return nil
}

// miss logs an input that did not resolve.
func (db *DB) miss(kind, input string) {
	db.log.WithField(kind, input).Debugf("cannot find %s in database", kind)
}

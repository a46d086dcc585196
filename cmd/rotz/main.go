// Package main provides the rotz CLI entry point.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rotzdb/rotz/pkg/config"
	"github.com/rotzdb/rotz/pkg/rotz"
)

var (
	version   = "0.1.0"
	commit    = "dev"
	buildTime = "unknown" // Set via ldflags: -X main.buildTime=$(date +%Y%m%d-%H%M%S)
)

// errOpen is reported when the datastore cannot be opened. The cause is logged.
var errOpen = errors.New("Error opening rotz datastore")

// isTerminal reports whether r is an interactive terminal. Commands that accept
// their inputs on stdin only read it when it is not.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	if err := execute(newRootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs rootCmd and then releases the log output, also when the command
// failed and cobra skipped its post-run hooks.
func execute(rootCmd *cobra.Command, a *app) error {
	err := rootCmd.Execute()
	if cerr := a.teardown(); err == nil {
		err = cerr
	}
	return err
}

// app carries the state shared by all subcommands: the resolved configuration and
// the logger built from it.
type app struct {
	configPath string
	database   string
	backend    string
	verbose    bool

	cfg       *config.Config
	log       *logrus.Logger
	logCloser io.Closer
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "rotz",
		Short: "rotz - tag anything",
		Long: `rotz associates symbols (files, URLs, anything with a name) with tags
and answers questions about those associations.

Tags and symbols live in a small graph database (badger or bbolt). Names are
namespaced: a tag "music" is stored as "tag:music" unless it already contains
a colon, symbols are always kept apart from tags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default: search ~/.rotz, ., ~/.config/rotz)")
	pf.StringVar(&a.database, "database", "", "Database path (default: rotz.badger or rotz.bolt)")
	pf.StringVar(&a.backend, "backend", "", "Storage backend: badger or bolt")
	pf.BoolVar(&a.verbose, "verbose", false, "Report every removal and every name that was not found")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// no datastore, no config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rotz v%s (%s) built %s\n", version, commit, buildTime)
		},
	})

	addCommands(rootCmd, a)
	return rootCmd, a
}

// setup loads the configuration (defaults, file, environment, then flags) and
// builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}

	if a.database != "" {
		cfg.Database.Path = a.database
	}
	if a.backend != "" {
		cfg.Database.Backend = a.backend
	}
	if a.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := newLogger(cfg.Logging, cfg.Verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log, a.logCloser = cfg, log, closer
	if path != "" {
		log.WithField("file", path).Debug("loaded config")
	}
	log.Debugf("config: %s", cfg)
	return nil
}

// teardown closes the log output once; later calls are no-ops.
func (a *app) teardown() error {
	if a.logCloser == nil {
		return nil
	}
	c := a.logCloser
	a.logCloser = nil
	return c.Close()
}

// open opens the datastore. Commands that write pass create so that a fresh
// catalogue is started when none exists yet.
func (a *app) open(create bool) (*rotz.DB, error) {
	db, err := rotz.Open(rotz.Options{Config: a.cfg, Logger: a.log, Create: create})
	if err != nil {
		a.log.WithError(err).WithField("path", a.cfg.Database.ResolvedPath()).Debug("open failed")
		return nil, errOpen
	}
	return db, nil
}

// withDB runs fn against an open datastore and a buffered stdout.
func (a *app) withDB(cmd *cobra.Command, create bool, fn func(db *rotz.DB, out io.Writer) error) error {
	db, err := a.open(create)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	err = fn(db, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	return err
}

// stdinLines returns the lines of cmd's stdin, or nil if stdin is a terminal.
func stdinLines(cmd *cobra.Command) ([]string, error) {
	in := cmd.InOrStdin()
	if isTerminal(in) {
		return nil, nil
	}
	var lines []string
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return lines, nil
}

// argsOrStdin returns args, or the lines of stdin when there are none.
func argsOrStdin(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return stdinLines(cmd)
}

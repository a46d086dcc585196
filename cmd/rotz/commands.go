package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rotzdb/rotz/pkg/rotz"
)

func addCommands(rootCmd *cobra.Command, a *app) {
	rootCmd.AddCommand(
		newAddCmd(a),
		newAliasCmd(a),
		newCloudCmd(a),
		newCombineCmd(a),
		newDelCmd(a),
		newExportCmd(a),
		newFsckCmd(a),
		newGrepCmd(a),
		newRenameCmd(a),
		newSearchCmd(a),
		newShowCmd(a),
		newDumpCmd(a),
		newBackupCmd(a),
	)
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add TAG [SYM...]",
		Short: "Tag symbols",
		Long:  "Associate TAG with every SYM. Without SYM arguments the symbols are read from stdin, one per line.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			syms, err := argsOrStdin(cmd, args[1:])
			if err != nil {
				return err
			}
			return a.withDB(cmd, true, func(db *rotz.DB, _ io.Writer) error {
				_, err := db.Add(args[0], syms)
				return err
			})
		},
	}
}

func newAliasCmd(a *app) *cobra.Command {
	var del bool
	cmd := &cobra.Command{
		Use:   "alias [TAG [ALIAS...]]",
		Short: "Give tags more names",
		Long: `Make every ALIAS another name of TAG.

With only TAG, list its names, or read aliases from stdin if stdin is not a
terminal. Without arguments list the names of every tag, one tag per line.
With --delete remove TAG and every ALIAS as names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			create := len(args) > 0
			return a.withDB(cmd, create, func(db *rotz.DB, out io.Writer) error {
				switch {
				case len(args) == 0:
					return db.AllAliases(out)
				case del:
					_, err := db.Unalias(args)
					return err
				case len(args) > 1:
					_, err := db.Alias(args[0], args[1:])
					return err
				case isTerminal(cmd.InOrStdin()):
					return db.Aliases(out, args[0])
				}
				aliases, err := stdinLines(cmd)
				if err != nil {
					return err
				}
				_, err = db.Alias(args[0], aliases)
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&del, "delete", "d", false, "Remove names instead of adding them")
	return cmd
}

func newCloudCmd(a *app) *cobra.Command {
	var (
		top   int
		pivot bool
	)
	cmd := &cobra.Command{
		Use:   "cloud [PREFIX | --pivot TAG...]",
		Short: "Show tags with their symbol counts",
		Long: `Print every tag with the number of symbols attached to it, optionally only
tags starting with PREFIX. With --top only the N biggest tags are printed.

With --pivot rank the tags that share symbols with the given TAGs instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, false, func(db *rotz.DB, out io.Writer) error {
				if pivot {
					return db.PivotCloud(out, args, top)
				}
				opts := rotz.CloudOptions{Top: top}
				if len(args) > 0 {
					opts.Prefix = args[0]
				}
				return db.Cloud(out, opts)
			})
		},
	}
	cmd.Flags().IntVarP(&top, "top", "t", 0, "Only print the N biggest tags")
	cmd.Flags().BoolVar(&pivot, "pivot", false, "Rank tags co-occurring with the given tags")
	return cmd
}

func newCombineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "combine TAG...",
		Short: "Merge tags into the first one",
		Long:  "Merge every TAG into the first TAG; the merged tags live on as its aliases. Tags are read from stdin if none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := argsOrStdin(cmd, args)
			if err != nil {
				return err
			}
			return a.withDB(cmd, true, func(db *rotz.DB, _ io.Writer) error {
				_, err := db.Combine(tags)
				return err
			})
		},
	}
}

func newDelCmd(a *app) *cobra.Command {
	var syms bool
	cmd := &cobra.Command{
		Use:   "del [TAG [SYM...]]",
		Short: "Remove associations, tags or symbols",
		Long: `del TAG SYM...   untag every SYM
del TAG          delete TAG with all its associations, or untag the symbols
                 read from stdin if stdin is not a terminal
del < FILE       delete every tag read from stdin (symbols with --syms)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, true, func(db *rotz.DB, out io.Writer) error {
				switch {
				case len(args) > 1:
					return db.Untag(out, args[0], args[1:])
				case len(args) == 1 && isTerminal(cmd.InOrStdin()):
					return db.DeleteTags(out, args)
				}
				lines, err := stdinLines(cmd)
				if err != nil {
					return err
				}
				switch {
				case len(args) == 1:
					return db.Untag(out, args[0], lines)
				case syms:
					return db.DeleteSyms(out, lines)
				default:
					return db.DeleteTags(out, lines)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&syms, "syms", false, "Lines on stdin name symbols, not tags")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all associations as a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rotz.ParseExportFormat(format)
			if err != nil {
				return err
			}
			return a.withDB(cmd, false, func(db *rotz.DB, out io.Writer) error {
				return db.Export(out, f)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(rotz.FormatDOT), "Output format: dot, gml or csv")
	return cmd
}

func newFsckCmd(a *app) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "fsck",
		Short: "Compact the datastore and optionally check it",
		Long:  "Defragment the backend files. With --check also scan the graph for damage left by interrupted writes; nothing is repaired.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, true, func(db *rotz.DB, out io.Writer) error {
				report, err := db.Fsck(out, rotz.FsckOptions{Check: check})
				if err != nil {
					return err
				}
				if report != nil && !report.OK() {
					return fmt.Errorf("fsck: %d issues found", len(report.Issues))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Report structural damage")
	return cmd
}

func newGrepCmd(a *app) *cobra.Command {
	var opts rotz.GrepOptions
	cmd := &cobra.Command{
		Use:   "grep [NAME...]",
		Short: "Filter names that are tags or symbols",
		Long:  "Print every NAME that is a known tag or symbol. Names are read from stdin if none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := argsOrStdin(cmd, args)
			if err != nil {
				return err
			}
			return a.withDB(cmd, false, func(db *rotz.DB, out io.Writer) error {
				return db.Grep(out, opts, names)
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.Invert, "invert-match", "v", false, "Print names that are not known")
	cmd.Flags().BoolVarP(&opts.Normalise, "normalise", "n", false, "Print the canonical name of each match")
	return cmd
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLDNAME NEWNAME",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, true, func(db *rotz.DB, _ io.Writer) error {
				return db.Rename(args[0], args[1])
			})
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var opts rotz.SearchOptions
	cmd := &cobra.Command{
		Use:   "search PREFIX",
		Short: "List tag names starting with PREFIX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, false, func(db *rotz.DB, out io.Writer) error {
				return db.Search(out, args[0], opts)
			})
		},
	}
	cmd.Flags().IntVarP(&opts.Top, "top", "t", 0, "Only print the first N names")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var union, intersection, munion bool
	cmd := &cobra.Command{
		Use:   "show [TAGSYM...]",
		Short: "Show the symbols of tags or the tags of symbols",
		Long: `Print the symbols of every TAG or the tags of every SYM. Without arguments
print all tags.

--union          print every result once
--intersection   print results common to all inputs
--munion         print every result with the number of inputs it belongs to`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := rotz.ShowEach
			switch {
			case union:
				mode = rotz.ShowUnion
			case intersection:
				mode = rotz.ShowIntersection
			case munion:
				mode = rotz.ShowMultiUnion
			}
			return a.withDB(cmd, false, func(db *rotz.DB, out io.Writer) error {
				if len(args) == 0 {
					return db.Tags(out)
				}
				return db.Show(out, mode, args)
			})
		},
	}
	cmd.Flags().BoolVarP(&union, "union", "u", false, "Union of all results")
	cmd.Flags().BoolVarP(&intersection, "intersection", "i", false, "Intersection of all results")
	cmd.Flags().BoolVarP(&munion, "munion", "m", false, "Weighted union of all results")
	cmd.MarkFlagsMutuallyExclusive("union", "intersection", "munion")
	return cmd
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "dump",
		Short:  "Print every raw key-value pair",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, false, func(db *rotz.DB, out io.Writer) error {
				return db.Dump(out)
			})
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup FILE",
		Short: "Write a consistent snapshot of the datastore to FILE (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, false, func(db *rotz.DB, out io.Writer) error {
				if args[0] == "-" {
					return db.Backup(out)
				}
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				if err := db.Backup(f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
}

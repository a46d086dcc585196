package rotz

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/rotzdb/rotz/pkg/config"
	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Alias(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)

		n, err := db.Alias("music", []string{"tunes", "songs", "live", "tunes"})
		require.NoError(t, err)
		assert.Equal(t, 2, n, "conflicting and repeated aliases are skipped")

		assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\n", show(t, db, ShowEach, "tunes"))

		var buf bytes.Buffer
		require.NoError(t, db.Aliases(&buf, "songs"))
		assert.Equal(t, "music\ntunes\nsongs\n", buf.String())

		buf.Reset()
		require.NoError(t, db.AllAliases(&buf))
		assert.Equal(t, "music\ttunes\tsongs\nlive\njazz\n", buf.String())

		t.Run("unknown tag", func(t *testing.T) {
			n, err := db.Alias("nope", []string{"other"})
			require.NoError(t, err)
			assert.Zero(t, n)
			buf.Reset()
			require.NoError(t, db.Aliases(&buf, "nope"))
			assert.Empty(t, buf.String())
		})

		t.Run("unalias", func(t *testing.T) {
			n, err := db.Unalias([]string{"tunes", "nope"})
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Empty(t, show(t, db, ShowEach, "tunes"))
			assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\n", show(t, db, ShowEach, "music"))

			n, err = db.Unalias([]string{"nope", "songs"})
			require.NoError(t, err)
			assert.Zero(t, n, "nothing is removed when the first name is unknown")
		})
	})
}

func TestDB_Cloud(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)

		cloud := func(opts CloudOptions) string {
			var buf bytes.Buffer
			require.NoError(t, db.Cloud(&buf, opts))
			return buf.String()
		}
		assert.Equal(t, "music\t3\nlive\t2\njazz\t0\n", cloud(CloudOptions{}))
		assert.Equal(t, "live\t2\n", cloud(CloudOptions{Prefix: "l"}))
		assert.Equal(t, "music\t3\nlive\t2\n", cloud(CloudOptions{Top: 2}))
		assert.Equal(t, "music\t3\nlive\t2\njazz\t0\n", cloud(CloudOptions{Top: 10}))
	})
}

func TestDB_PivotCloud(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)
		_, err := db.Add("rock", []string{"c.mp3", "d.mp3", "a.mp3"})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, db.PivotCloud(&buf, []string{"live", "nope"}, 0))
		assert.Equal(t, "rock\t2\nmusic\t1\n", buf.String())

		buf.Reset()
		require.NoError(t, db.PivotCloud(&buf, []string{"live"}, 1))
		assert.Equal(t, "rock\t2\n", buf.String())
	})
}

func TestDB_Combine(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)
		_, err := db.Alias("live", []string{"concert"})
		require.NoError(t, err)

		n, err := db.Combine([]string{"nope", "music", "live", "music"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\nd.mp3\n", show(t, db, ShowEach, "music"))
		assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\nd.mp3\n", show(t, db, ShowEach, "concert"))
		assert.Equal(t, "music\n", show(t, db, ShowEach, "d.mp3"))
		assert.Equal(t, "music\n", show(t, db, ShowEach, "c.mp3"))

		var buf bytes.Buffer
		require.NoError(t, db.Aliases(&buf, "live"))
		assert.Equal(t, "music\nlive\nconcert\n", buf.String())

		report, err := db.Graph().Check()
		require.NoError(t, err)
		assert.True(t, report.OK(), "%v", report.Issues)
	})
}

func TestDB_Delete(t *testing.T) {
	verbose := func(c *config.Config) { c.Verbose = true }

	forEachBackend(t, verbose, func(t *testing.T, db *DB) {
		seed(t, db)

		t.Run("untag", func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, db.Untag(&buf, "music", []string{"a.mp3", "nope"}))
			assert.Equal(t, "-music\ta.mp3\n", buf.String())
			assert.Equal(t, "b.mp3\nc.mp3\n", show(t, db, ShowEach, "music"))
			assert.Empty(t, show(t, db, ShowEach, "a.mp3"))

			buf.Reset()
			require.NoError(t, db.Untag(&buf, "nope", []string{"b.mp3"}))
			assert.Empty(t, buf.String())
		})

		t.Run("delete tags", func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, db.DeleteTags(&buf, []string{"live", "nope"}))
			assert.Equal(t, "-live\tc.mp3\n-live\td.mp3\n", buf.String())
			assert.Equal(t, "music\n", show(t, db, ShowEach, "c.mp3"))
			assert.Empty(t, show(t, db, ShowEach, "live"))
		})

		t.Run("delete syms", func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, db.DeleteSyms(&buf, []string{"c.mp3"}))
			assert.Equal(t, "-c.mp3\tmusic\n", buf.String())
			assert.Equal(t, "b.mp3\n", show(t, db, ShowEach, "music"))
		})

		report, err := db.Graph().Check()
		require.NoError(t, err)
		assert.True(t, report.OK(), "%v", report.Issues)
	})
}

func TestDB_Delete_Quiet(t *testing.T) {
	db := createTestDB(t, config.BackendBadger, nil)
	seed(t, db)

	var buf bytes.Buffer
	require.NoError(t, db.DeleteTags(&buf, []string{"music"}))
	assert.Empty(t, buf.String())
	assert.Equal(t, "live\n", show(t, db, ShowEach, "c.mp3"))
}

func TestDB_Export(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)

		export := func(f ExportFormat) string {
			var buf bytes.Buffer
			require.NoError(t, db.Export(&buf, f))
			return buf.String()
		}

		t.Run("dot", func(t *testing.T) {
			want := `graph rotz {
  "music" -- "a.mp3";
  "music" -- "b.mp3";
  "music" -- "c.mp3";
  "live" -- "c.mp3";
  "live" -- "d.mp3";
}
`
			assert.Equal(t, want, export(FormatDOT))
		})

		t.Run("gml", func(t *testing.T) {
			out := export(FormatGML)
			assert.True(t, strings.HasPrefix(out, "graph [\n  directed 0\n"))
			assert.Contains(t, out, `node [ id 1 label "music" ]`)
			assert.Contains(t, out, `node [ id 6 label "d.mp3" ]`)
			assert.Contains(t, out, "edge [ source 5 target 6 ]")
			assert.Equal(t, 1, strings.Count(out, `label "c.mp3"`))
			assert.Equal(t, 5, strings.Count(out, "edge ["))
		})

		t.Run("csv", func(t *testing.T) {
			records, err := csv.NewReader(strings.NewReader(export(FormatCSV))).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, [][]string{
				{"tag", "symbol"},
				{"music", "a.mp3"},
				{"music", "b.mp3"},
				{"music", "c.mp3"},
				{"live", "c.mp3"},
				{"live", "d.mp3"},
			}, records)
		})

		t.Run("unknown", func(t *testing.T) {
			var buf bytes.Buffer
			assert.ErrorIs(t, db.Export(&buf, "xml"), ErrUnknownFormat)
		})
	})
}

func TestGMLQuoting(t *testing.T) {
	assert.Equal(t, `"say &quot;hi&quot;"`, quoteGML(`say "hi"`))
	assert.Equal(t, `"R&amp;B"`, quoteGML("R&B"))

	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		_, err := db.Add("quotes", []string{`say "hi".mp3`})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, db.Export(&buf, FormatGML))
		assert.Contains(t, buf.String(), `label "say &quot;hi&quot;.mp3" ]`)
		assert.NotContains(t, buf.String(), `\"`)
	})
}

func TestDOTQuoting(t *testing.T) {
	assert.Equal(t, `"say \"hi\""`, quoteDOT(`say "hi"`))
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("GML")
	require.NoError(t, err)
	assert.Equal(t, FormatGML, f)

	f, err = ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDOT, f)

	_, err = ParseExportFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDB_Fsck(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)

		var buf bytes.Buffer
		report, err := db.Fsck(&buf, FsckOptions{})
		require.NoError(t, err)
		assert.Nil(t, report)
		assert.Empty(t, buf.String())

		report, err = db.Fsck(&buf, FsckOptions{Check: true})
		require.NoError(t, err)
		require.NotNil(t, report)
		assert.True(t, report.OK())
		assert.Equal(t, "7 vertices, 7 names, 10 edges, 0 issues\n", buf.String())

		// leave one direction behind
		g := db.Graph()
		tid, err := g.GetVertex("tag:jazz")
		require.NoError(t, err)
		sid, err := g.GetVertex("::::a.mp3")
		require.NoError(t, err)
		_, err = g.AddEdge(tid, sid)
		require.NoError(t, err)

		buf.Reset()
		report, err = db.Fsck(&buf, FsckOptions{Check: true})
		require.NoError(t, err)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, graph.IssueAsymmetricEdge, report.Issues[0].Kind)
		assert.Contains(t, buf.String(), "asymmetric-edge")
		assert.Contains(t, buf.String(), "1 issues")

		assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\n", show(t, db, ShowEach, "music"), "data survives compaction")
	})
}

func TestDB_Grep(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)
		_, err := db.Alias("music", []string{"tunes"})
		require.NoError(t, err)

		grep := func(opts GrepOptions, inputs ...string) string {
			var buf bytes.Buffer
			require.NoError(t, db.Grep(&buf, opts, inputs))
			return buf.String()
		}
		inputs := []string{"music", "a.mp3", "nope", "tunes", ""}
		assert.Equal(t, "music\na.mp3\ntunes\n", grep(GrepOptions{}, inputs...))
		assert.Equal(t, "nope\n\n", grep(GrepOptions{Invert: true}, inputs...))
		assert.Equal(t, "music\na.mp3\nmusic\n", grep(GrepOptions{Normalise: true}, inputs...))
	})
}

func TestDB_Rename(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)

		require.NoError(t, db.Rename("jazz", "blues"))
		var buf bytes.Buffer
		require.NoError(t, db.Tags(&buf))
		assert.Equal(t, "music\nlive\nblues\n", buf.String())

		require.NoError(t, db.Rename("live", "concerts"))
		assert.Equal(t, "c.mp3\nd.mp3\n", show(t, db, ShowEach, "concerts"))
		assert.Empty(t, show(t, db, ShowEach, "live"))

		err := db.Rename("concerts", "music")
		assert.ErrorIs(t, err, ErrTargetExists)
		assert.Equal(t, "c.mp3\nd.mp3\n", show(t, db, ShowEach, "concerts"), "nothing changes on conflict")

		require.NoError(t, db.Rename("nope", "whatever"))
		require.NoError(t, db.Rename("music", "music"))
		assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\n", show(t, db, ShowEach, "music"))
	})
}

func TestDB_Search(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)
		_, err := db.Alias("music", []string{"mellow"})
		require.NoError(t, err)

		search := func(prefix string, top int) string {
			var buf bytes.Buffer
			require.NoError(t, db.Search(&buf, prefix, SearchOptions{Top: top}))
			return buf.String()
		}
		assert.Equal(t, "mellow\t3\nmusic\t3\n", search("m", 0))
		assert.Equal(t, "mellow\t3\n", search("m", 1))
		assert.Equal(t, "jazz\t0\nlive\t2\nmellow\t3\nmusic\t3\n", search("tag:", 0))
		assert.Equal(t, "a.mp3\t1\nb.mp3\t1\nc.mp3\t2\nd.mp3\t1\n", search("::::", 0))
		assert.Empty(t, search("x", 0))

		var buf bytes.Buffer
		assert.Error(t, db.Search(&buf, "", SearchOptions{}))
	})
}

func TestDB_DumpAndBackup(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)

		var buf bytes.Buffer
		require.NoError(t, db.Dump(&buf))
		assert.Contains(t, buf.String(), "\"tag:music\"\t01000000\n")
		assert.Contains(t, buf.String(), "\"\\x1d\\x00\"\t07000000\n")

		buf.Reset()
		require.NoError(t, db.Backup(&buf))
		assert.NotZero(t, buf.Len())
	})
}

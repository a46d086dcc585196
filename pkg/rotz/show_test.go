package rotz

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Show(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, db *DB) {
		seed(t, db)

		t.Run("each", func(t *testing.T) {
			assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\n", show(t, db, ShowEach, "music"))
			assert.Equal(t, "music\nlive\n", show(t, db, ShowEach, "c.mp3"))
			assert.Equal(t, "c.mp3\nd.mp3\nmusic\n", show(t, db, ShowEach, "live", "nope", "a.mp3"))
			assert.Empty(t, show(t, db, ShowEach, "jazz"))
		})

		t.Run("union", func(t *testing.T) {
			assert.Equal(t, "a.mp3\nb.mp3\nc.mp3\nd.mp3\n", show(t, db, ShowUnion, "music", "live"))
		})

		t.Run("intersection", func(t *testing.T) {
			assert.Equal(t, "c.mp3\n", show(t, db, ShowIntersection, "music", "live"))
			assert.Equal(t, "c.mp3\n", show(t, db, ShowIntersection, "nope", "music", "live"))
			assert.Empty(t, show(t, db, ShowIntersection, "music", "jazz"))
		})

		t.Run("multi union", func(t *testing.T) {
			assert.Equal(t, "c.mp3\t2\na.mp3\t1\nb.mp3\t1\nd.mp3\t1\n",
				show(t, db, ShowMultiUnion, "music", "live"))
		})

		t.Run("all tags", func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, db.Tags(&buf))
			assert.Equal(t, "music\nlive\njazz\n", buf.String())
		})
	})
}

func TestShowMode_String(t *testing.T) {
	assert.Equal(t, "union", ShowUnion.String())
	assert.Equal(t, "munion", ShowMultiUnion.String())
	assert.Equal(t, "ShowMode(9)", ShowMode(9).String())
}

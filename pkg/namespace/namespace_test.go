package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlue(t *testing.T) {
	t.Run("glues with colon", func(t *testing.T) {
		got, err := Glue("tag", "music")
		require.NoError(t, err)
		assert.Equal(t, "tag:music", got)
	})

	t.Run("does not look at colons", func(t *testing.T) {
		got, err := Glue("tag", "a:b")
		require.NoError(t, err)
		assert.Equal(t, "tag:a:b", got)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := Glue("tag", "")
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("long prefix is cut to three bytes", func(t *testing.T) {
		got, err := Glue("tagged", "x")
		require.NoError(t, err)
		assert.Equal(t, "tag:x", got)
	})
}

func TestTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"music", "tag:music"},
		{"genre:jazz", "genre:jazz"},
		{"tag:music", "tag:music"},
		{":leading", ":leading"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Tag(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Tag("")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestSym(t *testing.T) {
	got, err := Sym("/tmp/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "::::/tmp/a.mp3", got)

	// Symbols with colons are glued too.
	got, err = Sym("http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "::::http://example.com", got)

	_, err = Sym("")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestMassage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tag:music", "music"},
		{"::::/tmp/a.mp3", "/tmp/a.mp3"},
		{"genre:jazz", "genre:jazz"},
		{"tagline", "tagline"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Massage(tt.in))
		})
	}
}

func TestIsSym(t *testing.T) {
	sym, _ := Sym("x")
	tag, _ := Tag("x")
	assert.True(t, IsSym(sym))
	assert.False(t, IsSym(tag))
	assert.False(t, IsSym("genre:jazz"))
}

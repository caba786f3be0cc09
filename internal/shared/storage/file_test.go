package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileCollectionRoundTrip(t *testing.T) {
	c, err := NewFileCollection[doc](t.TempDir(), "docs")
	require.NoError(t, err)

	_, found, err := c.Get("a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Save("a", &doc{Name: "a", Count: 1}))
	require.NoError(t, c.Save("b", &doc{Name: "b", Count: 2}))

	got, found, err := c.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, got.Count)

	all, err := c.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := c.Delete("a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = c.Delete("a")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFileCollectionSkipsCorruptFiles(t *testing.T) {
	base := t.TempDir()
	c, err := NewFileCollection[doc](base, "docs")
	require.NoError(t, err)

	require.NoError(t, c.Save("ok", &doc{Name: "ok"}))
	require.NoError(t, os.WriteFile(filepath.Join(base, "docs", "bad.json"), []byte("{"), 0644))

	all, err := c.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFileCollectionUpdate(t *testing.T) {
	c, err := NewFileCollection[doc](t.TempDir(), "docs")
	require.NoError(t, err)

	increment := func(d *doc) (*doc, error) {
		if d == nil {
			d = &doc{Name: "counter"}
		}
		d.Count++
		return d, nil
	}

	_, err = c.Update("counter", increment)
	require.NoError(t, err)
	got, err := c.Update("counter", increment)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
}

func TestDirPinger(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, DirPinger(dir).Ping(context.Background()))
	assert.Error(t, DirPinger(filepath.Join(dir, "missing")).Ping(context.Background()))
}

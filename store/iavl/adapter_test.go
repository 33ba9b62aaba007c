package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeBase returns the base layer
func makeBase() (store.CacheableKVStore, func()) {
	commit, cleanup := makeCommitStore()
	return commit.Adapter(), cleanup
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		cleanup()
		panic(err)
	}
	return commit, cleanup
}

func TestAdapterStore(t *testing.T) {
	store.NewTestSuite(makeBase).Run(t)
}

func TestCommitOverwrite(t *testing.T) {
	commit, cleanup := makeCommitStore()
	defer cleanup()

	k, v := []byte("vault"), []byte("initialized")
	cache := commit.CacheWrap()
	require.NoError(t, cache.Set(k, v))

	// nothing visible before the cache is written
	got, err := commit.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Write())
	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = commit.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestCommitVersions(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-versions-")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "versions")
	require.NoError(t, err)
	require.NoError(t, commit.LoadLatestVersion())

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	require.NoError(t, cache.Write())
	first, err := commit.Commit()
	require.NoError(t, err)

	cache = commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Write())
	second, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, first.Version+1, second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	mem := NewMemCommitStore()
	require.NoError(t, mem.LoadLatestVersion())
	id, err := mem.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)
}

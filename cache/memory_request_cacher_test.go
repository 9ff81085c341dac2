package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRequestCacherKeepsNewestEntries(t *testing.T) {
	cacher := CreateMemoryCache(3)

	for _, value := range []string{"a", "b", "c", "d"} {
		require.NoError(t, cacher.Write("alice", []byte(value)))
	}
	require.NoError(t, cacher.Write("bob", []byte("x")))

	entries, err := cacher.Read("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, entries)

	entries, err = cacher.Read("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, entries)

	entries, err = cacher.Read("nobody")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryRequestCacherReadReturnsCopy(t *testing.T) {
	cacher := CreateMemoryCache(2)
	require.NoError(t, cacher.Write("alice", []byte("a")))

	entries, err := cacher.Read("alice")
	require.NoError(t, err)
	entries[0] = "changed"

	entries, err = cacher.Read("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, entries)
}

package greedy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrieInsertAndMatch(t *testing.T) {
	trie := newByteTrie(16)
	trie.insert("hello", 10)
	trie.insert("hell", 11)
	trie.insert("he", 12)
	trie.insert("world", 20)

	id, length := matchLongest(trie, "hello", 0)
	assert.Equal(t, 10, id)
	assert.Equal(t, 5, length)

	// Longest prefix wins even when shorter terminals exist along the path.
	id, length = matchLongest(trie, "hellish", 0)
	assert.Equal(t, 11, id)
	assert.Equal(t, 4, length)

	id, length = matchLongest(trie, "hero", 0)
	assert.Equal(t, 12, id)
	assert.Equal(t, 2, length)

	id, length = matchLongest(trie, "xyz", 0)
	assert.Equal(t, noMatch, id)
	assert.Equal(t, 0, length)
}

func TestTrieMatchFromOffset(t *testing.T) {
	trie := newByteTrie(16)
	trie.insert("world", 20)

	id, length := matchLongest(trie, "hello world", 6)
	assert.Equal(t, 20, id)
	assert.Equal(t, 5, length)
}

func TestTrieMatchIsByteWise(t *testing.T) {
	trie := newByteTrie(16)
	trie.insert("▁he", 1)

	// The metaspace prefix is three UTF-8 bytes; match length counts bytes.
	id, length := matchLongest(trie, "▁hello", 0)
	assert.Equal(t, 1, id)
	assert.Equal(t, 5, length)
}

func TestTrieWalkPrefix(t *testing.T) {
	trie := newByteTrie(16)
	trie.insert("##ing", 41)

	node, ok := trie.walkPrefix(0, "##")
	require.True(t, ok)

	id, length := matchLongestFrom(trie, node, "ingest", 0)
	assert.Equal(t, 41, id)
	assert.Equal(t, 3, length)

	_, ok = trie.walkPrefix(0, "@@")
	assert.False(t, ok)
}

func TestTrieArenaGrowthKeepsPaths(t *testing.T) {
	// Start with a tiny arena so every insert forces growth; previously
	// inserted paths must stay intact because children are indices.
	trie := newByteTrie(1)
	const n = 2000
	for i := 0; i < n; i++ {
		trie.insert(fmt.Sprintf("token-%04d", i), i)
	}
	for i := 0; i < n; i++ {
		id, length := matchLongest(trie, fmt.Sprintf("token-%04d", i), 0)
		require.Equal(t, i, id)
		require.Equal(t, 10, length)
	}
}

func TestTrieInsertOverwritesID(t *testing.T) {
	trie := newByteTrie(4)
	trie.insert("dup", 1)
	trie.insert("dup", 2)

	id, _ := matchLongest(trie, "dup", 0)
	assert.Equal(t, 2, id)
}

package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"vocab": true}`))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	path, err := Fetch(context.Background(), server.URL+"/tokenizer.json", cacheDir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"vocab": true}`, string(content))
	assert.Equal(t, int32(1), hits.Load())

	// A second fetch is served from the cache without touching the server.
	again, err := Fetch(context.Background(), server.URL+"/tokenizer.json", cacheDir)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL+"/missing.json", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchBadURL(t *testing.T) {
	_, err := Fetch(context.Background(), "http://example.com/", t.TempDir())
	require.Error(t, err)
}

func TestFetchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, "http://example.com/tokenizer.json", t.TempDir())
	require.Error(t, err)
}

func TestFetchLeavesNoTemporaries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	_, err := Fetch(context.Background(), server.URL+"/tokenizer.json", cacheDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tokenizer.json", entries[0].Name())
}

package datasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textRow struct {
	Text  string `parquet:"text"`
	Label int64  `parquet:"label"`
}

func writeTestParquet(t *testing.T, rows []textRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shard.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[textRow](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadTextColumn(t *testing.T) {
	path := writeTestParquet(t, []textRow{
		{Text: "hello world", Label: 0},
		{Text: "playing", Label: 1},
		{Text: "", Label: 2},
	})

	texts, err := ReadTextColumn(path, "text")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world", "playing", ""}, texts)
}

func TestReadTextColumnMissingColumn(t *testing.T) {
	path := writeTestParquet(t, []textRow{{Text: "x"}})

	_, err := ReadTextColumn(path, "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no column")
}

func TestReadTextColumnMissingFile(t *testing.T) {
	_, err := ReadTextColumn(filepath.Join(t.TempDir(), "nope.parquet"), "text")
	require.Error(t, err)
}

// Package datasets reads text columns out of parquet dataset shards, the
// format HuggingFace datasets are distributed in, for feeding batch
// tokenization.
package datasets

import (
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// ReadTextColumn returns every non-null value of the named string column of
// the parquet file at path, in row order.
func ReadTextColumn(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open parquet file %q", path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat parquet file %q", path)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read parquet file %q", path)
	}

	leaf, ok := pf.Schema().Lookup(column)
	if !ok {
		return nil, errors.Errorf("parquet file %q has no column %q", path, column)
	}

	var texts []string
	rowBuf := make([]parquet.Row, 64)
	for _, rowGroup := range pf.RowGroups() {
		rows := rowGroup.Rows()
		for {
			n, err := rows.ReadRows(rowBuf)
			for _, row := range rowBuf[:n] {
				for _, value := range row {
					if value.Column() == leaf.ColumnIndex && !value.IsNull() {
						texts = append(texts, value.String())
					}
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				_ = rows.Close()
				return nil, errors.Wrapf(err, "failed to read rows from %q", path)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, errors.Wrapf(err, "failed to close row reader for %q", path)
		}
	}
	return texts, nil
}

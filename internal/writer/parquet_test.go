package writer

import (
	"bytes"
	"testing"

	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parquetRow struct {
	Input     string  `parquet:"input"`
	Canonical *string `parquet:"canonical,optional"`
	Binary    *string `parquet:"binary,optional"`
	IsIPv4    *string `parquet:"is_ipv4,optional"`
}

func ptr[T any](v T) *T { return &v }

func TestParquetWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewParquetWriter(&buf, []string{"canonical", "binary", "is_ipv4"}, true)
	require.NoError(t, err)

	require.NoError(t, w.WriteRecord("::ffff:1.2.3.4", []mmdbtype.DataType{
		mmdbtype.String("::ffff:1.2.3.4"),
		mmdbtype.Bytes{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 1, 2, 3, 4},
		mmdbtype.Bool(false),
	}))
	require.NoError(t, w.WriteRecord("not an address", []mmdbtype.DataType{
		nil, nil, mmdbtype.Bool(false),
	}))
	require.NoError(t, w.Close())

	rows, err := parquet.Read[parquetRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, []parquetRow{
		{
			Input:     "::ffff:1.2.3.4",
			Canonical: ptr("::ffff:1.2.3.4"),
			Binary:    ptr("00000000000000000000ffff01020304"),
			IsIPv4:    ptr("0"),
		},
		{
			Input:  "not an address",
			IsIPv4: ptr("0"),
		},
	}, rows)
}

func TestParquetWriter_ManyRows(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewParquetWriter(&buf, []string{"canonical"}, false)
	require.NoError(t, err)

	n := parquetBatchSize*2 + 7
	for range n {
		require.NoError(t, w.WriteRecord("", []mmdbtype.DataType{mmdbtype.String("::1")}))
	}
	require.NoError(t, w.Close())

	type row struct {
		Canonical *string `parquet:"canonical,optional"`
	}
	rows, err := parquet.Read[row](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, rows, n)
}

func TestParquetWriter_WrongWidth(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewParquetWriter(&buf, []string{"a", "b"}, false)
	require.NoError(t, err)

	err = w.WriteRecord("x", []mmdbtype.DataType{nil})
	require.ErrorContains(t, err, "got 1 values for 2 columns")
}

package report

import (
	"encoding/binary"
	"io"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCompressedDumpRoundTrips(t *testing.T) {
	dir := t.TempDir()
	samples := []int64{100, 250, 9000}

	path, err := WriteCompressedDump(dir, samples)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gr.Close()

	raw, err := io.ReadAll(gr)
	require.NoError(t, err)
	require.Len(t, raw, len(samples)*8)

	for i, want := range samples {
		got := int64(binary.LittleEndian.Uint64(raw[i*8 : i*8+8]))
		assert.Equal(t, want, got)
	}
}

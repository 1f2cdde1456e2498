package report

import (
	"encoding/binary"
	"fmt"
	"os"

	pools "github.com/abdoElHodaky/nanofill/pkg/common/pool/performance"
	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/ksuid"
)

const dumpScratchSize = 8

var scratchPool = pools.NewBufferPool(dumpScratchSize)

// WriteCompressedDump gzip-compresses samples (raw nanosecond latencies, as
// little-endian uint64 values) to a file under dir, named with a fresh
// ksuid so repeated runs never collide. Returns the written path.
func WriteCompressedDump(dir string, samples []int64) (string, error) {
	path := fmt.Sprintf("%s/latency-%s.bin.gz", dir, ksuid.New().String())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create dump file: %w", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)

	for _, sample := range samples {
		buf := scratchPool.Get()
		binary.LittleEndian.PutUint64(buf, uint64(sample))
		if _, err := gw.Write(buf); err != nil {
			scratchPool.Put(buf)
			return "", fmt.Errorf("report: write dump sample: %w", err)
		}
		scratchPool.Put(buf)
	}

	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("report: close gzip writer: %w", err)
	}

	return path, nil
}

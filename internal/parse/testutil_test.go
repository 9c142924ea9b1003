package parse_test

import (
	"context"
	"strings"

	"discogsload/internal/bulkcopy"
	"discogsload/pkg/logger"
)

// recordingWriter stands in for bulkcopy.Writer in tests: it never touches a
// database, just records every Flush call so assertions can inspect exactly
// what the batch sink handed it and how many times it was called.
type recordingWriter struct {
	flushes [][]bulkcopy.Batch
}

func (w *recordingWriter) Flush(ctx context.Context, batches []bulkcopy.Batch) error {
	w.flushes = append(w.flushes, batches)
	return nil
}

// batchFor returns the batch for table within flush index i, or nil.
func (w *recordingWriter) batchFor(flushIndex int, table string) *bulkcopy.Batch {
	if flushIndex >= len(w.flushes) {
		return nil
	}
	for _, b := range w.flushes[flushIndex] {
		if b.Table.Name == table {
			return &b
		}
	}
	return nil
}

func testLogger() logger.Logger {
	return logger.New("test")
}

func xmlReader(doc string) *strings.Reader {
	return strings.NewReader(doc)
}

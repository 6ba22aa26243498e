// Package diffdd creates and restores differential binary image diffs: a
// diff image records the byte ranges where a "new" stream differs from a
// "base" stream of equal length, and can later be used to reconstruct the
// new stream from a copy of the base.
package diffdd

import (
	"io"

	"github.com/jansucan/diff-dd/diffengine"
	"github.com/jansucan/diff-dd/formatv2"
)

// DefaultBufferSize is the page size and I/O buffer size used when the
// caller doesn't request a specific one.
const DefaultBufferSize = 4 * 1024 * 1024

// Create compares baseStream against newStream and writes their differences
// to diffOut as a v2 diff image. The two input streams must be of equal
// length; a length mismatch is reported as errs.ErrUnequalStreamLength.
func Create(baseStream, newStream io.Reader, diffOut io.Writer, bufferSize int) error {
	engine, err := diffengine.NewEngine(baseStream, newStream, bufferSize, formatv2.RecordHeaderSize)
	if err != nil {
		return err
	}

	writer, err := formatv2.NewWriter(diffOut, bufferSize)
	if err != nil {
		return err
	}

	for {
		diff, err := engine.FindNextDiff()
		if err != nil {
			return err
		}
		if diff.IsEmpty() {
			break
		}

		err = writer.WriteDiffRecord(diff.Start(), diff.Size(), diff.Parts())
		diff.Release()
		if err != nil {
			return err
		}
	}

	return writer.Close()
}

// Package formatv1 is a read-only pre-scan checker for the legacy v1 diff
// format: fixed-size little-endian "offset | page" entries, in increasing
// offset order, each fully inside the output file's bounds. It never writes
// anything and is not used by the v2 create/restore path; it exists purely
// to let a caller sanity-check an old-format image before attempting to
// interpret it by hand.
package formatv1

import (
	"encoding/binary"
	"fmt"
	"io"

	bitmap "github.com/boljen/go-bitmap"
	"github.com/hashicorp/go-multierror"
)

// Report is the outcome of validating a v1 image.
type Report struct {
	// Entries is the number of offset/page records read before either
	// end-of-stream or a fatal read error.
	Entries int
	// Err aggregates every violation found; nil if the image is clean.
	Err error
}

// Validate scans a v1 diff image and reports every violation of its
// invariants: entries out of increasing order, entries whose page falls
// outside [0, outputSize), and overlapping pages. It keeps scanning past a
// violation so a single pass reports everything wrong with the image,
// rather than stopping at the first problem.
func Validate(diffStream io.Reader, pageSize int, outputSize int64) Report {
	var result *multierror.Error
	totalUnits := 0
	if pageSize > 0 && outputSize > 0 {
		totalUnits = int((outputSize + int64(pageSize) - 1) / int64(pageSize))
	}
	covered := bitmap.NewSlice(totalUnits)

	entries := 0
	var previousOffset int64 = -1
	payload := make([]byte, pageSize)

	for {
		var rawOffset uint64
		if err := binary.Read(diffStream, binary.LittleEndian, &rawOffset); err != nil {
			if err == io.EOF {
				break
			}
			result = multierror.Append(result, fmt.Errorf("entry %d: cannot read offset: %w", entries, err))
			break
		}
		offset := int64(rawOffset)
		entries++

		if offset <= previousOffset {
			result = multierror.Append(result, fmt.Errorf(
				"entry %d: offset %d is not strictly greater than the previous entry's offset %d",
				entries-1, offset, previousOffset))
		}
		overlapsPrevious := previousOffset >= 0 && offset > previousOffset &&
			offset < previousOffset+int64(pageSize)
		previousOffset = offset

		if offset < 0 || offset+int64(pageSize) > outputSize {
			result = multierror.Append(result, fmt.Errorf(
				"entry %d: page [%d, %d) is outside the output bounds [0, %d)",
				entries-1, offset, offset+int64(pageSize), outputSize))
		} else if pageSize > 0 {
			unit := int(offset / int64(pageSize))
			if unit < totalUnits {
				if covered.Get(unit) {
					result = multierror.Append(result, fmt.Errorf(
						"entry %d: page at unit %d overlaps a previously seen entry",
						entries-1, unit))
				} else if overlapsPrevious {
					result = multierror.Append(result, fmt.Errorf(
						"entry %d: page [%d, %d) overlaps the previous entry's page",
						entries-1, offset, offset+int64(pageSize)))
				}
				covered.Set(unit, true)
			}
		}

		if _, err := io.ReadFull(diffStream, payload); err != nil {
			result = multierror.Append(result, fmt.Errorf(
				"entry %d: cannot read %d bytes of page data: %w", entries-1, pageSize, err))
			break
		}
	}

	var err error
	if result != nil {
		err = result.ErrorOrNil()
	}
	return Report{Entries: entries, Err: err}
}

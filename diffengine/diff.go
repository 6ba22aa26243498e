// Package diffengine performs a lockstep, paged comparison of two
// equal-length streams and emits the coalesced Diffs between them.
package diffengine

import "github.com/jansucan/diff-dd/pagedstream"

// Diff is one run of bytes that differs between the base and new streams,
// covering the absolute byte range [Start, End). Its bytes may be backed by
// one or two pages, when the run straddles a page boundary.
type Diff struct {
	pages [2]pagedstream.Page
	start uint64
	end   uint64
}

// newEmptyDiff returns the zero-length sentinel diff at the given stream
// offset, used both as "nothing found yet" and as the end-of-stream marker.
func newEmptyDiff(startEnd uint64) Diff {
	return Diff{start: startEnd, end: startEnd}
}

// newDiff returns a diff of [start, end) backed by a single page.
func newDiff(page pagedstream.Page, start, end uint64) Diff {
	return Diff{pages: [2]pagedstream.Page{page}, start: start, end: end}
}

// Start is the diff's absolute starting offset in the stream.
func (d Diff) Start() uint64 { return d.start }

// End is the diff's absolute ending offset (exclusive) in the stream.
func (d Diff) End() uint64 { return d.end }

// Size is the number of bytes the diff covers.
func (d Diff) Size() uint64 { return d.end - d.start }

// IsEmpty reports whether the diff covers zero bytes.
func (d Diff) IsEmpty() bool { return d.Size() == 0 }

func (d Diff) hasPage(i int) bool { return !d.pages[i].IsEmpty() }

// Parts returns the diff's bytes as one or two byte slices, split at the
// page boundary the diff straddles, if any. The slices are only valid until
// the diff is released.
func (d Diff) Parts() [][]byte {
	switch {
	case d.hasPage(0) && !d.hasPage(1):
		offset := d.start - d.pages[0].Start()
		return [][]byte{d.pages[0].Bytes()[offset : offset+d.Size()]}

	case d.hasPage(0) && d.hasPage(1):
		firstSize := d.pages[0].End() - d.start
		offset := d.start - d.pages[0].Start()
		secondSize := d.end - d.pages[1].Start()
		return [][]byte{
			d.pages[0].Bytes()[offset : offset+firstSize],
			d.pages[1].Bytes()[:secondSize],
		}

	default:
		return nil
	}
}

// Release drops the diff's references to its backing pages. Safe to call on
// a diff with no backing pages (the empty sentinel).
func (d Diff) Release() {
	d.pages[0].Release()
	d.pages[1].Release()
}

// mergeState is the outcome of attempting to fold one diff into another.
type mergeState int

const (
	mergeFinished mergeState = iota
	mergeIncomplete
)

// tryMerge attempts to fold diffB into diffA when they're close enough
// together and the combined size still fits within maxSize. On success it
// grows *diffA to cover the merged range (shrinking *diffB by however much
// of it got folded in) and reports whether *diffA can still accept more, or
// is finished and ready to be emitted.
func tryMerge(diffA, diffB *Diff, maxMergeGap, maxSize uint64) mergeState {
	if diffA.IsEmpty() {
		return mergeFinished
	}
	if diffB.IsEmpty() {
		return mergeFinished
	}

	gap := diffB.start - diffA.end
	if gap > maxMergeGap {
		return mergeFinished
	}
	if diffA.Size()+gap >= maxSize {
		return mergeFinished
	}

	// There is always at least 1 byte free in A here.
	free := maxSize - (diffA.Size() + gap)
	toMerge := diffB.Size()
	if free < toMerge {
		toMerge = free
	}

	diffA.end += gap + toMerge
	diffB.start += toMerge

	if !diffA.hasPage(1) {
		bFollows := !diffB.pages[0].SameData(diffA.pages[0]) &&
			diffB.pages[0].Start() == diffA.pages[0].End()
		if bFollows {
			diffA.pages[1] = diffB.pages[0].Retain()
		}
	}

	if diffA.Size() >= maxSize {
		return mergeFinished
	}
	return mergeIncomplete
}

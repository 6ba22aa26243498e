package diffengine

import (
	"io"

	"github.com/jansucan/diff-dd/errs"
	"github.com/jansucan/diff-dd/pagedstream"
)

type searchState int

const (
	stateReadPages searchState = iota
	stateFindDiff
)

// Engine performs the lockstep comparison between a base ("old") and new
// stream, a page pair at a time, and coalesces nearby diffs per the
// max-merge-gap/max-size policy in tryMerge. Coalescing stays within one page
// pair: the diff in flight when a page pair is exhausted is emitted at that
// point, so diffs on either side of a page boundary (including one run of
// changed bytes that crosses it) become separate records, and every emitted
// Diff is backed by a single page.
type Engine struct {
	oldReader   *pagedstream.Reader
	newReader   *pagedstream.Reader
	maxSize     uint64
	maxMergeGap uint64

	oldPage pagedstream.Page
	newPage pagedstream.Page
	offset  uint64
	diff    Diff
	state   searchState
}

// NewEngine creates an Engine comparing oldStream against newStream, reading
// bufferSize bytes at a time. maxMergeGap is the largest gap between two
// diffs that still gets coalesced into one record.
func NewEngine(oldStream, newStream io.Reader, bufferSize int, maxMergeGap uint64) (*Engine, error) {
	oldReader, err := pagedstream.NewReader(oldStream, bufferSize)
	if err != nil {
		return nil, err
	}
	newReader, err := pagedstream.NewReader(newStream, bufferSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		oldReader:   oldReader,
		newReader:   newReader,
		maxSize:     uint64(bufferSize),
		maxMergeGap: maxMergeGap,
		diff:        newEmptyDiff(0),
		state:       stateReadPages,
	}, nil
}

// FindNextDiff returns the next coalesced diff between the two streams. Once
// the streams are exhausted, it returns the empty sentinel diff (Start ==
// End, no backing pages) forever.
func (e *Engine) FindNextDiff() (Diff, error) {
	for {
		switch e.state {
		case stateReadPages:
			diff, done, err := e.readPages()
			if err != nil || done {
				return diff, err
			}

		case stateFindDiff:
			diff, emit, err := e.findDiff()
			if err != nil {
				return Diff{}, err
			}
			if emit {
				return diff, nil
			}
		}
	}
}

func (e *Engine) readPages() (Diff, bool, error) {
	e.oldPage.Release()
	e.newPage.Release()

	var err error
	e.oldPage, err = e.oldReader.GetNextPage()
	if err != nil {
		return Diff{}, true, err
	}
	e.newPage, err = e.newReader.GetNextPage()
	if err != nil {
		return Diff{}, true, err
	}

	if e.oldPage.Size() != e.newPage.Size() {
		return Diff{}, true, errs.ErrUnequalStreamLength.WithMessage(
			"cannot read the same amount of data from both streams")
	}

	if e.oldPage.IsEmpty() && e.newPage.IsEmpty() {
		returnDiff := e.diff
		e.diff = newEmptyDiff(e.offset)
		return returnDiff, true, nil
	}

	e.state = stateFindDiff
	return Diff{}, false, nil
}

func (e *Engine) findDiff() (Diff, bool, error) {
	diff := e.findDiffInPages(e.oldPage, e.newPage, e.offset)
	e.offset = diff.End()

	if diff.IsEmpty() {
		// End of this page pair. Read new ones next time around.
		e.oldPage.Release()
		e.newPage.Release()
		e.oldPage = pagedstream.Page{}
		e.newPage = pagedstream.Page{}
		e.state = stateReadPages
	}

	switch tryMerge(&e.diff, &diff, e.maxMergeGap, e.maxSize) {
	case mergeFinished:
		returnDiff := e.diff
		e.diff = diff
		if !returnDiff.IsEmpty() {
			return returnDiff, true, nil
		}
		return Diff{}, false, nil

	default: // mergeIncomplete
		diff.Release()
		return Diff{}, false, nil
	}
}

// findDiffInPages scans a single pair of pages for the next run of differing
// bytes, in two phases: first skipping over equal bytes, then scanning
// through unequal ones until either an equal byte or the end of the pages is
// reached.
func (e *Engine) findDiffInPages(oldPage, newPage pagedstream.Page, offsetInStream uint64) Diff {
	oldData := oldPage.Bytes()
	newData := newPage.Bytes()
	dataSize := oldPage.Size()

	i := offsetInStream - newPage.Start()
	for ; i < dataSize && newData[i] == oldData[i]; i++ {
	}
	startInPages := i

	if i < dataSize {
		i++
	}
	for ; i < dataSize && newData[i] != oldData[i]; i++ {
	}
	endInPages := i

	startInStream := newPage.Start() + startInPages
	endInStream := newPage.Start() + endInPages
	if startInStream == endInStream {
		return newEmptyDiff(startInStream)
	}
	return newDiff(newPage.Retain(), startInStream, endInStream)
}

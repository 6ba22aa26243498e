// Package pagedstream reads an io.Reader as a sequence of fixed-size, lazily
// fetched Pages whose backing bytes are shared-ownership views into the
// underlying stream.Reader's rotating buffers.
package pagedstream

import (
	"io"

	"github.com/jansucan/diff-dd/stream"
)

// Page is one fixed-size window of a stream, covering the absolute byte
// range [Start, End). Its size is strictly less than the page size reader's
// page size only for the final page of a stream, or for the sentinel empty
// page returned once the stream is exhausted.
type Page struct {
	view  stream.View
	start uint64
	end   uint64
}

// Start is the page's absolute starting offset in the stream.
func (p Page) Start() uint64 { return p.start }

// End is the page's absolute ending offset (exclusive) in the stream.
func (p Page) End() uint64 { return p.end }

// Size is the number of bytes the page covers.
func (p Page) Size() uint64 { return p.end - p.start }

// IsEmpty reports whether the page covers zero bytes, the sentinel returned
// once the underlying stream is exhausted.
func (p Page) IsEmpty() bool { return p.Size() == 0 }

// Bytes returns the page's bytes. Only valid until the page is released.
func (p Page) Bytes() []byte { return p.view.Bytes() }

// Retain returns a Page sharing the same backing view, bumping its
// reference count. Used when a diff must keep a page's data alive beyond
// the scope that originally read it.
func (p Page) Retain() Page {
	p.view = p.view.Retain()
	return p
}

// Release drops this page's reference to its backing buffer slot.
func (p Page) Release() {
	p.view.Release()
}

// SameData reports whether two pages share the same backing buffer slot,
// i.e. they were read from the same underlying stream.Reader slot rather
// than merely containing identical bytes.
func (p Page) SameData(other Page) bool {
	return p.view.SameSlot(other.view)
}

// Reader produces a stream's Pages one at a time, in order, each covering
// pageSize bytes except possibly the last.
type Reader struct {
	pageSize uint64
	reader   *stream.Reader
	pos      uint64
}

// NewReader creates a Reader over src, yielding pages of pageSizeBytes bytes
// each.
func NewReader(src io.Reader, pageSizeBytes int) (*Reader, error) {
	r, err := stream.NewReader(src, pageSizeBytes, 2)
	if err != nil {
		return nil, err
	}
	return &Reader{
		pageSize: uint64(pageSizeBytes),
		reader:   r,
	}, nil
}

// GetNextPage returns the next page of the stream. Once the stream is
// exhausted, it keeps returning an empty Page forever.
func (r *Reader) GetNextPage() (Page, error) {
	view, err := r.reader.TryRead(int(r.pageSize))
	if err != nil {
		return Page{}, err
	}

	start := r.pos
	r.pos += uint64(view.Len())
	return Page{view: view, start: start, end: r.pos}, nil
}

// Package stream implements a fixed-capacity buffered reader and writer over
// arbitrary io.Reader/io.Writer streams. The reader rotates through a small
// pool of buffer slots so callers can hold a zero-copy View into stream data
// without pinning the whole pool, at the cost of having to release each View
// once they're done with it.
package stream

import (
	"io"

	"github.com/jansucan/diff-dd/errs"
)

// slot is one rotating buffer owned by a Reader. refs counts outstanding
// Views into it; a slot can only be refilled once refs drops to zero.
type slot struct {
	data []byte
	refs int
}

// View is a read-only window into one of a Reader's buffer slots. It must be
// released with Release() once the caller is done reading it; failing to do
// so prevents the owning slot from ever being refilled again.
type View struct {
	slot *slot
	off  int
	n    int
}

// Bytes returns the bytes this View covers. The returned slice is only valid
// until the View is released.
func (v View) Bytes() []byte {
	if v.slot == nil {
		return nil
	}
	return v.slot.data[v.off : v.off+v.n]
}

// Len reports the number of bytes in the view.
func (v View) Len() int {
	return v.n
}

// Retain returns a new View sharing the same backing slot, incrementing its
// reference count. Used when a single slot of data must outlive the scope
// that originally read it (e.g. diffengine folding two diffs that share a
// page's trailing bytes).
func (v View) Retain() View {
	if v.slot != nil {
		v.slot.refs++
	}
	return v
}

// Release drops this View's reference to its backing slot. A View must not
// be read after it has been released.
func (v View) Release() {
	if v.slot != nil {
		v.slot.refs--
	}
}

// SameSlot reports whether two Views point into the same underlying buffer
// slot, regardless of their offset/length within it. Used by callers (the
// diff engine's page-adjacency check) that need to tell whether two reads
// came from the same underlying buffer or from two different ones.
func (v View) SameSlot(other View) bool {
	return v.slot == other.slot
}

// Reader is a fixed-capacity buffered reader backed by bufferCount rotating
// slots of size capacity, fed from src one slot at a time.
type Reader struct {
	src         io.Reader
	slots       []*slot
	bufferCount int
	index       int
	offset      int
	size        int
}

// NewReader allocates a Reader with the given per-slot capacity and number
// of rotating slots, then eagerly fills the first slot.
func NewReader(src io.Reader, capacity, bufferCount int) (*Reader, error) {
	if capacity <= 0 || bufferCount <= 0 {
		return nil, errs.ErrArgument.WithMessage("buffer capacity and count must be positive")
	}

	r := &Reader{
		src:         src,
		slots:       make([]*slot, bufferCount),
		bufferCount: bufferCount,
		index:       bufferCount - 1,
		offset:      capacity,
		size:        capacity,
	}
	for i := range r.slots {
		r.slots[i] = &slot{data: make([]byte, capacity)}
	}

	if err := r.refillNextSlot(); err != nil {
		return nil, err
	}
	return r, nil
}

// Read copies up to len(dest) bytes into dest, refilling slots from the
// underlying stream as needed. A refill keeps reading until the slot is full
// or the stream reports EOF, so an underlying read that yields zero bytes
// without an error is simply read again; the loop here retries a zero-length
// TryRead once more before giving up. It returns the number of bytes copied;
// a short read with a nil error means the stream is exhausted.
func (r *Reader) Read(dest []byte) (int, error) {
	retryCount := 0
	offset := 0
	toRead := len(dest)

	for toRead > 0 && retryCount < 2 {
		view, err := r.TryRead(toRead)
		if err != nil {
			return offset, err
		}
		if view.Len() == 0 {
			retryCount++
			continue
		}

		retryCount = 0
		n := copy(dest[offset:], view.Bytes())
		view.Release()
		offset += n
		toRead -= n
	}

	return offset, nil
}

// TryRead returns a zero-copy View of up to dataSize bytes from the current
// slot, refilling from the underlying stream if the current slot is
// exhausted. The returned View has length 0 once the stream is exhausted.
// The caller must Release the View once done with it.
func (r *Reader) TryRead(dataSize int) (View, error) {
	sizeLeft := r.size - r.offset
	if sizeLeft == 0 {
		if err := r.refillNextSlot(); err != nil {
			return View{}, err
		}
		if r.size == 0 {
			return View{}, nil
		}
	}
	return r.readCurrentSlot(dataSize), nil
}

func (r *Reader) readCurrentSlot(dataSize int) View {
	s := r.slots[r.index]
	sizeLeft := r.size - r.offset
	n := dataSize
	if sizeLeft < n {
		n = sizeLeft
	}

	v := View{slot: s, off: r.offset, n: n}
	s.refs++
	r.offset += n
	return v
}

// refillNextSlot advances to the next rotating slot and fills it from src.
// Once the stream reports EOF, size stays at 0 forever and refilling becomes
// a no-op, matching the "last buffer" sentinel the underlying stream reader
// tracks.
func (r *Reader) refillNextSlot() error {
	if r.size == 0 {
		return nil
	}
	if r.offset != r.size {
		panic("stream: refilling a slot that has not been fully consumed")
	}

	r.index = (r.index + 1) % r.bufferCount
	next := r.slots[r.index]
	if next.refs != 0 {
		panic("stream: refilling a slot with an outstanding View reference")
	}

	n, err := readFull(r.src, next.data)
	if err != nil {
		return errs.ErrIO.Wrap(err)
	}

	r.size = n
	r.offset = 0
	return nil
}

// readFull fills buf completely from src, looping over as many underlying
// Read calls as needed, and tolerates the stream ending partway through as a
// normal short read rather than an error.
func readFull(src io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(src, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

// Writer is a fixed-capacity buffered writer that batches small writes and
// passes large ones straight through to dst.
type Writer struct {
	dst      io.Writer
	buffer   []byte
	size     int
	capacity int
}

// NewWriter allocates a Writer with the given buffer capacity.
func NewWriter(dst io.Writer, capacity int) (*Writer, error) {
	if capacity <= 0 {
		return nil, errs.ErrArgument.WithMessage("buffer capacity must be positive")
	}
	return &Writer{
		dst:      dst,
		buffer:   make([]byte, capacity),
		capacity: capacity,
	}, nil
}

// Write appends data to the internal buffer if there's room, otherwise
// flushes first. Data larger than the whole buffer capacity bypasses
// buffering entirely and is written straight through.
func (w *Writer) Write(data []byte) error {
	free := w.capacity - w.size
	if len(data) <= free {
		w.writeBuffer(data)
		return nil
	}

	if err := w.flushBuffer(); err != nil {
		return err
	}
	if len(data) <= w.capacity {
		w.writeBuffer(data)
		return nil
	}
	return w.writeStream(data)
}

func (w *Writer) writeBuffer(data []byte) {
	copy(w.buffer[w.size:], data)
	w.size += len(data)
}

func (w *Writer) flushBuffer() error {
	if w.size == 0 {
		return nil
	}
	err := w.writeStream(w.buffer[:w.size])
	w.size = 0
	return err
}

func (w *Writer) writeStream(data []byte) error {
	if _, err := w.dst.Write(data); err != nil {
		return errs.ErrIO.Wrap(err)
	}
	return nil
}

// Close flushes any remaining buffered data. Go has no destructors, so
// callers must call this explicitly once done writing, in place of the
// underlying stream's RAII-driven flush-on-destruction.
func (w *Writer) Close() error {
	return w.flushBuffer()
}

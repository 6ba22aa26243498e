// Package formatv2 implements the v2 diff image wire format: a fixed file
// header followed by a sequence of offset/size/payload records, all
// big-endian.
package formatv2

import (
	"encoding/binary"
	"io"

	"github.com/jansucan/diff-dd/errs"
	"github.com/jansucan/diff-dd/stream"
)

// FileSignature is the fixed 13-byte magic at the start of every v2 image.
const FileSignature = "diff-dd image"

// FileVersion is the single version byte following the signature.
const FileVersion = uint8(2)

// RecordHeaderSize is the number of bytes a record's offset+size header
// occupies: one uint64 plus one uint32. It doubles as the diff engine's
// default bounded-coalescing gap threshold.
const RecordHeaderSize = 8 + 4

// Writer writes a v2 diff image, starting with the file header.
type Writer struct {
	w *stream.Writer
}

// NewWriter creates a Writer over dst, buffering up to bufferSize bytes, and
// immediately writes the file header.
func NewWriter(dst io.Writer, bufferSize int) (*Writer, error) {
	sw, err := stream.NewWriter(dst, bufferSize)
	if err != nil {
		return nil, err
	}
	w := &Writer{w: sw}
	if err := w.writeFileHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeFileHeader() error {
	if err := w.w.Write([]byte(FileSignature)); err != nil {
		return err
	}
	return w.w.Write([]byte{FileVersion})
}

// WriteDiffRecord writes one record: offset, size, then the payload split
// across however many parts it was given (one part, or two when a diff
// straddled a page boundary).
func (w *Writer) WriteDiffRecord(offset, size uint64, parts [][]byte) error {
	if err := w.writeOffset(offset); err != nil {
		return err
	}
	if err := w.writeSize(size); err != nil {
		return err
	}
	for _, part := range parts {
		if err := w.w.Write(part); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeOffset(offset uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], offset)
	return w.w.Write(buf[:])
}

func (w *Writer) writeSize(size uint64) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(size))
	return w.w.Write(buf[:])
}

// Close flushes any buffered output.
func (w *Writer) Close() error {
	return w.w.Close()
}

// Reader reads a v2 diff image, validating the file header on construction.
type Reader struct {
	r   *stream.Reader
	eof bool
}

// NewReader creates a Reader over src, buffering up to bufferSize bytes, and
// immediately validates the file header.
func NewReader(src io.Reader, bufferSize int) (*Reader, error) {
	sr, err := stream.NewReader(src, bufferSize, 1)
	if err != nil {
		return nil, err
	}
	r := &Reader{r: sr}
	if err := r.readFileHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// Eof reports whether the last ReadOffset/ReadSize call ran out of records.
func (r *Reader) Eof() bool {
	return r.eof
}

func (r *Reader) readFileHeader() error {
	sig := make([]byte, len(FileSignature))
	n, err := r.r.Read(sig)
	if err != nil {
		return err
	}
	if n < len(sig) {
		return errs.ErrFormat.WithMessage("cannot read file header signature")
	}
	if string(sig) != FileSignature {
		return errs.ErrFormat.WithMessage("wrong file header signature")
	}

	var version [1]byte
	n, err = r.r.Read(version[:])
	if err != nil {
		return err
	}
	if n < 1 {
		return errs.ErrFormat.WithMessage("cannot read file header version")
	}
	if version[0] != FileVersion {
		return errs.ErrFormat.WithMessage("wrong file header version")
	}
	return nil
}

// ReadOffset reads the next record's offset field. Once the stream is
// exhausted it sets Eof() and returns a meaningless value.
func (r *Reader) ReadOffset() (uint64, error) {
	var buf [8]byte
	n, err := r.r.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		r.eof = true
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadSize reads the current record's size field.
func (r *Reader) ReadSize() (uint32, error) {
	var buf [4]byte
	n, err := r.r.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		r.eof = true
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadRecordData returns a zero-copy view of up to size bytes of the
// current record's payload. The caller must Release the view once done with
// it, and keep calling ReadRecordData until the record's declared size has
// been fully drained (a single call may return fewer bytes than asked for).
func (r *Reader) ReadRecordData(size int) (stream.View, error) {
	return r.r.TryRead(size)
}

// Package restore applies a v2 diff image to a random-access copy of the
// base stream, reconstructing the new stream in place.
package restore

import (
	"io"

	"github.com/jansucan/diff-dd/errs"
	"github.com/jansucan/diff-dd/formatv2"
)

// Output is the random-access target restore patches in place. It is
// expected to already hold a full copy of the base stream; restore does not
// truncate or otherwise prepare it.
type Output interface {
	io.Writer
	io.Seeker
}

// Apply reads records from diffStream and writes each one's payload to the
// matching offset in output, patching it into the new stream's contents.
func Apply(diffStream io.Reader, output Output, bufferSize int) error {
	reader, err := formatv2.NewReader(diffStream, bufferSize)
	if err != nil {
		return err
	}

	for {
		offset, err := reader.ReadOffset()
		if err != nil {
			return err
		}
		if reader.Eof() {
			return nil
		}

		if _, err := output.Seek(int64(offset), io.SeekStart); err != nil {
			return errs.ErrIO.Wrap(err)
		}

		size, err := reader.ReadSize()
		if err != nil {
			return err
		}
		if reader.Eof() {
			return errs.ErrTruncatedRecord.WithMessage("cannot read all the data of the record")
		}

		if err := drainRecord(reader, output, int(size)); err != nil {
			return err
		}
	}
}

func drainRecord(reader *formatv2.Reader, output io.Writer, remaining int) error {
	for remaining > 0 {
		view, err := reader.ReadRecordData(remaining)
		if err != nil {
			return err
		}
		if view.Len() == 0 {
			return errs.ErrTruncatedRecord.WithMessage("cannot read all the data of the record")
		}

		_, err = output.Write(view.Bytes())
		n := view.Len()
		view.Release()
		if err != nil {
			return errs.ErrIO.Wrap(err)
		}
		remaining -= n
	}
	return nil
}

// Package testsupport provides fixtures shared across diff-dd's package test
// suites: random byte buffers, in-memory seekable streams, and helpers for
// building expected wire-format byte strings.
package testsupport

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"testing"

	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// RandomBytes returns n random bytes. It is guaranteed to either succeed or
// fail the test and abort.
func RandomBytes(t *testing.T, n int) []byte {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	require.NoErrorf(t, err, "failed to generate %d random bytes", n)
	return buf
}

// MutatedCopy returns a copy of base with the byte at each of the given
// offsets changed, for building a "new" fixture that differs from "base" at known
// positions.
func MutatedCopy(t *testing.T, base []byte, offsets ...int) []byte {
	out := make([]byte, len(base))
	copy(out, base)

	replacement := RandomBytes(t, len(offsets))
	for i, off := range offsets {
		require.Lessf(t, off, len(out), "mutation offset %d out of range", off)
		// Guarantee the byte actually changes.
		for replacement[i] == out[off] {
			replacement[i]++
		}
		out[off] = replacement[i]
	}
	return out
}

// NewSeekableBuffer wraps data in an in-memory io.ReadWriteSeeker, the same
// fixture shape the underlying corpus uses for testing code that needs
// random-access streams without touching the filesystem.
func NewSeekableBuffer(data []byte) io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(data)
}

// EncodeBigEndian builds the expected byte representation of a sequence of
// big-endian fields into a fixed-capacity buffer, for constructing expected
// wire-format output in codec tests.
func EncodeBigEndian(t *testing.T, capacity int, fields ...interface{}) []byte {
	buf := make([]byte, capacity)
	w := bytewriter.New(buf)
	for _, f := range fields {
		require.NoError(t, binary.Write(w, binary.BigEndian, f))
	}
	return buf
}

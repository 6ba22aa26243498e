package restore_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansucan/diff-dd/formatv2"
	"github.com/jansucan/diff-dd/restore"
	"github.com/jansucan/diff-dd/testsupport"
)

func buildImage(t *testing.T, records ...struct {
	offset uint64
	data   string
}) []byte {
	var out bytes.Buffer
	w, err := formatv2.NewWriter(&out, 64)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.WriteDiffRecord(rec.offset, uint64(len(rec.data)), [][]byte{[]byte(rec.data)}))
	}
	require.NoError(t, w.Close())
	return out.Bytes()
}

func TestApply_PatchesEachRecordAtItsOffset(t *testing.T) {
	image := buildImage(t, struct {
		offset uint64
		data   string
	}{2, "XY"}, struct {
		offset uint64
		data   string
	}{8, "Z"})

	base := []byte("0123456789")
	output := testsupport.NewSeekableBuffer(base)

	require.NoError(t, restore.Apply(bytes.NewReader(image), output, 64))
	assert.Equal(t, "01XY4567Z9", string(base))
}

func TestApply_EmptyImageLeavesOutputUntouched(t *testing.T) {
	image := buildImage(t)
	base := []byte("0123456789")
	output := testsupport.NewSeekableBuffer(base)

	require.NoError(t, restore.Apply(bytes.NewReader(image), output, 64))
	assert.Equal(t, "0123456789", string(base))
}

func TestApply_RejectsTruncatedRecord(t *testing.T) {
	image := buildImage(t, struct {
		offset uint64
		data   string
	}{0, "hello"})
	// Chop off the last two payload bytes so the declared size overruns
	// what's actually in the stream.
	truncated := image[:len(image)-2]

	base := make([]byte, 10)
	output := testsupport.NewSeekableBuffer(base)

	err := restore.Apply(bytes.NewReader(truncated), output, 64)
	assert.Error(t, err)
}

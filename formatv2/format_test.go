package formatv2_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansucan/diff-dd/formatv2"
)

func TestWriter_WritesFileHeaderAndRecords(t *testing.T) {
	var out bytes.Buffer
	w, err := formatv2.NewWriter(&out, 64)
	require.NoError(t, err)

	require.NoError(t, w.WriteDiffRecord(10, 3, [][]byte{[]byte("abc")}))
	require.NoError(t, w.Close())

	data := out.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte("diff-dd image")))
	assert.Equal(t, byte(2), data[13])

	record := data[14:]
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 10}, record[0:8])
	assert.Equal(t, []byte{0, 0, 0, 3}, record[8:12])
	assert.Equal(t, "abc", string(record[12:15]))
}

func TestReader_RejectsWrongSignature(t *testing.T) {
	_, err := formatv2.NewReader(bytes.NewReader([]byte("not a diff-dd image!!")), 64)
	assert.Error(t, err)
}

func TestReader_RejectsWrongVersion(t *testing.T) {
	buf := append([]byte("diff-dd image"), 0xFF)
	_, err := formatv2.NewReader(bytes.NewReader(buf), 64)
	assert.Error(t, err)
}

func TestWriterReader_RoundTripsOneRecord(t *testing.T) {
	var out bytes.Buffer
	w, err := formatv2.NewWriter(&out, 64)
	require.NoError(t, err)
	require.NoError(t, w.WriteDiffRecord(100, 5, [][]byte{[]byte("hello")}))
	require.NoError(t, w.Close())

	r, err := formatv2.NewReader(bytes.NewReader(out.Bytes()), 64)
	require.NoError(t, err)

	offset, err := r.ReadOffset()
	require.NoError(t, err)
	require.False(t, r.Eof())
	assert.Equal(t, uint64(100), offset)

	size, err := r.ReadSize()
	require.NoError(t, err)
	require.False(t, r.Eof())
	assert.Equal(t, uint32(5), size)

	view, err := r.ReadRecordData(int(size))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(view.Bytes()))
	view.Release()

	_, err = r.ReadOffset()
	require.NoError(t, err)
	assert.True(t, r.Eof())
}

package formatv1_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansucan/diff-dd/formatv1"
)

func buildV1Entry(t *testing.T, buf *bytes.Buffer, offset uint64, page []byte) {
	require.NoError(t, binary.Write(buf, binary.LittleEndian, offset))
	_, err := buf.Write(page)
	require.NoError(t, err)
}

func TestValidate_CleanImagePasses(t *testing.T) {
	var buf bytes.Buffer
	buildV1Entry(t, &buf, 0, make([]byte, 4))
	buildV1Entry(t, &buf, 8, make([]byte, 4))

	report := formatv1.Validate(bytes.NewReader(buf.Bytes()), 4, 16)
	assert.Equal(t, 2, report.Entries)
	assert.NoError(t, report.Err)
}

func TestValidate_FlagsOutOfOrderEntries(t *testing.T) {
	var buf bytes.Buffer
	buildV1Entry(t, &buf, 8, make([]byte, 4))
	buildV1Entry(t, &buf, 4, make([]byte, 4))

	report := formatv1.Validate(bytes.NewReader(buf.Bytes()), 4, 16)
	assert.Error(t, report.Err)
}

func TestValidate_FlagsOutOfBoundsEntry(t *testing.T) {
	var buf bytes.Buffer
	buildV1Entry(t, &buf, 100, make([]byte, 4))

	report := formatv1.Validate(bytes.NewReader(buf.Bytes()), 4, 16)
	assert.Error(t, report.Err)
}

func TestValidate_FlagsOverlappingEntries(t *testing.T) {
	var buf bytes.Buffer
	buildV1Entry(t, &buf, 0, make([]byte, 4))
	buildV1Entry(t, &buf, 4, make([]byte, 4))
	buildV1Entry(t, &buf, 0, make([]byte, 4))

	report := formatv1.Validate(bytes.NewReader(buf.Bytes()), 4, 16)
	assert.Error(t, report.Err)
}

package pagedstream_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansucan/diff-dd/pagedstream"
	"github.com/jansucan/diff-dd/testsupport"
)

func TestReader_YieldsFixedSizePagesThenEmpty(t *testing.T) {
	data := testsupport.RandomBytes(t, 25)
	r, err := pagedstream.NewReader(bytes.NewReader(data), 10)
	require.NoError(t, err)

	p1, err := r.GetNextPage()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p1.Start())
	assert.Equal(t, uint64(10), p1.End())
	assert.Equal(t, data[0:10], p1.Bytes())
	p1.Release()

	p2, err := r.GetNextPage()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), p2.Start())
	assert.Equal(t, uint64(20), p2.End())
	p2.Release()

	p3, err := r.GetNextPage()
	require.NoError(t, err)
	assert.Equal(t, uint64(20), p3.Start())
	assert.Equal(t, uint64(25), p3.End())
	assert.Equal(t, uint64(5), p3.Size())
	p3.Release()

	p4, err := r.GetNextPage()
	require.NoError(t, err)
	assert.True(t, p4.IsEmpty())
}

func TestReader_PagesFromSameSlotAreSameData(t *testing.T) {
	data := testsupport.RandomBytes(t, 10)
	r, err := pagedstream.NewReader(bytes.NewReader(data), 10)
	require.NoError(t, err)

	p1, err := r.GetNextPage()
	require.NoError(t, err)
	p1Again := p1
	assert.True(t, p1.SameData(p1Again))
	p1.Release()
}

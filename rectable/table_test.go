package rectable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/store"
	"github.com/pixlabs/pix/testutil"
)

func openTestTable(t *testing.T) *Table[uint32, uint64] {
	t.Helper()
	tbl, err := Open[uint32, uint64](
		testutil.TempDir(t, "rectable"),
		pkey.Uint32Codec, pkey.Uint64Codec,
		store.Options{}, store.Options{},
		nil,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })
	return tbl
}

func TestPutAndLookupBothDirections(t *testing.T) {
	tbl := openTestTable(t)
	require.NoError(t, tbl.Put(1, 1001))

	v, found, err := tbl.GetByRecord(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(1001), v)

	r, found, err := tbl.GetByValue(1001)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint32(1), r)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	tbl := openTestTable(t)
	_, found, err := tbl.GetByRecord(42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutOverwritesPriorValueMapping(t *testing.T) {
	tbl := openTestTable(t)
	require.NoError(t, tbl.Put(1, 1001))
	require.NoError(t, tbl.Put(1, 2002))

	v, found, err := tbl.GetByRecord(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(2002), v)

	_, found, err = tbl.GetByValue(1001)
	require.NoError(t, err)
	assert.False(t, found, "stale reverse mapping should be retired on overwrite")

	r, found, err := tbl.GetByValue(2002)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint32(1), r)
}

func TestDeleteRemovesBothDirections(t *testing.T) {
	tbl := openTestTable(t)
	require.NoError(t, tbl.Put(1, 1001))
	require.NoError(t, tbl.Delete(1))

	_, found, err := tbl.GetByRecord(1)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = tbl.GetByValue(1001)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteMissingRecordIsNoop(t *testing.T) {
	tbl := openTestTable(t)
	assert.NoError(t, tbl.Delete(99))
}

package memsnap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jprendes/memsnap/testutil"
)

func TestZeroed(t *testing.T) {
	snap, err := Zeroed(1)
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	assert.GreaterOrEqual(t, view.Len(), 1)
	assert.Zero(t, view.Len()%PageSize())
	assert.True(t, testutil.AllZero(view.Bytes()))
}

func TestFromSlice(t *testing.T) {
	snap, err := FromSlice([]byte("hello slice"))
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	assert.Equal(t, []byte("hello slice"), view.Bytes()[:11])
	assert.True(t, testutil.AllZero(view.Bytes()[11:]), "padding must stay zero")
}

func TestFromFile(t *testing.T) {
	f := testutil.OpenTempFile(t, []byte("hello file"))

	snap, err := FromFile(f)
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	assert.Equal(t, []byte("hello file"), view.Bytes()[:10])
}

func TestFromFile_Empty(t *testing.T) {
	f := testutil.OpenTempFile(t, nil)

	snap, err := FromFile(f)
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	assert.Zero(t, view.Len())
	assert.True(t, view.IsEmpty())
}

func TestFromSlice_Empty(t *testing.T) {
	snap, err := FromSlice(nil)
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	assert.Zero(t, view.Len())
	assert.True(t, view.IsEmpty())
}

func TestSnapshotSize(t *testing.T) {
	snap, err := Zeroed(PageSize() + 1)
	require.NoError(t, err)
	defer snap.Close()

	assert.Equal(t, 2*PageSize(), snap.Size())
}

func TestClone_Independence(t *testing.T) {
	snap1, err := FromSlice([]byte("hello world"))
	require.NoError(t, err)
	defer snap1.Close()

	snap2, err := snap1.Clone()
	require.NoError(t, err)
	defer snap2.Close()

	view1, err := snap1.ViewMut()
	require.NoError(t, err)
	defer view1.Close()
	copy(view1.Bytes(), "hello slice")

	view2, err := snap2.View()
	require.NoError(t, err)
	defer view2.Close()

	assert.Equal(t, []byte("hello world"), view2.Bytes()[:11])
}

func TestSnapshotClosed(t *testing.T) {
	snap, err := Zeroed(1)
	require.NoError(t, err)

	require.NoError(t, snap.Close())
	require.NoError(t, snap.Close(), "close must be idempotent")

	_, err = snap.View()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = snap.ViewMut()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = snap.ViewShared()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestViewExclusivity(t *testing.T) {
	snap, err := Zeroed(1)
	require.NoError(t, err)
	defer snap.Close()

	mut, err := snap.ViewMut()
	require.NoError(t, err)

	_, err = snap.View()
	assert.ErrorIs(t, err, ErrSnapshotBusy)
	_, err = snap.ViewMut()
	assert.ErrorIs(t, err, ErrSnapshotBusy)
	_, err = snap.ViewShared()
	assert.ErrorIs(t, err, ErrSnapshotBusy)

	require.NoError(t, mut.Close())

	// Cow views coexist with each other, but exclude a new mutable view.
	cow1, err := snap.View()
	require.NoError(t, err)
	defer cow1.Close()
	cow2, err := snap.ViewShared()
	require.NoError(t, err)
	defer cow2.Close()

	_, err = snap.ViewMut()
	assert.ErrorIs(t, err, ErrSnapshotBusy)
}

func TestMetricsCollection(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	snap, err := FromSlice(testutil.Pattern(10), WithMetrics(metrics))
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	require.NoError(t, view.Restore())
	require.Error(t, view.Protect(1, 1, AccessRead))

	// FromSlice builds a zeroed snapshot plus one mutable bootstrap view.
	assert.Equal(t, int64(1), metrics.SnapshotCount.Load())
	assert.Equal(t, int64(2), metrics.ViewCount.Load())
	assert.Equal(t, int64(1), metrics.MutableViewCount.Load())
	assert.Equal(t, int64(1), metrics.RestoreCount.Load())
	assert.Equal(t, int64(1), metrics.ProtectCount.Load())
	assert.Equal(t, int64(1), metrics.ProtectErrors.Load())
	assert.Zero(t, metrics.SnapshotErrors.Load())
	assert.Zero(t, metrics.ViewErrors.Load())
	assert.Zero(t, metrics.RestoreErrors.Load())
}

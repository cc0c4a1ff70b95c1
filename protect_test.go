package memsnap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jprendes/memsnap/testutil"
)

func TestProtect_Validation(t *testing.T) {
	snap, err := Zeroed(2 * PageSize())
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.ViewMut()
	require.NoError(t, err)
	defer view.Close()

	tests := []struct {
		name string
		off  int
		n    int
		want error
	}{
		{name: "misaligned offset", off: 1, n: PageSize(), want: ErrMisalignedRange},
		{name: "misaligned length", off: 0, n: PageSize() - 1, want: ErrMisalignedRange},
		{name: "empty range", off: 0, n: 0, want: ErrOutOfBounds},
		{name: "negative length", off: 0, n: -PageSize(), want: ErrOutOfBounds},
		{name: "negative offset", off: -PageSize(), n: PageSize(), want: ErrOutOfBounds},
		{name: "past the end", off: PageSize(), n: 2 * PageSize(), want: ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := view.Protect(tt.off, tt.n, AccessRead)
			assert.ErrorIs(t, err, tt.want)

			var rerr *RangeError
			assert.ErrorAs(t, err, &rerr)
		})
	}

	// No protection was applied by the rejected calls: the whole view is
	// still writable.
	view.Bytes()[0] = 1
	view.Bytes()[view.Len()-1] = 1
}

func TestProtect_ReadThenWritable(t *testing.T) {
	content := testutil.Pattern(PageSize())

	snap, err := FromSlice(content)
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	require.NoError(t, view.Protect(0, PageSize(), AccessRead))

	// Reads still work under read-only protection.
	assert.Equal(t, content, view.Bytes())

	// Restore recreates the mapping, lifting the protection.
	require.NoError(t, view.Restore())
	view.Bytes()[0] = 0xFF
}

func TestProtect_WriteImpliesRead(t *testing.T) {
	snap, err := FromSlice(testutil.Pattern(PageSize()))
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.ViewMut()
	require.NoError(t, err)
	defer view.Close()

	require.NoError(t, view.Protect(0, PageSize(), AccessWrite))

	// Write access always implies read access.
	_ = view.Bytes()[0]
	view.Bytes()[0] = 1
}

func TestProtect_SubRange(t *testing.T) {
	snap, err := Zeroed(4 * PageSize())
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.ViewMut()
	require.NoError(t, err)
	defer view.Close()

	// Lock the two middle pages; the outer pages stay writable.
	require.NoError(t, view.Protect(PageSize(), 2*PageSize(), AccessRead))

	view.Bytes()[0] = 1
	view.Bytes()[3*PageSize()] = 1

	// Lift it again for teardown symmetry.
	require.NoError(t, view.Protect(PageSize(), 2*PageSize(), AccessRead|AccessWrite))
	view.Bytes()[PageSize()] = 1
}

func TestProtect_None(t *testing.T) {
	snap, err := FromSlice(testutil.Pattern(PageSize()))
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	// Revoking all access must succeed; actually touching the pages now
	// would fault, and trapping that is the host's job, not this package's.
	require.NoError(t, view.Protect(0, PageSize(), AccessNone))

	// Restore lifts the protection and reverts the content.
	require.NoError(t, view.Restore())
	assert.Equal(t, testutil.Pattern(PageSize()), view.Bytes())
	view.Bytes()[0] = 1
}

func TestProtect_Exec(t *testing.T) {
	snap, err := FromSlice(testutil.Pattern(PageSize()))
	require.NoError(t, err)
	defer snap.Close()

	view, err := snap.View()
	require.NoError(t, err)
	defer view.Close()

	require.NoError(t, view.Protect(0, PageSize(), AccessRead|AccessExec))
	assert.Equal(t, byte(1), view.Bytes()[0])

	require.NoError(t, view.Restore())
}

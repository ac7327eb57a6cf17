package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionIndexCreateOnMiss(t *testing.T) {
	idx := newConnectionIndex[int]()
	require.Empty(t, idx.pinnings)

	p1 := idx.get("a:1")
	require.NotNil(t, p1)
	require.Len(t, idx.pinnings, 1)

	// second lookup of the same address returns the same pinning instance.
	p2 := idx.get("a:1")
	require.Same(t, p1, p2)
	require.Len(t, idx.pinnings, 1)
}

func TestConnectionIndexKeysAreRawStrings(t *testing.T) {
	idx := newConnectionIndex[int]()
	idx.get("a:1")
	idx.get("A:1") // no normalization — distinct key

	require.Len(t, idx.pinnings, 2)
}

func TestConnectionIndexUnpinSweepsAllAddresses(t *testing.T) {
	idx := newConnectionIndex[int]()

	c1 := newTestConnection("a:1")
	c1.PinTo(7)
	idx.get("a:1").set(c1)

	c2 := newTestConnection("b:2")
	c2.PinTo(7)
	idx.get("b:2").set(c2)

	idx.unpin(7)

	_, ok1 := c1.PinnedTo()
	_, ok2 := c2.PinnedTo()
	require.False(t, ok1)
	require.False(t, ok2)

	require.Equal(t, 1, idx.get("a:1").unpinned.len())
	require.Equal(t, 1, idx.get("b:2").unpinned.len())
}

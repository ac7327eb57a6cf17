package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestConnection(address string) *connection[int] {
	return &connection[int]{address: address}
}

func TestPinningGetMissReturnsNil(t *testing.T) {
	p := newPinning[int]()
	require.Nil(t, p.get(42))
}

func TestPinningGetExactMatch(t *testing.T) {
	p := newPinning[int]()
	c := newTestConnection("127.0.0.1:27017")
	c.PinTo(42)
	p.set(c)

	got := p.get(42)
	require.Same(t, c, got)
}

func TestPinningGetPromotesUnpinned(t *testing.T) {
	p := newPinning[int]()
	c := newTestConnection("127.0.0.1:27017")
	c.PinTo(42)
	p.set(c)
	p.unpin(42)

	tid, ok := c.PinnedTo()
	require.False(t, ok)
	require.Zero(t, tid)

	got := p.get(99)
	require.Same(t, c, got)
	gotTID, ok := got.PinnedTo()
	require.True(t, ok)
	require.Equal(t, 99, gotTID)
}

func TestPinningUnpinLIFOOrder(t *testing.T) {
	p := newPinning[int]()
	c1 := newTestConnection("a:1")
	c1.PinTo(1)
	c2 := newTestConnection("a:1")
	c2.PinTo(2)
	p.set(c1)
	p.set(c2)
	p.unpin(1)
	p.unpin(2)

	// unpin(2) happened last, so it's on top of the LIFO stack.
	got := p.get(3)
	require.Same(t, c2, got)

	got2 := p.get(4)
	require.Same(t, c1, got2)
}

func TestPinningUnpinMissingThread(t *testing.T) {
	p := newPinning[int]()
	require.Nil(t, p.unpin(1))
}

func TestPinningInvariantsUnderConcurrentUse(t *testing.T) {
	// Pinning carries no lock of its own (spec §4.1); this test exercises
	// it the way ConnectionPool does, serialized behind a mutex, to pin
	// down that get/set/unpin never corrupt the two collections.
	var mu sync.Mutex
	p := newPinning[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			c := newTestConnection("a:1")
			c.PinTo(i)
			p.set(c)
			p.unpin(i)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Empty(t, p.threads)
	require.Equal(t, 50, p.unpinned.len())
}

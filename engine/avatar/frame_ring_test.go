package avatar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRingAcquireAll(t *testing.T) {
	r := newFrameRing(3)

	seen := make(map[int]bool)
	for i := 0; i < 3; i++ {
		seen[r.acquire()] = true
	}
	assert.Len(t, seen, 3)
}

func TestFrameRingBlocksWhenExhausted(t *testing.T) {
	r := newFrameRing(2)
	r.acquire()
	slot := r.acquire()

	acquired := make(chan int)
	go func() {
		acquired <- r.acquire()
	}()

	select {
	case <-acquired:
		t.Fatal("acquire should block while all slots are in flight")
	case <-time.After(20 * time.Millisecond):
	}

	r.release(slot)
	select {
	case got := <-acquired:
		assert.Equal(t, slot, got)
	case <-time.After(time.Second):
		t.Fatal("acquire did not resume after release")
	}
}

func TestFrameRingMinimumDepth(t *testing.T) {
	r := newFrameRing(0)
	require.Equal(t, 1, r.depth)
	assert.Equal(t, 0, r.acquire())
}

func TestFrameRingIgnoresExtraRelease(t *testing.T) {
	r := newFrameRing(1)
	r.release(0)
	assert.Equal(t, 1, len(r.slots))
}

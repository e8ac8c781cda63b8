package avatar

// frameRing is a counting semaphore over per-frame uniform slots. Acquire
// blocks when every slot is still in flight on the GPU, which bounds how far
// the encoding goroutine can run ahead.
type frameRing struct {
	slots chan int
	depth int
}

func newFrameRing(depth int) *frameRing {
	if depth < 1 {
		depth = 1
	}
	r := &frameRing{
		slots: make(chan int, depth),
		depth: depth,
	}
	for i := 0; i < depth; i++ {
		r.slots <- i
	}
	return r
}

// acquire blocks until a slot is free and returns its index.
func (r *frameRing) acquire() int {
	return <-r.slots
}

// release returns a slot to the ring once the GPU has finished with it.
func (r *frameRing) release(slot int) {
	select {
	case r.slots <- slot:
	default:
		// Releasing more slots than the ring holds is a caller bug;
		// dropping the extra keeps the ring bounded.
	}
}

package mimpi

import (
	"sync"

	"github.com/gomimpi/mimpi/internal/wire"
)

// inbox is the per-peer ordered queue of received frames plus the
// liveness flag for that peer, protected by its own mutex. Frames are
// appended only by that peer's reader goroutine; frames are removed
// only by a matcher (Recv) holding the lock. Once finished is true no
// new frame will ever be appended.
type inbox struct {
	mutex    sync.Mutex
	cond     *sync.Cond
	frames   []wire.Frame
	finished bool
}

func newInbox() *inbox {
	ib := &inbox{}
	ib.cond = sync.NewCond(&ib.mutex)
	return ib
}

// append adds a frame arriving from the reader to the tail of the
// queue and wakes anyone waiting on this inbox.
func (ib *inbox) append(f wire.Frame) {
	ib.mutex.Lock()
	ib.frames = append(ib.frames, f)
	ib.mutex.Unlock()
	ib.cond.Broadcast()
}

// markFinished flips the liveness flag and wakes anyone waiting on
// this inbox. Idempotent.
func (ib *inbox) markFinished() {
	ib.mutex.Lock()
	ib.finished = true
	ib.mutex.Unlock()
	ib.cond.Broadcast()
}

// matches reports whether frame f satisfies the (count, tag)
// predicate of a Recv call.
func matches(f wire.Frame, count uint32, tag int32) bool {
	if f.Count != count {
		return false
	}
	return tag == AnyTag || f.Tag == tag
}

// take scans the inbox in arrival order for the first frame matching
// (count, tag), unlinks and returns it. Must be called with ib.mutex
// held.
func (ib *inbox) take(count uint32, tag int32) (wire.Frame, bool) {
	for i, f := range ib.frames {
		if matches(f, count, tag) {
			ib.frames = append(ib.frames[:i], ib.frames[i+1:]...)
			return f, true
		}
	}
	return wire.Frame{}, false
}

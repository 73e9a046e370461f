package mimpi

import (
	"os"

	"github.com/gomimpi/mimpi/internal/wire"
	"github.com/gomimpi/mimpi/internal/wiring"
)

// readerLoop is the body of the per-peer reader goroutine. It reads
// framed messages off pipe until the peer's end closes (ErrRemoteFinished)
// or the runtime cancels it, appending each frame to the peer's inbox
// in arrival order. It never holds a lock across the blocking read, so
// it is always safe to let it run to completion during Finalize.
func (r *Runtime) readerLoop(peer int, pipe *os.File, box *inbox) {
	defer r.readers.Done()
	legacySlot := wiring.P2PReadSlot(peer, r.rank)
	for {
		frame, err := wire.ReadFrame(pipe)
		if err != nil {
			box.markFinished()
			return
		}
		if r.metrics != nil {
			r.metrics.FramesReceived.Inc()
			r.metrics.BytesReceived.Add(float64(len(frame.Payload)))
		}
		r.log.Debugf("rank %d read frame count=%d tag=%d from %d (legacy slot %d)", r.rank, frame.Count, frame.Tag, peer, legacySlot)
		box.append(frame)
	}
}

package mimpi

import (
	"errors"

	"github.com/gomimpi/mimpi/internal/wire"
	"github.com/gomimpi/mimpi/internal/wiring"
)

// Send blocks until data has been written in full to destination,
// tagged with tag. count == 0 is valid and still exchanges frame
// metadata.
func (r *Runtime) Send(data []byte, destination int, tag int32) error {
	if destination == r.rank {
		return ErrAttemptedSelfOp
	}
	if destination < 0 || destination >= r.worldSize {
		return ErrNoSuchRank
	}

	pipe := r.channels.p2pSend[destination]
	if err := wire.WriteFrame(pipe, data, tag); err != nil {
		if errors.Is(err, wire.ErrRemoteFinished) {
			r.countRemoteFinished()
			return ErrRemoteFinished
		}
		return err
	}

	if r.metrics != nil {
		r.metrics.FramesSent.Inc()
		r.metrics.BytesSent.Add(float64(len(data)))
	}
	r.log.Debugf("rank %d sent frame count=%d tag=%d to %d (legacy slot %d)", r.rank, len(data), tag, destination, wiring.P2PWriteSlot(r.rank, destination))
	return nil
}

// Recv blocks until a frame from source, with exactly count payload
// bytes and a tag matching the rule below, is available, then removes
// that frame from the inbox and returns its payload.
//
// Matching rule, scanned in arrival order over source's inbox: if tag
// == AnyTag, the first frame whose byte count equals count; otherwise
// the first frame whose byte count equals count and whose tag equals
// tag. Returns ErrRemoteFinished once source's reader has observed
// EOF and no such frame remains queued.
//
// The caller API is single-threaded: concurrent calls to Recv on the
// same Runtime are not supported, matching MPI's single outstanding
// "matching request" per process.
func (r *Runtime) Recv(count int, source int, tag int32) ([]byte, error) {
	if source == r.rank {
		return nil, ErrAttemptedSelfOp
	}
	if source < 0 || source >= r.worldSize {
		return nil, ErrNoSuchRank
	}
	if count < 0 {
		return nil, errors.New("mimpi: negative count")
	}

	box := r.inboxes[source]
	wanted := uint32(count)

	box.mutex.Lock()
	defer box.mutex.Unlock()
	for {
		if frame, ok := box.take(wanted, tag); ok {
			return frame.Payload, nil
		}
		if box.finished {
			r.countRemoteFinished()
			return nil, ErrRemoteFinished
		}
		box.cond.Wait()
	}
}

func (r *Runtime) countRemoteFinished() {
	if r.metrics != nil {
		r.metrics.RemoteFinished.Inc()
	}
}

package mimpi

import (
	"errors"
	"time"

	"github.com/gomimpi/mimpi/internal/reduceop"
	"github.com/gomimpi/mimpi/internal/wire"
)

// Barrier does not return until every rank has entered Barrier: each
// rank waits for both its children's up-reports before reporting up
// to its own parent, then releases both children once its parent
// (or, at the root, nothing) has released it.
func (r *Runtime) Barrier() error {
	start := time.Now()
	var tok [1]byte

	if r.hasLeft() {
		if err := wire.ReadFull(r.channels.treeUpRecvLeft, tok[:]); err != nil {
			return r.translatePipeErr(err)
		}
	}
	if r.hasRight() {
		if err := wire.ReadFull(r.channels.treeUpRecvRight, tok[:]); err != nil {
			return r.translatePipeErr(err)
		}
	}
	if r.hasParent() {
		if err := wire.WriteFull(r.channels.treeUpSend, tok[:]); err != nil {
			return r.translatePipeErr(err)
		}
		if err := wire.ReadFull(r.channels.treeDownRecv, tok[:]); err != nil {
			return r.translatePipeErr(err)
		}
	}
	if r.hasLeft() {
		if err := wire.WriteFull(r.channels.treeDownSendLeft, tok[:]); err != nil {
			return r.translatePipeErr(err)
		}
	}
	if r.hasRight() {
		if err := wire.WriteFull(r.channels.treeDownSendRight, tok[:]); err != nil {
			return r.translatePipeErr(err)
		}
	}

	r.observeCollective("barrier", start)
	return nil
}

// Bcast ships data from root to every rank in the group. The root's
// own data is treated as the source value; every other rank's data
// argument only supplies the byte count, and is overwritten in place
// with the root's value on success. Returns the final buffer for
// convenience.
//
// A semantic root other than rank 0 first relays its payload to rank
// 0 over a dedicated pipe pair, since the collective tree itself is
// always rooted at rank 0; the payload then flows down the tree as
// usual.
func (r *Runtime) Bcast(data []byte, root int) ([]byte, error) {
	if root < 0 || root >= r.worldSize {
		return nil, ErrNoSuchRank
	}
	start := time.Now()

	buf := make([]byte, len(data))
	if r.rank == root {
		copy(buf, data)
	}

	if r.rank == root && r.rank != 0 {
		if err := wire.WriteFull(r.channels.relayUpSend, buf); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	var tok [1]byte
	if r.hasLeft() {
		if err := wire.ReadFull(r.channels.treeUpRecvLeft, tok[:]); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}
	if r.hasRight() {
		if err := wire.ReadFull(r.channels.treeUpRecvRight, tok[:]); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	if r.rank == 0 && root != 0 {
		if err := wire.ReadFull(r.channels.relayUpRecv[root], buf); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	if r.hasParent() {
		if err := wire.WriteFull(r.channels.treeUpSend, tok[:]); err != nil {
			return nil, r.translatePipeErr(err)
		}
		if err := wire.ReadFull(r.channels.treeDownRecv, buf); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	if r.hasLeft() {
		if err := wire.WriteFull(r.channels.treeDownSendLeft, buf); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}
	if r.hasRight() {
		if err := wire.WriteFull(r.channels.treeDownSendRight, buf); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	copy(data, buf)
	r.observeCollective("bcast", start)
	return buf, nil
}

// Reduce folds sendData from every rank with op, bottom-up over the
// collective tree, and delivers the final result to root. Only root's
// returned slice is meaningful; every other rank gets (nil, nil) on
// success.
func (r *Runtime) Reduce(sendData []byte, op Op, root int) ([]byte, error) {
	if root < 0 || root >= r.worldSize {
		return nil, ErrNoSuchRank
	}
	start := time.Now()

	reduce, err := reduceop.For(op)
	if err != nil {
		return nil, err
	}
	count := len(sendData)

	var mid []byte
	if r.hasLeft() {
		tab1 := make([]byte, count)
		if err := wire.ReadFull(r.channels.treeUpRecvLeft, tab1); err != nil {
			return nil, r.translatePipeErr(err)
		}
		mid = reduce(tab1, sendData)
	} else {
		mid = append([]byte(nil), sendData...)
	}

	var res []byte
	if r.hasRight() {
		tab2 := make([]byte, count)
		if err := wire.ReadFull(r.channels.treeUpRecvRight, tab2); err != nil {
			return nil, r.translatePipeErr(err)
		}
		res = reduce(tab2, mid)
	} else {
		res = mid
	}

	var tok [1]byte
	if r.hasParent() {
		if err := wire.WriteFull(r.channels.treeUpSend, res); err != nil {
			return nil, r.translatePipeErr(err)
		}
		if err := wire.ReadFull(r.channels.treeDownRecv, tok[:]); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	if r.hasLeft() {
		if err := wire.WriteFull(r.channels.treeDownSendLeft, tok[:]); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}
	if r.hasRight() {
		if err := wire.WriteFull(r.channels.treeDownSendRight, tok[:]); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	if r.rank == 0 && root != 0 {
		if err := wire.WriteFull(r.channels.relayDownSend[root], res); err != nil {
			return nil, r.translatePipeErr(err)
		}
	}

	var recvData []byte
	if r.rank == root {
		if r.rank != 0 {
			recvData = make([]byte, count)
			if err := wire.ReadFull(r.channels.relayDownRecv, recvData); err != nil {
				return nil, r.translatePipeErr(err)
			}
		} else {
			recvData = append([]byte(nil), res...)
		}
	}

	r.observeCollective("reduce", start)
	return recvData, nil
}

// translatePipeErr maps a wire-level failure to the public API: a
// peer closing its end becomes ErrRemoteFinished, anything else is a
// genuine system-call failure, which is treated as fatal.
func (r *Runtime) translatePipeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, wire.ErrRemoteFinished) {
		r.countRemoteFinished()
		return ErrRemoteFinished
	}
	r.log.Fatalf("unrecoverable channel error: %v", err)
	return err
}

func (r *Runtime) observeCollective(name string, start time.Time) {
	if r.metrics != nil {
		r.metrics.CollectiveLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

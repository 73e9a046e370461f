package mimpi

import (
	"fmt"
	"os"

	"github.com/gomimpi/mimpi/internal/wiring"
)

// channelSet holds every pipe endpoint a rank owns, assigned from a
// flat []*os.File in the exact order wiring.Endpoints(rank, n)
// produces it. Both Init (reconstructing inherited descriptors) and
// the in-process test harness (wiring real os.Pipe pairs directly)
// build one of these the same way, through assignChannels.
type channelSet struct {
	p2pRecv map[int]*os.File
	p2pSend map[int]*os.File

	treeUpRecvLeft  *os.File
	treeUpRecvRight *os.File
	treeUpSend      *os.File

	treeDownRecv      *os.File
	treeDownSendLeft  *os.File
	treeDownSendRight *os.File

	relayUpRecv   map[int]*os.File
	relayUpSend   *os.File
	relayDownSend map[int]*os.File
	relayDownRecv *os.File
}

// assignChannels walks wiring.Endpoints(rank, worldSize) in lockstep
// with files, routing each *os.File to the channelSet field matching
// its endpoint kind. len(files) must equal len(wiring.Endpoints(rank,
// worldSize)); a worker reconstructs files from inherited fd numbers
// in exactly this order, so a mismatch means the launcher and worker
// disagree about the topology.
func assignChannels(rank, worldSize int, files []*os.File) (*channelSet, error) {
	endpoints := wiring.Endpoints(rank, worldSize)
	if len(files) != len(endpoints) {
		return nil, fmt.Errorf("mimpi: rank %d expected %d inherited channels, got %d", rank, len(endpoints), len(files))
	}

	cs := &channelSet{
		p2pRecv:       make(map[int]*os.File),
		p2pSend:       make(map[int]*os.File),
		relayUpRecv:   make(map[int]*os.File),
		relayDownSend: make(map[int]*os.File),
	}

	for i, ep := range endpoints {
		f := files[i]
		switch ep.Kind {
		case wiring.P2PRecv:
			cs.p2pRecv[ep.Peer] = f
		case wiring.P2PSend:
			cs.p2pSend[ep.Peer] = f
		case wiring.TreeUpRecvLeft:
			cs.treeUpRecvLeft = f
		case wiring.TreeUpRecvRight:
			cs.treeUpRecvRight = f
		case wiring.TreeUpSend:
			cs.treeUpSend = f
		case wiring.TreeDownRecv:
			cs.treeDownRecv = f
		case wiring.TreeDownSendLeft:
			cs.treeDownSendLeft = f
		case wiring.TreeDownSendRight:
			cs.treeDownSendRight = f
		case wiring.RelayUpRecv:
			cs.relayUpRecv[ep.Peer] = f
		case wiring.RelayUpSend:
			cs.relayUpSend = f
		case wiring.RelayDownSend:
			cs.relayDownSend[ep.Peer] = f
		case wiring.RelayDownRecv:
			cs.relayDownRecv = f
		default:
			return nil, fmt.Errorf("mimpi: unhandled endpoint kind %v", ep.Kind)
		}
	}

	return cs, nil
}

// allFiles returns every *os.File this channel set owns, for bulk
// closing during Finalize.
func (cs *channelSet) allFiles() []*os.File {
	var out []*os.File
	for _, f := range cs.p2pRecv {
		out = append(out, f)
	}
	for _, f := range cs.p2pSend {
		out = append(out, f)
	}
	for _, f := range []*os.File{cs.treeUpRecvLeft, cs.treeUpRecvRight, cs.treeUpSend, cs.treeDownRecv, cs.treeDownSendLeft, cs.treeDownSendRight, cs.relayUpSend, cs.relayDownRecv} {
		if f != nil {
			out = append(out, f)
		}
	}
	for _, f := range cs.relayUpRecv {
		out = append(out, f)
	}
	for _, f := range cs.relayDownSend {
		out = append(out, f)
	}
	return out
}

// Package mimpi implements a miniature message-passing runtime for a
// fixed group of cooperating OS processes communicating over local
// pipes: blocking point-to-point send/receive with tags, plus three
// tree collectives (barrier, broadcast, reduce). A group is launched
// by the mimpirun command (package main under cmd/mimpirun); each
// worker calls Init to join it.
package mimpi

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gomimpi/mimpi/internal/metrics"
	"github.com/gomimpi/mimpi/internal/rtlog"
)

// Config carries the one piece of process-wide configuration this
// runtime core is aware of. EnableDeadlockDetection is read and
// stored but never acted on: deadlock detection is reserved for a
// layer above this core.
type Config struct {
	EnableDeadlockDetection bool
}

// EnvWorldSize and EnvRank are the environment variables mimpirun sets
// on every child before exec: the deterministic, per-process
// publication mechanism a worker's Init reads at startup.
const (
	EnvWorldSize = "MIMPI_SIZE"
	EnvRank      = "MIMPI_RANK"
)

// Runtime is the single per-process communicator value: identity,
// every channel endpoint this process owns, and the state shared
// between the caller goroutine and the reader goroutines.
type Runtime struct {
	rank      int
	worldSize int
	config    Config
	log       rtlog.Logger
	metrics   *metrics.Metrics
	registry  *prometheus.Registry

	channels *channelSet
	inboxes  []*inbox // indexed by peer rank; inboxes[rank] is nil

	readers      sync.WaitGroup
	finalizeOnce sync.Once
}

// Init reads world size and rank from the environment (set by
// mimpirun), reconstructs this process's inherited channel endpoints,
// and spawns one reader goroutine per peer. It must be called exactly
// once per process, before any other Runtime method.
func Init(config Config) (*Runtime, error) {
	worldSize, err := envInt(EnvWorldSize)
	if err != nil {
		return nil, fmt.Errorf("mimpi: reading %s: %w", EnvWorldSize, err)
	}
	rank, err := envInt(EnvRank)
	if err != nil {
		return nil, fmt.Errorf("mimpi: reading %s: %w", EnvRank, err)
	}

	files, err := inheritedFiles(worldSize, rank)
	if err != nil {
		return nil, err
	}

	cs, err := assignChannels(rank, worldSize, files)
	if err != nil {
		return nil, err
	}

	return newRuntime(rank, worldSize, config, cs, rtlog.NewStdLogger(fmt.Sprintf("mimpi[%d]", rank)))
}

// newRuntime builds the Runtime around an already-assembled
// channelSet. Both Init (real inherited descriptors) and the
// in-process test harness (pipes wired directly) funnel through here,
// so the lifecycle, matching, and collective logic is exercised
// identically in both.
func newRuntime(rank, worldSize int, config Config, cs *channelSet, log rtlog.Logger) (*Runtime, error) {
	m, registry := metrics.New(rank)

	r := &Runtime{
		rank:      rank,
		worldSize: worldSize,
		config:    config,
		log:       log,
		metrics:   m,
		registry:  registry,
		channels:  cs,
		inboxes:   make([]*inbox, worldSize),
	}

	for peer := 0; peer < worldSize; peer++ {
		if peer == rank {
			continue
		}
		box := newInbox()
		r.inboxes[peer] = box
		pipe := cs.p2pRecv[peer]
		r.readers.Add(1)
		go r.readerLoop(peer, pipe, box)
	}

	return r, nil
}

// Rank returns this process's identity within the group.
func (r *Runtime) Rank() int { return r.rank }

// WorldSize returns the fixed number of processes in the group.
func (r *Runtime) WorldSize() int { return r.worldSize }

// Registry returns this process's Prometheus registry, so a host
// program embedding the runtime can scrape or export it (e.g. behind
// its own /metrics handler) without MIMPI itself opening any network
// listener.
func (r *Runtime) Registry() *prometheus.Registry { return r.registry }

// Finalize stops every reader goroutine, closes every channel
// endpoint this process holds, and releases runtime resources. Safe
// to call more than once; only the first call has effect.
func (r *Runtime) Finalize() error {
	r.finalizeOnce.Do(func() {
		for peer, box := range r.inboxes {
			if box == nil {
				continue
			}
			box.mutex.Lock()
			finished := box.finished
			box.mutex.Unlock()
			if !finished {
				_ = r.channels.p2pRecv[peer].Close()
			}
		}
		r.readers.Wait()

		for _, f := range r.channels.allFiles() {
			_ = f.Close()
		}
	})
	return nil
}

func envInt(name string) (int, error) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, fmt.Errorf("%s not set", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer: %w", name, raw, err)
	}
	return v, nil
}

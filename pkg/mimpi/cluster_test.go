package mimpi

import (
	"fmt"
	"testing"

	"github.com/gomimpi/mimpi/internal/rtlog"
	"github.com/gomimpi/mimpi/internal/wiring"
)

// newCluster wires n Runtimes together with real os.Pipe pairs,
// skipping mimpirun and process spawning entirely: every "rank" is a
// Runtime value living in this same test process, so the collective
// and point-to-point logic runs unmodified against real pipes without
// the cost or flakiness of forking a child per rank.
func newCluster(t *testing.T, n int) []*Runtime {
	t.Helper()

	topo, err := wiring.BuildTopology(n)
	if err != nil {
		t.Fatalf("building topology: %v", err)
	}

	runtimes := make([]*Runtime, n)
	for rank := 0; rank < n; rank++ {
		files := wiring.FilesForRank(rank, n, topo)
		cs, err := assignChannels(rank, n, files)
		if err != nil {
			t.Fatalf("assigning channels for rank %d: %v", rank, err)
		}
		log := rtlog.NewStdLogger(fmt.Sprintf("mimpi-test[%d]", rank))
		rt, err := newRuntime(rank, n, Config{}, cs, log)
		if err != nil {
			t.Fatalf("starting rank %d: %v", rank, err)
		}
		runtimes[rank] = rt
	}

	t.Cleanup(func() {
		for _, rt := range runtimes {
			_ = rt.Finalize()
		}
	})

	return runtimes
}

func finalizeAll(t *testing.T, runtimes []*Runtime) {
	t.Helper()
	for _, rt := range runtimes {
		if err := rt.Finalize(); err != nil {
			t.Errorf("rank %d finalize: %v", rt.Rank(), err)
		}
	}
}

package mimpi

import (
	"fmt"
	"os"

	"github.com/gomimpi/mimpi/internal/wiring"
)

// inheritedFiles reconstructs this process's channel endpoints from
// the file descriptors mimpirun placed via exec.Cmd.ExtraFiles. Every
// ExtraFiles entry at index i lands at fd 3+i in the child (fds 0-2
// are stdin/stdout/stderr); wiring.Endpoints(rank, worldSize) names
// those slots in the same order the launcher used to build the
// ExtraFiles list, so no further coordination is needed.
func inheritedFiles(worldSize, rank int) ([]*os.File, error) {
	if rank < 0 || rank >= worldSize {
		return nil, fmt.Errorf("mimpi: rank %d out of range for world size %d", rank, worldSize)
	}

	endpoints := wiring.Endpoints(rank, worldSize)
	files := make([]*os.File, len(endpoints))
	for i, ep := range endpoints {
		fd := uintptr(3 + i)
		files[i] = os.NewFile(fd, ep.String())
	}
	return files, nil
}

// Command mimpirun launches a fixed-size group of cooperating
// processes wired together over local pipes: N copies of the given
// program, each receiving its channel endpoints as inherited file
// descriptors and its identity (MIMPI_SIZE, MIMPI_RANK) as environment
// variables. It waits for every child and exits non-zero if any of
// them did.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/gomimpi/mimpi/internal/rtlog"
	"github.com/gomimpi/mimpi/internal/wiring"
	"github.com/gomimpi/mimpi/pkg/mimpi"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "mimpirun:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	n, program, programArgs, err := parseArgs(args)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log := rtlog.NewLogrusLogger(logrus.Fields{"run_id": runID, "n": n, "program": program})
	log.Infof("building topology")

	topo, err := wiring.BuildTopology(n)
	if err != nil {
		return fmt.Errorf("building topology: %w", err)
	}

	cmds := make([]*exec.Cmd, n)
	for rank := 0; rank < n; rank++ {
		cmd := exec.Command(program, programArgs...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Env = append(os.Environ(),
			mimpi.EnvWorldSize+"="+strconv.Itoa(n),
			mimpi.EnvRank+"="+strconv.Itoa(rank),
		)
		cmd.ExtraFiles = wiring.FilesForRank(rank, n, topo)
		cmds[rank] = cmd
	}

	for rank, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("starting rank %d: %w", rank, err)
		}
		log.Infof("started rank %d, pid %d", rank, cmd.Process.Pid)
	}

	// The launcher's own copies of every pipe fd must close once every
	// child has inherited the ones it needs; otherwise a worker closing
	// its own end of a pipe it owns would never see EOF, since the
	// launcher would still hold a duplicate write end open.
	for _, f := range topo.AllFiles() {
		_ = f.Close()
	}

	var result error
	for rank, cmd := range cmds {
		if err := cmd.Wait(); err != nil {
			log.Errorf("rank %d exited: %v", rank, err)
			result = multierror.Append(result, fmt.Errorf("rank %d: %w", rank, err))
			continue
		}
		log.Infof("rank %d finished", rank)
	}

	return result
}

func parseArgs(args []string) (n int, program string, programArgs []string, err error) {
	if len(args) < 2 {
		return 0, "", nil, fmt.Errorf("usage: mimpirun N program [args...]")
	}
	n, err = strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, "", nil, fmt.Errorf("invalid process count %q", args[0])
	}
	return n, args[1], args[2:], nil
}

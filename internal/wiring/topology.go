package wiring

import "os"

// Topology holds every physical os.Pipe pair mimpirun creates for a
// run of n ranks, indexed so FilesForRank can hand each rank its slice
// of ExtraFiles in exactly the order Endpoints(rank, n) expects.
type Topology struct {
	n int

	// p2pRead[a][b] / p2pWrite[a][b] are the two ends of the pipe
	// carrying frames from rank a to rank b: p2pRead[a][b] is b's read
	// end, p2pWrite[a][b] is a's write end. Diagonal entries are nil.
	p2pRead  [][]*os.File
	p2pWrite [][]*os.File

	// treeUp[child] is the up-pipe from heap index child+1 to its
	// parent: treeUpWrite[child] is the child's write end,
	// treeUpRead[child] is the parent's read end.
	treeUpWrite []*os.File
	treeUpRead  []*os.File

	// treeDown[child] is the down-pipe from the parent of heap index
	// child+1 down to child: treeDownWrite[child] is the parent's
	// write end, treeDownRead[child] is the child's read end.
	treeDownWrite []*os.File
	treeDownRead  []*os.File

	// relayUp[r] / relayDown[r] are the relay pipes between rank 0 and
	// rank r, for r in [1,n). Index 0 is always nil.
	relayUpWrite   []*os.File
	relayUpRead    []*os.File
	relayDownWrite []*os.File
	relayDownRead  []*os.File
}

// BuildTopology creates every pipe a run of n ranks will need: one
// pipe per ordered pair of distinct ranks for point-to-point traffic,
// one up- and one down-pipe per tree edge, and one relay-up/relay-down
// pipe pair between rank 0 and every other rank.
func BuildTopology(n int) (*Topology, error) {
	t := &Topology{
		n:        n,
		p2pRead:  make([][]*os.File, n),
		p2pWrite: make([][]*os.File, n),
	}
	for a := 0; a < n; a++ {
		t.p2pRead[a] = make([]*os.File, n)
		t.p2pWrite[a] = make([]*os.File, n)
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			if a == b {
				continue
			}
			read, write, err := os.Pipe()
			if err != nil {
				return nil, err
			}
			t.p2pRead[a][b] = read
			t.p2pWrite[a][b] = write
		}
	}

	t.treeUpWrite = make([]*os.File, n)
	t.treeUpRead = make([]*os.File, n)
	t.treeDownWrite = make([]*os.File, n)
	t.treeDownRead = make([]*os.File, n)
	for child := 0; child < n; child++ {
		if Parent(child) < 0 {
			continue
		}
		upRead, upWrite, err := os.Pipe()
		if err != nil {
			return nil, err
		}
		t.treeUpWrite[child] = upWrite
		t.treeUpRead[child] = upRead

		downRead, downWrite, err := os.Pipe()
		if err != nil {
			return nil, err
		}
		t.treeDownWrite[child] = downWrite
		t.treeDownRead[child] = downRead
	}

	t.relayUpWrite = make([]*os.File, n)
	t.relayUpRead = make([]*os.File, n)
	t.relayDownWrite = make([]*os.File, n)
	t.relayDownRead = make([]*os.File, n)
	for r := 1; r < n; r++ {
		upRead, upWrite, err := os.Pipe()
		if err != nil {
			return nil, err
		}
		t.relayUpWrite[r] = upWrite
		t.relayUpRead[r] = upRead

		downRead, downWrite, err := os.Pipe()
		if err != nil {
			return nil, err
		}
		t.relayDownWrite[r] = downWrite
		t.relayDownRead[r] = downRead
	}

	return t, nil
}

// FilesForRank reproduces Endpoints(rank, n)'s order with the real
// files t holds, so the result can be assigned directly to
// exec.Cmd.ExtraFiles: position i here lands at fd 3+i in the child.
func FilesForRank(rank, n int, t *Topology) []*os.File {
	var files []*os.File

	for p := 0; p < n; p++ {
		if p != rank {
			files = append(files, t.p2pRead[p][rank])
		}
	}
	for p := 0; p < n; p++ {
		if p != rank {
			files = append(files, t.p2pWrite[rank][p])
		}
	}

	left := Left(rank, n)
	right := Right(rank, n)
	if left >= 0 {
		files = append(files, t.treeUpRead[left])
	}
	if right >= 0 {
		files = append(files, t.treeUpRead[right])
	}
	if Parent(rank) >= 0 {
		files = append(files, t.treeUpWrite[rank])
		files = append(files, t.treeDownRead[rank])
	}
	if left >= 0 {
		files = append(files, t.treeDownWrite[left])
	}
	if right >= 0 {
		files = append(files, t.treeDownWrite[right])
	}

	if rank == 0 {
		for r := 1; r < n; r++ {
			files = append(files, t.relayUpRead[r])
		}
		for r := 1; r < n; r++ {
			files = append(files, t.relayDownWrite[r])
		}
	} else {
		files = append(files, t.relayUpWrite[rank])
		files = append(files, t.relayDownRead[rank])
	}

	return files
}

// AllFiles returns every file descriptor t holds, so the launcher can
// close its own copies once every child has inherited the ones it
// needs.
func (t *Topology) AllFiles() []*os.File {
	var out []*os.File
	for a := 0; a < t.n; a++ {
		for b := 0; b < t.n; b++ {
			if t.p2pRead[a][b] != nil {
				out = append(out, t.p2pRead[a][b])
			}
			if t.p2pWrite[a][b] != nil {
				out = append(out, t.p2pWrite[a][b])
			}
		}
	}
	for _, list := range [][]*os.File{t.treeUpWrite, t.treeUpRead, t.treeDownWrite, t.treeDownRead, t.relayUpWrite, t.relayUpRead, t.relayDownWrite, t.relayDownRead} {
		for _, f := range list {
			if f != nil {
				out = append(out, f)
			}
		}
	}
	return out
}

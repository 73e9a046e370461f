package mimpi

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestBarrierReleasesAllRanks(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 4
	runtimes := newCluster(t, n)

	done := make(chan int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for rank := 0; rank < n; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			if rank != 0 {
				time.Sleep(time.Duration(rank) * 5 * time.Millisecond)
			}
			if err := runtimes[rank].Barrier(); err != nil {
				t.Errorf("rank %d Barrier: %v", rank, err)
				return
			}
			done <- rank
		}()
	}

	waitOrTimeout(t, &wg, 5*time.Second)
	close(done)

	seen := map[int]bool{}
	for rank := range done {
		seen[rank] = true
	}
	if len(seen) != n {
		t.Fatalf("only %d/%d ranks returned from Barrier", len(seen), n)
	}

	finalizeAll(t, runtimes)
}

func TestBcastFromNonZeroRoot(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n, root = 4, 2
	runtimes := newCluster(t, n)
	payload := []byte("hello")

	results := make([][]byte, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for rank := 0; rank < n; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			buf := make([]byte, len(payload))
			if rank == root {
				copy(buf, payload)
			}
			results[rank], errs[rank] = runtimes[rank].Bcast(buf, root)
		}()
	}
	waitOrTimeout(t, &wg, 5*time.Second)

	for rank := 0; rank < n; rank++ {
		if errs[rank] != nil {
			t.Fatalf("rank %d Bcast: %v", rank, errs[rank])
		}
		if !bytes.Equal(results[rank], payload) {
			t.Fatalf("rank %d got %q, want %q", rank, results[rank], payload)
		}
	}

	finalizeAll(t, runtimes)
}

func TestReduceSum(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n, root = 3, 0
	runtimes := newCluster(t, n)
	values := [][]byte{{10, 20}, {1, 2}, {100, 200}}

	results := make([][]byte, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for rank := 0; rank < n; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			results[rank], errs[rank] = runtimes[rank].Reduce(values[rank], Sum, root)
		}()
	}
	waitOrTimeout(t, &wg, 5*time.Second)

	for rank := 0; rank < n; rank++ {
		if errs[rank] != nil {
			t.Fatalf("rank %d Reduce: %v", rank, errs[rank])
		}
	}
	want := []byte{byte(10 + 1 + 100), byte(20 + 2 + 200)}
	if !bytes.Equal(results[root], want) {
		t.Fatalf("root got %v, want %v", results[root], want)
	}

	finalizeAll(t, runtimes)
}

func TestReduceProdAtNonZeroRoot(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n, root = 3, 1
	runtimes := newCluster(t, n)
	values := [][]byte{{2}, {3}, {5}}

	results := make([][]byte, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for rank := 0; rank < n; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			results[rank], errs[rank] = runtimes[rank].Reduce(values[rank], Prod, root)
		}()
	}
	waitOrTimeout(t, &wg, 5*time.Second)

	for rank := 0; rank < n; rank++ {
		if errs[rank] != nil {
			t.Fatalf("rank %d Reduce: %v", rank, errs[rank])
		}
	}
	want := []byte{byte(2 * 3 * 5)}
	if !bytes.Equal(results[root], want) {
		t.Fatalf("root got %v, want %v", results[root], want)
	}

	finalizeAll(t, runtimes)
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("timed out after %s", timeout)
	}
}

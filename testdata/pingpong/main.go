// Command pingpong is a fixture worker for mimpirun's end-to-end
// tests: rank 0 sends a fixed 3-byte payload with tag 7 to rank 1,
// rank 1 receives and checks it, then every rank calls Barrier; each
// rank exits 0 only if its part succeeded.
package main

import (
	"fmt"
	"os"

	"github.com/gomimpi/mimpi/pkg/mimpi"
)

func main() {
	rt, err := mimpi.Init(mimpi.Config{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}
	defer rt.Finalize()

	switch rt.Rank() {
	case 0:
		if err := rt.Send([]byte{42, 17, 3}, 1, 7); err != nil {
			fmt.Fprintln(os.Stderr, "send:", err)
			os.Exit(1)
		}
	case 1:
		got, err := rt.Recv(3, 0, 7)
		if err != nil {
			fmt.Fprintln(os.Stderr, "recv:", err)
			os.Exit(1)
		}
		want := []byte{42, 17, 3}
		for i := range want {
			if got[i] != want[i] {
				fmt.Fprintf(os.Stderr, "got %v, want %v\n", got, want)
				os.Exit(1)
			}
		}
	}

	if err := rt.Barrier(); err != nil {
		fmt.Fprintln(os.Stderr, "barrier:", err)
		os.Exit(1)
	}
}

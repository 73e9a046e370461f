package main

import (
	"os/exec"
	"testing"
)

// TestPingPongEndToEnd builds the pingpong fixture and drives it
// through a real mimpirun subprocess tree, exercising the launcher's
// topology construction and descriptor inheritance rather than the
// in-process harness pkg/mimpi's own tests use.
func TestPingPongEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping subprocess end-to-end test in -short mode")
	}

	fixture := t.TempDir() + "/pingpong"
	build := exec.Command("go", "build", "-o", fixture, "../../testdata/pingpong")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("building fixture: %v\n%s", err, out)
	}

	launcher := t.TempDir() + "/mimpirun"
	buildLauncher := exec.Command("go", "build", "-o", launcher, ".")
	if out, err := buildLauncher.CombinedOutput(); err != nil {
		t.Fatalf("building mimpirun: %v\n%s", err, out)
	}

	cmd := exec.Command(launcher, "2", fixture)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("mimpirun 2 pingpong: %v\n%s", err, out)
	}
}

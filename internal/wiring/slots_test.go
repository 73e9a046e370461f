package wiring

import "testing"

func TestP2PSlots(t *testing.T) {
	if got := P2PReadSlot(0, 1); got != 60 {
		t.Errorf("P2PReadSlot(0,1) = %d, want 60", got)
	}
	if got := P2PWriteSlot(0, 1); got != 41 {
		t.Errorf("P2PWriteSlot(0,1) = %d, want 41", got)
	}
	if got := P2PReadSlot(2, 0); got != 22 {
		t.Errorf("P2PReadSlot(2,0) = %d, want 22", got)
	}
	if got := P2PWriteSlot(2, 0); got != 120 {
		t.Errorf("P2PWriteSlot(2,0) = %d, want 120", got)
	}
}

func TestTreeUpSlots(t *testing.T) {
	read, write := TreeUpSlots(1, 2)
	if read != 704 || write != 712 {
		t.Errorf("TreeUpSlots(1,2) = (%d,%d), want (704,712)", read, write)
	}

	read, write = TreeUpSlots(1, 3)
	if read != 705 || write != 718 {
		t.Errorf("TreeUpSlots(1,3) = (%d,%d), want (705,718)", read, write)
	}
}

func TestTreeDownSlots(t *testing.T) {
	write, read := TreeDownSlots(1, 2)
	if write != 707 || read != 709 {
		t.Errorf("TreeDownSlots(1,2) = (%d,%d), want (707,709)", write, read)
	}

	write, read = TreeDownSlots(1, 3)
	if write != 708 || read != 715 {
		t.Errorf("TreeDownSlots(1,3) = (%d,%d), want (708,715)", write, read)
	}
}

func TestRelaySlots(t *testing.T) {
	write, read := RelayUpSlots(1)
	if write != 910 || read != 909 {
		t.Errorf("RelayUpSlots(1) = (%d,%d), want (910,909)", write, read)
	}

	write, read = RelayDownSlots(1)
	if write != 908 || read != 911 {
		t.Errorf("RelayDownSlots(1) = (%d,%d), want (908,911)", write, read)
	}
}

// TestTreeSlotsDoNotCollide checks, for both the left and right child
// of several heap positions, that the up-pipe and the down-pipe of a
// parent/child edge each have distinct read and write slots, and that
// the up-pipe's slots never coincide with the down-pipe's — a collision
// here would mean two endpoints of the edge share one slot number.
func TestTreeSlotsDoNotCollide(t *testing.T) {
	for parent := 1; parent <= 4; parent++ {
		for _, child := range []int{2 * parent, 2*parent + 1} {
			upRead, upWrite := TreeUpSlots(parent, child)
			downWrite, downRead := TreeDownSlots(parent, child)
			if upRead == upWrite {
				t.Errorf("TreeUpSlots(%d,%d): read and write slot collide at %d", parent, child, upRead)
			}
			if downRead == downWrite {
				t.Errorf("TreeDownSlots(%d,%d): read and write slot collide at %d", parent, child, downRead)
			}
			if upRead == downRead || upWrite == downWrite {
				t.Errorf("TreeUpSlots/TreeDownSlots(%d,%d) overlap: up=(%d,%d) down=(%d,%d)", parent, child, upRead, upWrite, downWrite, downRead)
			}
		}
	}
}

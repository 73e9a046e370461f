package mimpi

import "github.com/gomimpi/mimpi/internal/wiring"

// hasLeft, hasRight and hasParent report whether this rank holds the
// corresponding edge of the fixed binary-heap collective tree.
func (r *Runtime) hasLeft() bool   { return wiring.Left(r.rank, r.worldSize) >= 0 }
func (r *Runtime) hasRight() bool  { return wiring.Right(r.rank, r.worldSize) >= 0 }
func (r *Runtime) hasParent() bool { return wiring.Parent(r.rank) >= 0 }

package mimpi

import "errors"

// AnyTag matches any tag on a Recv call.
const AnyTag int32 = -1

var (
	// ErrAttemptedSelfOp is returned when a point-to-point call names
	// the caller's own rank as source or destination.
	ErrAttemptedSelfOp = errors.New("mimpi: attempted operation on self")

	// ErrNoSuchRank is returned when a source, destination, or root
	// argument falls outside [0, world size).
	ErrNoSuchRank = errors.New("mimpi: no such rank")

	// ErrRemoteFinished is returned when the operation cannot complete
	// because a required peer has terminated.
	ErrRemoteFinished = errors.New("mimpi: remote process finished")

	// ErrDeadlockDetected is reserved: the deadlock-detection
	// configuration bit is carried by Config but never acted on by
	// this runtime.
	ErrDeadlockDetected = errors.New("mimpi: deadlock detected")
)

package backend

import "errors"

var (
	// ErrOutOfMemory means every allocatable cell is owned by an open block.
	ErrOutOfMemory = errors.New("out of memory: no free cell")

	// ErrDoubleRelease means a cell was released that is not allocated.
	ErrDoubleRelease = errors.New("release of a cell that is not allocated")

	// ErrMismatchedBlockClose means a Loop was closed as an If, an If as a
	// Loop, or an attempt was made to close the top-level block.
	ErrMismatchedBlockClose = errors.New("mismatched block close")

	// ErrControlInUse means a cell was released while it still gates an
	// open block.
	ErrControlInUse = errors.New("control cell of an open block")

	// ErrAliasedOperands means an algorithm that needs distinct cells was
	// handed the same cell twice.
	ErrAliasedOperands = errors.New("aliased operands")

	// ErrBadCell means a cell index outside the managed range was used.
	ErrBadCell = errors.New("cell index out of range")
)

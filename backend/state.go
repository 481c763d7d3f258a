package backend

import "fmt"

// ---------------------------------------------------------------------------
// Abstract tape state: a per-cell Known/Unknown lattice
// ---------------------------------------------------------------------------

// CellState is the abstract value of one tape cell at a program point.
// The zero value is Unknown.
type CellState struct {
	known bool
	value byte
}

// Unknown is the state of a cell whose runtime value cannot be proven.
var Unknown = CellState{}

// Known returns the state of a cell that provably holds v.
func Known(v byte) CellState {
	return CellState{known: true, value: v}
}

// Value returns the known value and true, or 0 and false for Unknown.
func (s CellState) Value() (byte, bool) {
	return s.value, s.known
}

// IsZero reports whether the cell is provably zero.
func (s CellState) IsZero() bool {
	return s.known && s.value == 0
}

// Add shifts a known value by delta, wrapping mod 256.
func (s CellState) Add(delta byte) CellState {
	if !s.known {
		return Unknown
	}
	return Known(s.value + delta)
}

// Join is the meet of two facts reaching the same program point.
// Known(a) join Known(b) is Known(a) when a == b; anything else is Unknown.
func (s CellState) Join(o CellState) CellState {
	if s.known && o.known && s.value == o.value {
		return s
	}
	return Unknown
}

func (s CellState) String() string {
	if !s.known {
		return "?"
	}
	return fmt.Sprintf("%d", s.value)
}

// combine applies f to two known states, yielding Unknown otherwise.
func combine(a, b CellState, f func(x, y byte) byte) CellState {
	x, okA := a.Value()
	y, okB := b.Value()
	if !okA || !okB {
		return Unknown
	}
	return Known(f(x, y))
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// TapeState is a snapshot of every managed cell. It is a value type:
// assigning it copies the snapshot.
type TapeState [MemorySize]CellState

func allKnownZero() TapeState {
	var s TapeState
	for i := range s {
		s[i] = Known(0)
	}
	return s
}

func allUnknown() TapeState {
	return TapeState{}
}

// Join merges another snapshot into s cell by cell.
func (s *TapeState) Join(o *TapeState) {
	for i := range s {
		s[i] = s[i].Join(o[i])
	}
}

package vm

// ---------------------------------------------------------------------------
// Tape: 65536 byte cells under a wrapping 16-bit cursor
// ---------------------------------------------------------------------------

const (
	// TapeSize is the number of cells on the tape.
	TapeSize = 1 << 16

	// Origin is where the cursor starts. Compiled programs address cells
	// relative to it.
	Origin uint16 = 0x8000
)

// Tape is the machine's memory. Cell and cursor arithmetic wrap.
type Tape struct {
	cells [TapeSize]byte
	head  uint16
	left  int // lowest offset from Origin the cursor has visited
	right int // highest offset from Origin the cursor has visited
}

// NewTape returns a zeroed tape with the cursor at Origin.
func NewTape() *Tape {
	return &Tape{head: Origin}
}

// Read returns the cell under the cursor.
func (t *Tape) Read() byte {
	return t.cells[t.head]
}

// Write stores v in the cell under the cursor.
func (t *Tape) Write(v byte) {
	t.cells[t.head] = v
}

// Add adds delta to the cell under the cursor.
func (t *Tape) Add(delta byte) {
	t.cells[t.head] += delta
}

// Move shifts the cursor by delta cells.
func (t *Tape) Move(delta int) {
	t.head += uint16(delta)
	off := t.Position()
	if off < t.left {
		t.left = off
	}
	if off > t.right {
		t.right = off
	}
}

// Position returns the cursor's signed offset from Origin.
func (t *Tape) Position() int {
	return int(int16(t.head - Origin))
}

// At returns the cell at a signed offset from Origin.
func (t *Tape) At(offset int) byte {
	return t.cells[Origin+uint16(offset)]
}

// Set stores v at a signed offset from Origin.
func (t *Tape) Set(offset int, v byte) {
	t.cells[Origin+uint16(offset)] = v
}

// Frontier returns the lowest and highest offsets from Origin the cursor
// has visited.
func (t *Tape) Frontier() (lo, hi int) {
	return t.left, t.right
}

// Window returns a copy of the cells from offset lo up to, not including, hi.
func (t *Tape) Window(lo, hi int) []byte {
	if hi < lo {
		return nil
	}
	out := make([]byte, 0, hi-lo)
	for off := lo; off < hi; off++ {
		out = append(out, t.At(off))
	}
	return out
}

package backend

import "fmt"

// ---------------------------------------------------------------------------
// Cell allocation
// ---------------------------------------------------------------------------

// Allocate claims the lowest free cell for the innermost block, sets it to
// value and returns its index. A non-empty name is recorded in a comment
// so the cell can be identified in the generated program.
func (b *Builder) Allocate(value byte, name string) int {
	if b.err != nil {
		return -1
	}
	cell := -1
	for i := 0; i < AllocLimit; i++ {
		if b.owner[i] == nil {
			cell = i
			break
		}
	}
	if cell < 0 {
		b.fail(fmt.Errorf("%w: all %d cells in use", ErrOutOfMemory, AllocLimit))
		return -1
	}
	if name != "" {
		b.Comment(fmt.Sprintf("[%d]: %s", cell, name))
		b.named[cell] = true
	}
	b.owner[cell] = b.current()
	b.Zero(cell)
	b.Increment(cell, int(value))
	return cell
}

// AllocateAndCopy claims a new cell holding a copy of src.
func (b *Builder) AllocateAndCopy(src int, name string) int {
	if !b.ok(src) {
		return -1
	}
	cell := b.Allocate(0, name)
	b.Copy(cell, src)
	return cell
}

// Release returns cells to the free pool. Releasing a cell that is not
// allocated fails with ErrDoubleRelease; releasing the control cell of an
// open block fails with ErrControlInUse.
func (b *Builder) Release(cells ...int) {
	for _, c := range cells {
		if !b.ok(c) {
			return
		}
		if b.owner[c] == nil {
			b.fail(fmt.Errorf("%w: cell %d", ErrDoubleRelease, c))
			return
		}
		if b.isControl(c) {
			b.fail(fmt.Errorf("%w: cell %d", ErrControlInUse, c))
			return
		}
		b.free(c)
	}
}

func (b *Builder) free(cell int) {
	if b.named[cell] {
		b.Comment(fmt.Sprintf("[%d]: ", cell))
		b.named[cell] = false
	}
	b.owner[cell] = nil
}

// IsAllocated reports whether cell is owned by an open block.
func (b *Builder) IsAllocated(cell int) bool {
	return cell >= 0 && cell < MemorySize && b.owner[cell] != nil
}

// Allocated returns the allocated cells in ascending order.
func (b *Builder) Allocated() []int {
	var cells []int
	for c := range b.owner {
		if b.owner[c] != nil {
			cells = append(cells, c)
		}
	}
	return cells
}

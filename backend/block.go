package backend

import "fmt"

// ---------------------------------------------------------------------------
// Blocks: lexical scopes that own cells and carry abstract state
// ---------------------------------------------------------------------------

// BlockKind distinguishes the three kinds of lexical block.
type BlockKind int

const (
	BlockTop BlockKind = iota
	BlockLoop
	BlockIf
)

func (k BlockKind) String() string {
	switch k {
	case BlockTop:
		return "top"
	case BlockLoop:
		return "loop"
	case BlockIf:
		return "if"
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// block is one entry of the block stack. The parent's state is left
// untouched while a child is open; the child works on its own copy and
// the two are merged when the child closes.
type block struct {
	kind    BlockKind
	control int       // -1 for the top-level block
	entry   TapeState // parent state when the block opened
	state   TapeState // working state inside the block
}

func (b *Builder) push(kind BlockKind, control int) *block {
	parent := b.current()
	blk := &block{kind: kind, control: control, entry: parent.state}
	switch kind {
	case BlockIf:
		// The body runs at most once, starting from the parent's facts.
		blk.state = parent.state
	case BlockLoop:
		// The body may be on any iteration, so nothing is known.
		blk.state = allUnknown()
	}
	b.blocks = append(b.blocks, blk)
	return blk
}

// pop removes the innermost block after checking its kind.
func (b *Builder) pop(kind BlockKind) (*block, bool) {
	blk := b.current()
	if blk.kind != kind {
		b.fail(fmt.Errorf("%w: tried to end %s, but innermost block is %s", ErrMismatchedBlockClose, kind, blk.kind))
		return nil, false
	}
	b.blocks = b.blocks[:len(b.blocks)-1]
	return blk, true
}

// releaseOwned frees every cell still owned by a closed block.
func (b *Builder) releaseOwned(blk *block) {
	for c := range b.owner {
		if b.owner[c] == blk {
			b.free(c)
		}
	}
}

func (b *Builder) isControl(cell int) bool {
	for _, blk := range b.blocks {
		if blk.kind != BlockTop && blk.control == cell {
			return true
		}
	}
	return false
}

// Loop opens a block whose body repeats while control is non-zero. The
// body must eventually drive control to zero.
func (b *Builder) Loop(control int) {
	if !b.ok(control) {
		return
	}
	b.push(BlockLoop, control)
	b.moveTo(control)
	b.emit("[")
}

// EndLoop closes the innermost block, which must be a Loop. Every cell
// becomes Unknown except the control cell, which is zero on exit.
func (b *Builder) EndLoop() {
	if b.err != nil {
		return
	}
	blk := b.current()
	if blk.kind != BlockLoop {
		b.pop(BlockLoop)
		return
	}
	b.moveTo(blk.control)
	b.emit("]")
	b.pop(BlockLoop)

	*b.state() = allUnknown()
	b.releaseOwned(blk)
	b.state()[blk.control] = Known(0)
}

// IfAndZero opens a block whose body runs once when control is non-zero.
// control is zero after EndIf.
func (b *Builder) IfAndZero(control int) {
	if !b.ok(control) {
		return
	}
	b.push(BlockIf, control)
	b.moveTo(control)
	b.emit("[")
}

// IfRelease is IfAndZero for a temporary control cell: the cell moves into
// the If block and is released by EndIf.
func (b *Builder) IfRelease(control int) {
	if !b.ok(control) {
		return
	}
	if b.owner[control] == nil {
		b.fail(fmt.Errorf("%w: cell %d", ErrDoubleRelease, control))
		return
	}
	if b.isControl(control) {
		b.fail(fmt.Errorf("%w: cell %d", ErrControlInUse, control))
		return
	}
	b.IfAndZero(control)
	b.owner[control] = b.current()
}

// IfNotAndZero opens a block whose body runs once when control is zero.
// control is zeroed while computing the condition.
func (b *Builder) IfNotAndZero(control int) {
	if !b.ok(control) {
		return
	}
	not := b.Allocate(0, "not")
	b.Not(not, control)
	b.IfRelease(not)
}

// IfNotRelease is IfNotAndZero for a temporary control cell, which is
// released before the body starts.
func (b *Builder) IfNotRelease(control int) {
	if !b.ok(control) {
		return
	}
	not := b.Allocate(0, "not")
	b.Not(not, control)
	b.Release(control)
	b.IfRelease(not)
}

// EndIf closes the innermost block, which must be an If. The control cell
// is zeroed before the closing bracket so the body cannot repeat. Facts
// that differ between "body ran" and "body skipped" become Unknown.
func (b *Builder) EndIf() {
	if b.err != nil {
		return
	}
	blk := b.current()
	if blk.kind != BlockIf {
		b.pop(BlockIf)
		return
	}
	b.Zero(blk.control)
	b.moveTo(blk.control)
	b.emit("]")
	if _, ok := b.pop(BlockIf); !ok {
		return
	}

	merged := blk.entry
	merged.Join(&blk.state)
	*b.state() = merged
	b.releaseOwned(blk)
	b.state()[blk.control] = Known(0)
}

// Close ends the innermost Loop or If block, whichever it is.
func (b *Builder) Close() {
	if b.err != nil {
		return
	}
	switch b.current().kind {
	case BlockLoop:
		b.EndLoop()
	case BlockIf:
		b.EndIf()
	default:
		b.fail(fmt.Errorf("%w: cannot close the top-level block", ErrMismatchedBlockClose))
	}
}

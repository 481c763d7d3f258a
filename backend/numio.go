package backend

// ---------------------------------------------------------------------------
// Text and decimal I/O
// ---------------------------------------------------------------------------

// The digit buffer reverses the digits of a number, which DivMod by ten
// produces least significant first. It occupies the cells from AllocLimit
// to the end of managed memory:
//
//	digitSentinel  always zero, left end of the buffer
//	digitTop..     up to digitCapacity digits, newest at digitTop
//	digitEnd       always zero, stops rightward scans over a full buffer
//
// Digits are stored as ASCII, so every occupied slot is non-zero and scan
// loops can find the end of the buffer. Every pattern below finishes with
// the cursor on digitSentinel.
const (
	digitCapacity = 3 // 255 has three decimal digits
	digitRegion   = digitCapacity + 2

	digitSentinel = MemorySize - digitRegion
	digitTop      = digitSentinel + 1
	digitEnd      = digitSentinel + digitCapacity + 1
)

// markDigits records what is known about the buffer after a scan pattern:
// the sentinel is zero, the slots are unknown.
func (b *Builder) markDigits(top CellState) {
	st := b.state()
	st[digitSentinel] = Known(0)
	for c := digitTop; c <= digitEnd; c++ {
		st[c] = Unknown
	}
	st[digitTop] = top
}

// pushDigit shifts the buffer one slot right and moves x into digitTop.
// x must hold a non-zero value and is left at zero.
func (b *Builder) pushDigit(x int) {
	if !b.ok(x) {
		return
	}
	b.Comment("push digit")
	b.moveTo(digitTop)
	b.emit("[>]<[[->+<]<]")
	b.head = digitSentinel
	b.markDigits(Known(0))
	b.AddAndZero(digitTop, x)
}

// popDigitAdd adds the newest digit to acc and shifts the rest left.
func (b *Builder) popDigitAdd(acc int) {
	if !b.ok(acc) {
		return
	}
	b.Comment("pop digit")
	b.AddAndZero(acc, digitTop)
	b.moveTo(digitTop + 1)
	b.emit("[[-<+>]>]<<[<]")
	b.head = digitSentinel
	b.markDigits(Unknown)
}

// flushDigits prints the buffer newest first and clears it.
func (b *Builder) flushDigits() {
	if b.err != nil {
		return
	}
	b.Comment("print digits")
	b.moveTo(digitTop)
	b.emit("[.>]<[[-]<]")
	b.head = digitSentinel
	st := b.state()
	for c := digitSentinel; c <= digitEnd; c++ {
		st[c] = Known(0)
	}
}

// WriteNumber prints n in decimal; n = 0. Zero prints "0".
func (b *Builder) WriteNumber(n int) {
	if !b.ok(n) {
		return
	}
	ten := b.Allocate(10, "ten")
	q := b.Allocate(0, "quotient")
	more := b.Allocate(1, "more")
	b.Loop(more)
	digit := b.Allocate(0, "digit")
	b.DivMod(q, digit, n, ten)
	b.Increment(digit, '0')
	b.pushDigit(digit)
	b.Release(digit)
	b.AddAndZero(n, q)
	b.Copy(more, n)
	b.EndLoop()
	b.Release(more, q, ten)
	b.flushDigits()
}

// ReadNumber reads decimal digits into target up to a newline or the end
// of input. Characters other than digits produce unspecified values.
func (b *Builder) ReadNumber(target int) {
	if !b.ok(target) {
		return
	}
	b.Zero(target)
	// digit holds the input minus '\n'. It is preset to '\n' before each
	// read so that end of input, which leaves the cell unchanged, also
	// terminates the loop.
	digit := b.Allocate('\n', "digit")
	ten := b.Allocate(10, "ten")
	b.Read(digit)
	b.Decrement(digit, '\n')
	b.Loop(digit)
	next := b.Allocate(0, "newn")
	b.Mul(next, ten, target)
	b.AddAndZero(target, next)
	b.Release(next)
	b.Decrement(digit, '0'-'\n')
	b.AddAndZero(target, digit)
	b.Set(digit, '\n')
	b.Read(digit)
	b.Decrement(digit, '\n')
	b.EndLoop()
	b.Release(ten, digit)
}

// WriteChar prints the constant c.
func (b *Builder) WriteChar(c byte) {
	if b.err != nil {
		return
	}
	ch := b.Allocate(0, "")
	b.Increment(ch, int(c))
	b.Write(ch)
	b.Release(ch)
}

// NewLine prints '\n'.
func (b *Builder) NewLine() {
	b.WriteChar('\n')
}

// WriteString prints s byte by byte from a single scratch cell, stepping
// the cell from one character to the next.
func (b *Builder) WriteString(s string) {
	if b.err != nil {
		return
	}
	b.Comment("writing " + s)
	ch := b.Allocate(0, "")
	last := 0
	for i := 0; i < len(s); i++ {
		c := int(s[i])
		b.Increment(ch, c-last)
		b.Write(ch)
		last = c
	}
	b.Release(ch)
}

// WriteDigit prints x, which must hold 0..9, as a decimal digit.
func (b *Builder) WriteDigit(x int) {
	if !b.ok(x) {
		return
	}
	b.Increment(x, '0')
	b.Write(x)
	b.Decrement(x, '0')
}

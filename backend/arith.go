package backend

// ---------------------------------------------------------------------------
// Arithmetic and logic algorithms
//
// Every algorithm is a straight sequence of primitives. The machine's only
// transfer mechanism is "decrement the source while incrementing the
// destination until the source is zero", so each algorithm documents which
// operands it leaves at zero. All arithmetic wraps mod 256.
// ---------------------------------------------------------------------------

// Zero sets x to 0. Nothing is emitted when x is already known to be 0.
//
// The clearing loop touches no cell but x, so unlike a general Loop it
// leaves every other fact intact.
func (b *Builder) Zero(x int) {
	if !b.ok(x) || b.state()[x].IsZero() {
		return
	}
	b.moveTo(x)
	b.emit("[-]")
	b.state()[x] = Known(0)
}

// Set stores the constant v in x.
func (b *Builder) Set(x int, v byte) {
	b.Zero(x)
	b.Increment(x, int(v))
}

// AddAndZero: acc += x; x = 0.
func (b *Builder) AddAndZero(acc, x int) {
	if !b.ok(acc, x) || !b.distinct(acc, x) {
		return
	}
	st1, st2 := b.state()[acc], b.state()[x]
	b.Loop(x)
	b.Decrement(x, 1)
	b.Increment(acc, 1)
	b.EndLoop()
	b.setState(acc, combine(st1, st2, func(p, q byte) byte { return p + q }))
}

// SubAndZero: acc -= x; x = 0.
func (b *Builder) SubAndZero(acc, x int) {
	if !b.ok(acc, x) || !b.distinct(acc, x) {
		return
	}
	st1, st2 := b.state()[acc], b.state()[x]
	b.Loop(x)
	b.Decrement(acc, 1)
	b.Decrement(x, 1)
	b.EndLoop()
	b.setState(acc, combine(st1, st2, func(p, q byte) byte { return p - q }))
}

// MoveTwice: t1 = t2 = src; src = 0.
func (b *Builder) MoveTwice(t1, t2, src int) {
	if !b.ok(t1, t2, src) || !b.distinct(t1, t2, src) {
		return
	}
	st := b.state()[src]
	b.Zero(t1)
	b.Zero(t2)
	b.Loop(src)
	b.Decrement(src, 1)
	b.Increment(t1, 1)
	b.Increment(t2, 1)
	b.EndLoop()
	b.setState(t1, st)
	b.setState(t2, st)
}

// Copy: dst = src. src is restored through a temporary.
func (b *Builder) Copy(dst, src int) {
	if !b.ok(dst, src) || dst == src {
		return
	}
	tmp := b.Allocate(0, "")
	b.MoveTwice(dst, tmp, src)
	b.AddAndZero(src, tmp)
	b.Release(tmp)
}

// Add: acc += operand. operand is unchanged.
func (b *Builder) Add(acc, operand int) {
	if !b.ok(acc, operand) || !b.distinct(acc, operand) {
		return
	}
	tmp := b.AllocateAndCopy(operand, "")
	b.AddAndZero(acc, tmp)
	b.Release(tmp)
}

// Sub: acc -= operand. operand is unchanged.
func (b *Builder) Sub(acc, operand int) {
	if !b.ok(acc, operand) || !b.distinct(acc, operand) {
		return
	}
	tmp := b.AllocateAndCopy(operand, "")
	b.SubAndZero(acc, tmp)
	b.Release(tmp)
}

// Mul: t = a * c; c = 0. a is unchanged.
func (b *Builder) Mul(t, a, c int) {
	if !b.ok(t, a, c) || !b.distinct(t, a, c) {
		return
	}
	st1, st2 := b.state()[a], b.state()[c]
	b.Zero(t)
	b.Loop(c)
	b.Add(t, a)
	b.Decrement(c, 1)
	b.EndLoop()
	b.setState(t, combine(st1, st2, func(p, q byte) byte { return p * q }))
}

// Square: t = num * num. num is unchanged.
func (b *Builder) Square(t, num int) {
	if !b.ok(t, num) || !b.distinct(t, num) {
		return
	}
	n := b.AllocateAndCopy(num, "")
	b.Mul(t, num, n)
	b.Release(n)
}

// Not: t = x == 0 ? 1 : 0; x = 0.
func (b *Builder) Not(t, x int) {
	if !b.ok(t, x) || !b.distinct(t, x) {
		return
	}
	st := b.state()[x]
	b.Set(t, 1)
	b.IfAndZero(x)
	b.Zero(t)
	b.EndIf()
	if v, ok := st.Value(); ok {
		b.setState(t, Known(boolByte(v == 0)))
	}
}

// Eq: x = x == y ? 1 : 0; y = 0.
func (b *Builder) Eq(x, y int) {
	if !b.ok(x, y) || !b.distinct(x, y) {
		return
	}
	b.SubAndZero(y, x)
	b.Not(x, y)
}

// Div: t = num / den; num = 0. den is unchanged.
//
// A running counter starts at den and is decremented with num; every time
// it reaches zero it is refilled from den and t is incremented. With
// den == 0 the counter never reaches zero and t stays 0.
func (b *Builder) Div(t, num, den int) {
	if !b.ok(t, num, den) || !b.distinct(t, num, den) {
		return
	}
	st1, st2 := b.state()[num], b.state()[den]
	progress := b.AllocateAndCopy(den, "progress")
	b.Zero(t)
	b.Loop(num)
	b.Decrement(num, 1)
	b.Decrement(progress, 1)
	ztest := b.Allocate(0, "ztest")
	pc := b.AllocateAndCopy(progress, "progresscopy")
	b.Not(ztest, pc)
	b.Release(pc)
	b.IfAndZero(ztest)
	b.Copy(progress, den)
	b.Increment(t, 1)
	b.EndIf()
	b.Release(ztest)
	b.EndLoop()
	b.Release(progress)
	b.setState(t, combine(st1, st2, divByte))
}

// Mod: t = num % den; num = 0. den is unchanged. With den == 0, t = num.
func (b *Builder) Mod(t, num, den int) {
	if !b.ok(t, num, den) || !b.distinct(t, num, den) {
		return
	}
	st1, st2 := b.state()[num], b.state()[den]
	b.Zero(t)
	b.Loop(num)
	b.Decrement(num, 1)
	b.Increment(t, 1)
	tc := b.AllocateAndCopy(t, "targetcopy")
	dc := b.AllocateAndCopy(den, "divisorcopy")
	b.Eq(tc, dc)
	b.IfAndZero(tc)
	b.Zero(t)
	b.EndIf()
	b.Release(tc, dc)
	b.EndLoop()
	b.setState(t, combine(st1, st2, modByte))
}

// DivMod: div = num / den; mod = num % den; num = 0. den is unchanged.
func (b *Builder) DivMod(div, mod, num, den int) {
	if !b.ok(div, mod, num, den) || !b.distinct(div, mod, num, den) {
		return
	}
	st1, st2 := b.state()[num], b.state()[den]
	b.Zero(div)
	b.Zero(mod)
	b.Loop(num)
	b.Decrement(num, 1)
	b.Increment(mod, 1)
	mc := b.AllocateAndCopy(mod, "modcopy")
	dc := b.AllocateAndCopy(den, "divisorcopy")
	b.Eq(mc, dc)
	b.IfAndZero(mc)
	b.Zero(mod)
	b.Increment(div, 1)
	b.EndIf()
	b.Release(mc, dc)
	b.EndLoop()
	b.setState(div, combine(st1, st2, divByte))
	b.setState(mod, combine(st1, st2, modByte))
}

// And: t = a && c ? 1 : 0; a = 0. c is zeroed only when a was non-zero.
func (b *Builder) And(t, a, c int) {
	if !b.ok(t, a, c) || !b.distinct(t, a, c) {
		return
	}
	st1, st2 := b.state()[a], b.state()[c]
	b.Zero(t)
	b.IfAndZero(a)
	b.IfAndZero(c)
	b.Increment(t, 1)
	b.EndIf()
	b.EndIf()
	b.setState(t, combine(st1, st2, func(p, q byte) byte { return boolByte(p != 0 && q != 0) }))
}

// Or: t = a || c ? 1 : 0; a = 0; c = 0.
func (b *Builder) Or(t, a, c int) {
	if !b.ok(t, a, c) || !b.distinct(t, a, c) {
		return
	}
	st1, st2 := b.state()[a], b.state()[c]
	b.Zero(t)
	b.IfAndZero(a)
	b.Increment(t, 1)
	b.EndIf()
	b.IfAndZero(c)
	b.Set(t, 1)
	b.EndIf()
	b.setState(t, combine(st1, st2, func(p, q byte) byte { return boolByte(p != 0 || q != 0) }))
}

// divByte and modByte are the results the algorithms above actually
// produce, including for a zero divisor.
func divByte(num, den byte) byte {
	if den == 0 {
		return 0
	}
	return num / den
}

func modByte(num, den byte) byte {
	if den == 0 {
		return num
	}
	return num % den
}

// Fold evaluates op on two constants with the same results the emitted
// algorithms produce. ok is false for an unknown operator.
func Fold(op byte, x, y byte) (v byte, ok bool) {
	switch op {
	case '+':
		return x + y, true
	case '-':
		return x - y, true
	case '*':
		return x * y, true
	case '/':
		return divByte(x, y), true
	case '%':
		return modByte(x, y), true
	case '=':
		return boolByte(x == y), true
	case '&':
		return boolByte(x != 0 && y != 0), true
	case '|':
		return boolByte(x != 0 || y != 0), true
	}
	return 0, false
}

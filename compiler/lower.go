package compiler

import (
	"fmt"

	"github.com/chazu/caress/backend"
)

// ---------------------------------------------------------------------------
// Lowering of binary assignments
//
// "target = A op B" is first normalized into a binaryOp that records which
// operands are the target's own cell. Each operator then has one emission
// routine that handles every alias case, so the choice of algorithm is a
// plain switch instead of a list of special cases.
// ---------------------------------------------------------------------------

// alias records which operands share the target's cell.
type alias int

const (
	aliasNone  alias = iota // target differs from both operands
	aliasLeft               // target = target op B
	aliasRight              // target = A op target
	aliasBoth               // target = target op target
)

func (a alias) String() string {
	switch a {
	case aliasNone:
		return "none"
	case aliasLeft:
		return "left"
	case aliasRight:
		return "right"
	case aliasBoth:
		return "both"
	}
	return fmt.Sprintf("alias(%d)", int(a))
}

// operand is a resolved Value: a literal or a variable's cell.
type operand struct {
	literal bool
	value   byte // when literal
	cell    int  // when not literal
}

func (o operand) isCell(c int) bool {
	return !o.literal && o.cell == c
}

type binaryOp struct {
	op     Operator
	target int
	left   operand
	right  operand
	alias  alias
}

func (g *Generator) operand(v Value) (operand, error) {
	switch v := v.(type) {
	case *NumberLiteral:
		return operand{literal: true, value: v.Value}, nil
	case *Identifier:
		cell, err := g.cell(v)
		if err != nil {
			return operand{}, err
		}
		return operand{cell: cell}, nil
	}
	return operand{}, fmt.Errorf("%w: operand %T", ErrUnsupportedConstruct, v)
}

// lowerBinary resolves the operands of s and classifies the aliasing.
func (g *Generator) lowerBinary(s *OperateAssign) (binaryOp, error) {
	target, err := g.cell(s.Target)
	if err != nil {
		return binaryOp{}, err
	}
	left, err := g.operand(s.A)
	if err != nil {
		return binaryOp{}, err
	}
	right, err := g.operand(s.B)
	if err != nil {
		return binaryOp{}, err
	}

	op := binaryOp{op: s.Op, target: target, left: left, right: right}
	switch l, r := left.isCell(target), right.isCell(target); {
	case l && r:
		op.alias = aliasBoth
	case l:
		op.alias = aliasLeft
	case r:
		op.alias = aliasRight
	default:
		op.alias = aliasNone
	}
	return op, nil
}

// emitBinary generates code for a lowered binary assignment.
func (g *Generator) emitBinary(op binaryOp) error {
	b := g.b
	t := op.target

	if op.left.literal && op.right.literal {
		v, ok := backend.Fold(byte(op.op), op.left.value, op.right.value)
		if !ok {
			return fmt.Errorf("%w: operator %s", ErrUnsupportedConstruct, op.op)
		}
		b.Set(t, v)
		return nil
	}

	switch op.op {
	case OpAdd:
		switch op.alias {
		case aliasNone:
			g.set(t, op.left)
			g.addOperand(t, op.right)
		case aliasLeft, aliasBoth:
			g.addOperand(t, op.right)
		case aliasRight:
			g.addOperand(t, op.left)
		}

	case OpSub:
		switch op.alias {
		case aliasNone:
			g.set(t, op.left)
			g.subOperand(t, op.right)
		case aliasLeft:
			g.subOperand(t, op.right)
		case aliasRight:
			old := b.AllocateAndCopy(t, "old")
			g.set(t, op.left)
			b.SubAndZero(t, old)
			b.Release(old)
		case aliasBoth:
			b.Zero(t)
		}

	case OpMul:
		// Mul keeps its first factor and consumes the second.
		a, tmpA := g.keep(op.left, t)
		c := g.load(op.right, "factor")
		b.Mul(t, a, c)
		b.Release(c)
		if tmpA {
			b.Release(a)
		}

	case OpDiv, OpMod:
		// Div and Mod consume the numerator and keep the denominator.
		num := g.load(op.left, "numerator")
		den, tmpDen := g.keep(op.right, t)
		if op.op == OpDiv {
			b.Div(t, num, den)
		} else {
			b.Mod(t, num, den)
		}
		b.Release(num)
		if tmpDen {
			b.Release(den)
		}

	case OpEq:
		x := g.load(op.left, "lhs")
		y := g.load(op.right, "rhs")
		b.Eq(x, y)
		b.Zero(t)
		b.AddAndZero(t, x)
		b.Release(x, y)

	case OpAnd, OpOr:
		x := g.load(op.left, "lhs")
		y := g.load(op.right, "rhs")
		if op.op == OpAnd {
			b.And(t, x, y)
		} else {
			b.Or(t, x, y)
		}
		b.Release(x, y)

	default:
		return fmt.Errorf("%w: operator %s with %s aliasing", ErrUnsupportedConstruct, op.op, op.alias)
	}
	return nil
}

// set stores o in t.
func (g *Generator) set(t int, o operand) {
	if o.literal {
		g.b.Set(t, o.value)
		return
	}
	g.b.Copy(t, o.cell)
}

// addOperand adds o to t. o may be t itself, which doubles t.
func (g *Generator) addOperand(t int, o operand) {
	if o.literal {
		g.b.Increment(t, int(o.value))
		return
	}
	tmp := g.b.AllocateAndCopy(o.cell, "addend")
	g.b.AddAndZero(t, tmp)
	g.b.Release(tmp)
}

// subOperand subtracts o from t. o may be t itself, which clears t.
func (g *Generator) subOperand(t int, o operand) {
	if o.literal {
		g.b.Decrement(t, int(o.value))
		return
	}
	tmp := g.b.AllocateAndCopy(o.cell, "subtrahend")
	g.b.SubAndZero(t, tmp)
	g.b.Release(tmp)
}

// load returns a fresh temporary holding o. The caller releases it.
func (g *Generator) load(o operand, name string) int {
	if o.literal {
		return g.b.Allocate(o.value, name)
	}
	return g.b.AllocateAndCopy(o.cell, name)
}

// keep returns a cell holding o that an algorithm may read but not
// modify: the variable's own cell when it is not the target, otherwise a
// temporary. tmp reports whether the caller must release it.
func (g *Generator) keep(o operand, target int) (cell int, tmp bool) {
	if !o.literal && o.cell != target {
		return o.cell, false
	}
	return g.load(o, "operand"), true
}

// Package native lowers tape-machine programs to LLVM IR, which clang can
// compile to a standalone executable.
package native

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/chazu/caress/vm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("caress.native")

// The native tape matches vm.Tape: 65536 cells, cursor starting in the
// middle, cursor arithmetic wrapping at both ends.
const (
	tapeSize = vm.TapeSize
	tapeMask = tapeSize - 1
)

type lowerer struct {
	mod     *ir.Module
	fn      *ir.Func
	block   *ir.Block
	tape    *ir.Global
	tapeTyp *types.ArrayType
	pc      *ir.InstAlloca
	getchar *ir.Func
	putchar *ir.Func
	read    *ir.Func
}

// Lower translates prog into an LLVM module defining main. Input matches
// vm.StreamTerminal: carriage returns are skipped and reading at end of
// input leaves the cell unchanged.
func Lower(prog *vm.Program) *ir.Module {
	mod := ir.NewModule()
	l := &lowerer{
		mod:     mod,
		tapeTyp: types.NewArray(tapeSize, types.I8),
		getchar: mod.NewFunc("getchar", types.I32),
		putchar: mod.NewFunc("putchar", types.I32, ir.NewParam("ch", types.I32)),
	}
	l.tape = mod.NewGlobalDef("tape", constant.NewZeroInitializer(l.tapeTyp))
	l.read = l.readByte()

	l.fn = mod.NewFunc("main", types.I32)
	l.block = l.fn.NewBlock("entry")
	l.pc = l.block.NewAlloca(types.I64)
	l.block.NewStore(constant.NewInt(types.I64, int64(vm.Origin)), l.pc)

	l.body(prog.Body)
	l.block.NewRet(constant.NewInt(types.I32, 0))
	log.Debugf("lowered %d loops", len(prog.Loops()))
	return mod
}

// WriteIR writes the textual IR for prog to w.
func WriteIR(w io.Writer, prog *vm.Program) error {
	_, err := io.WriteString(w, Lower(prog).String())
	return err
}

// BuildExecutable writes the IR for prog to a temporary file and compiles
// it to output with clang.
func BuildExecutable(ctx context.Context, prog *vm.Program, output string) error {
	ll, err := os.CreateTemp("", "caress-*.ll")
	if err != nil {
		return err
	}
	defer os.Remove(ll.Name())
	if err := WriteIR(ll, prog); err != nil {
		ll.Close()
		return err
	}
	if err := ll.Close(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "clang", "-w", "-O3", "-o", output, ll.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clang: %w", err)
	}
	return nil
}

func (l *lowerer) body(body []vm.Instruction) {
	for _, ins := range body {
		switch ins := ins.(type) {
		case *vm.Run:
			l.run(ins)
		case *vm.Loop:
			l.loop(ins)
		case *vm.Comment:
		}
	}
}

// cell returns a pointer to the cell under the cursor.
func (l *lowerer) cell() value.Value {
	idx := l.block.NewLoad(types.I64, l.pc)
	return l.block.NewGetElementPtr(l.tapeTyp, l.tape, constant.NewInt(types.I64, 0), idx)
}

func (l *lowerer) run(r *vm.Run) {
	b := l.block
	switch r.Symbol {
	case vm.SymInc, vm.SymDec:
		n := r.Count % 256
		if r.Symbol == vm.SymDec {
			n = -n
		}
		ptr := l.cell()
		sum := b.NewAdd(b.NewLoad(types.I8, ptr), constant.NewInt(types.I8, int64(int8(n))))
		b.NewStore(sum, ptr)

	case vm.SymRight, vm.SymLeft:
		n := int64(r.Count % tapeSize)
		if r.Symbol == vm.SymLeft {
			n = -n
		}
		moved := b.NewAdd(b.NewLoad(types.I64, l.pc), constant.NewInt(types.I64, n))
		b.NewStore(b.NewAnd(moved, constant.NewInt(types.I64, tapeMask)), l.pc)

	case vm.SymOutput:
		ptr := l.cell()
		for i := 0; i < r.Count; i++ {
			ch := b.NewZExt(b.NewLoad(types.I8, ptr), types.I32)
			b.NewCall(l.putchar, ch)
		}

	case vm.SymInput:
		ptr := l.cell()
		for i := 0; i < r.Count; i++ {
			ch := b.NewCall(l.read)
			eof := b.NewICmp(enum.IPredEQ, ch, constant.NewInt(types.I32, -1))
			old := b.NewLoad(types.I8, ptr)
			b.NewStore(b.NewSelect(eof, old, b.NewTrunc(ch, types.I8)), ptr)
		}
	}
}

// readByte defines readbyte, which returns the next input byte other than
// '\r', or -1 at end of input.
func (l *lowerer) readByte() *ir.Func {
	fn := l.mod.NewFunc("readbyte", types.I32)
	entry := fn.NewBlock("entry")
	again := fn.NewBlock("again")
	done := fn.NewBlock("done")

	entry.NewBr(again)
	ch := again.NewCall(l.getchar)
	cr := again.NewICmp(enum.IPredEQ, ch, constant.NewInt(types.I32, '\r'))
	again.NewCondBr(cr, again, done)
	done.NewRet(ch)
	return fn
}

// loop lowers a loop to a test block, a body and an exit block.
func (l *lowerer) loop(lp *vm.Loop) {
	test := l.fn.NewBlock(fmt.Sprintf("loop%d", lp.Pos))
	body := l.fn.NewBlock(fmt.Sprintf("body%d", lp.Pos))
	exit := l.fn.NewBlock(fmt.Sprintf("exit%d", lp.Pos))

	l.block.NewBr(test)

	l.block = test
	cur := test.NewLoad(types.I8, l.cell())
	nonzero := test.NewICmp(enum.IPredNE, cur, constant.NewInt(types.I8, 0))
	test.NewCondBr(nonzero, body, exit)

	l.block = body
	l.body(lp.Body)
	l.block.NewBr(test)

	l.block = exit
}

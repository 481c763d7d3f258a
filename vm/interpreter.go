package vm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("caress.vm")

// ErrStepLimit is returned when a run exceeds Interpreter.MaxSteps.
var ErrStepLimit = errors.New("step limit exceeded")

// ctxCheckInterval is how many loop iterations pass between checks of
// the run's context.
const ctxCheckInterval = 1 << 12

// Interpreter executes instruction trees on a Tape.
//
// The tape persists across calls to Run, so a program may be executed in
// pieces (the REPL runs each newly generated chunk against the same tape).
type Interpreter struct {
	Tape     *Tape
	Terminal Terminal

	// Profiler, when set, records loop counts.
	Profiler *Profiler

	// MaxSteps bounds the number of executed instructions across all runs.
	// Zero means unlimited.
	MaxSteps uint64

	steps uint64
	polls uint64
}

// NewInterpreter returns an interpreter with a fresh tape.
func NewInterpreter(term Terminal) *Interpreter {
	return &Interpreter{Tape: NewTape(), Terminal: term}
}

// Steps returns the number of instructions executed so far.
func (in *Interpreter) Steps() uint64 {
	return in.steps
}

// Run executes prog until it finishes, the context is cancelled, or the
// step limit is reached.
func (in *Interpreter) Run(ctx context.Context, prog *Program) error {
	if in.Tape == nil {
		in.Tape = NewTape()
	}
	if in.Terminal == nil {
		in.Terminal = NewBufferTerminal("")
	}
	err := in.exec(ctx, prog.Body)
	log.Debugf("run finished after %d steps", in.steps)
	return err
}

func (in *Interpreter) exec(ctx context.Context, body []Instruction) error {
	for _, ins := range body {
		switch i := ins.(type) {
		case *Run:
			if err := in.step(uint64(i.Count)); err != nil {
				return err
			}
			if err := in.run(i); err != nil {
				return err
			}

		case *Loop:
			var counts *LoopCounts
			if in.Profiler != nil {
				counts = in.Profiler.reach(i.Pos)
			}
			for in.Tape.Read() != 0 {
				if counts != nil {
					counts.Iterations++
				}
				if err := in.step(1); err != nil {
					return err
				}
				if err := in.poll(ctx); err != nil {
					return err
				}
				if err := in.exec(ctx, i.Body); err != nil {
					return err
				}
			}

		case *Comment:
			// inert
		}
	}
	return nil
}

func (in *Interpreter) run(r *Run) error {
	t := in.Tape
	switch r.Symbol {
	case SymInc:
		t.Add(byte(r.Count))
	case SymDec:
		t.Add(byte(-r.Count))
	case SymRight:
		t.Move(r.Count)
	case SymLeft:
		t.Move(-r.Count)
	case SymOutput:
		for n := 0; n < r.Count; n++ {
			if err := in.Terminal.Write(t.Read()); err != nil {
				return fmt.Errorf("output at offset %d: %w", r.Pos, err)
			}
		}
	case SymInput:
		for n := 0; n < r.Count; n++ {
			// End of input leaves the cell unchanged.
			if b, ok := in.Terminal.Read(); ok {
				t.Write(b)
			}
		}
	}
	return nil
}

func (in *Interpreter) step(n uint64) error {
	in.steps += n
	if in.MaxSteps > 0 && in.steps > in.MaxSteps {
		return fmt.Errorf("%w: %d", ErrStepLimit, in.MaxSteps)
	}
	return nil
}

func (in *Interpreter) poll(ctx context.Context) error {
	in.polls++
	if in.polls%ctxCheckInterval != 0 {
		return nil
	}
	return ctx.Err()
}

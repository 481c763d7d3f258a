package vm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func runText(t *testing.T, src, input string) (*Interpreter, string) {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	term := NewBufferTerminal(input)
	in := NewInterpreter(term)
	if err := in.Run(context.Background(), prog); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return in, term.Output()
}

func TestInterpreterHello(t *testing.T) {
	// 8 * 8 + 8 = 72 'H', then +1 = 73 'I'.
	_, out := runText(t, "++++++++[>++++++++<-]>++++++++.+.", "")
	if out != "HI" {
		t.Errorf("output = %q, want %q", out, "HI")
	}
}

func TestInterpreterWraps(t *testing.T) {
	in, _ := runText(t, "-", "")
	if got := in.Tape.At(0); got != 255 {
		t.Errorf("cell = %d, want 255", got)
	}
	in, _ = runText(t, "+256", "")
	if got := in.Tape.At(0); got != 0 {
		t.Errorf("cell = %d, want 0", got)
	}
}

func TestCursorWraps(t *testing.T) {
	in, _ := runText(t, ">32768+", "")
	// 0x8000 + 0x8000 wraps to cell 0, which is offset -32768.
	if got := in.Tape.At(-32768); got != 1 {
		t.Errorf("cell = %d, want 1", got)
	}
	lo, hi := in.Tape.Frontier()
	if lo != -32768 || hi != 0 {
		t.Errorf("Frontier = %d, %d", lo, hi)
	}
}

func TestInputEndLeavesCell(t *testing.T) {
	in, out := runText(t, "+++,.,.", "A\r")
	if out != "AA" {
		t.Errorf("output = %q, want %q", out, "AA")
	}
	if got := in.Tape.At(0); got != 'A' {
		t.Errorf("cell = %d, want %d", got, 'A')
	}
}

func TestStepLimit(t *testing.T) {
	prog := MustParse("+[]")
	in := NewInterpreter(NewBufferTerminal(""))
	in.MaxSteps = 1000
	err := in.Run(context.Background(), prog)
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("Run error = %v, want ErrStepLimit", err)
	}
}

func TestContextCancel(t *testing.T) {
	prog := MustParse("+[]")
	in := NewInterpreter(NewBufferTerminal(""))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := in.Run(ctx, prog)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run error = %v, want DeadlineExceeded", err)
	}
}

func TestRunsResumeOnSameTape(t *testing.T) {
	term := NewBufferTerminal("")
	in := NewInterpreter(term)
	for _, chunk := range []string{"+++", ">++<", "[->+<]>."} {
		if err := in.Run(context.Background(), MustParse(chunk)); err != nil {
			t.Fatalf("Run(%q): %v", chunk, err)
		}
	}
	if got := term.Output(); got != "\x05" {
		t.Errorf("output = %q, want \\x05", got)
	}
}

func TestStreamTerminal(t *testing.T) {
	var out strings.Builder
	term := NewStreamTerminal(strings.NewReader("x\r\ny"), &out)
	in := NewInterpreter(term)
	if err := in.Run(context.Background(), MustParse(",.,.,.")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := term.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if out.String() != "x\ny" {
		t.Errorf("output = %q, want %q", out.String(), "x\ny")
	}
}

func TestProfilerCounts(t *testing.T) {
	// Outer loop runs 3 times; the inner loop at offset 5 is reached 3
	// times and never iterates because its cell is zero.
	src := "+++[>[-]<-]"
	prog := MustParse(src)
	prof := NewProfiler()
	in := NewInterpreter(NewBufferTerminal(""))
	in.Profiler = prof
	if err := in.Run(context.Background(), prog); err != nil {
		t.Fatalf("Run: %v", err)
	}
	outer := prof.Counts(3)
	if outer.Reached != 1 || outer.Iterations != 3 {
		t.Errorf("outer = %+v, want {1 3}", outer)
	}
	inner := prof.Counts(5)
	if inner.Reached != 3 || inner.Iterations != 0 {
		t.Errorf("inner = %+v, want {3 0}", inner)
	}

	p := prof.Profile(prog)
	if !p.Matches(prog) {
		t.Error("profile does not match its program")
	}
	if p.RunID == "" {
		t.Error("profile has no run id")
	}
	if p.DeadLoops() != 1 {
		t.Errorf("DeadLoops = %d, want 1", p.DeadLoops())
	}
}

func TestTapeWindow(t *testing.T) {
	in, _ := runText(t, "+>++>+++<<<-", "")
	if got := in.Tape.Window(-1, 3); string(got) != "\xff\x01\x02\x03" {
		t.Errorf("Window(-1, 3) = %v, want [255 1 2 3]", got)
	}
	if got := in.Tape.Window(2, 2); len(got) != 0 {
		t.Errorf("empty window = %v", got)
	}
	if got := in.Tape.Window(3, 1); got != nil {
		t.Errorf("inverted window = %v, want nil", got)
	}
}

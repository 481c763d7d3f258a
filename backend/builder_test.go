package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/chazu/caress/vm"
)

// run executes the builder's program on a fresh interpreter.
func run(t *testing.T, b *Builder) *vm.Interpreter {
	t.Helper()
	in, _ := runIO(t, b, "")
	return in
}

func runIO(t *testing.T, b *Builder, input string) (*vm.Interpreter, string) {
	t.Helper()
	text, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	prog, err := vm.Parse(text)
	if err != nil {
		t.Fatalf("vm.Parse: %v", err)
	}
	term := vm.NewBufferTerminal(input)
	in := vm.NewInterpreter(term)
	in.MaxSteps = 1 << 30
	if err := in.Run(context.Background(), prog); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := in.Tape.Position(); got != b.Head() {
		t.Errorf("cursor at %d, builder expected %d", got, b.Head())
	}
	return in, term.Output()
}

// forget emits a one-shot loop, after which the builder knows nothing
// about any cell. Tests use it to exercise the code paths for runtime
// values without feeding input.
func forget(b *Builder) {
	f := b.Allocate(1, "")
	b.Loop(f)
	b.Decrement(f, 1)
	b.EndLoop()
	b.Release(f)
}

func TestIncrementShortestDirection(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{3, "+++"},
		{128, strings.Repeat("+", 128)},
		{129, strings.Repeat("-", 127)},
		{255, "-"},
		{256, ""},
		{-2, "--"},
	}
	for _, tt := range tests {
		b := NewBuilder()
		b.Increment(0, tt.n)
		if got := b.Text(); got != tt.want {
			t.Errorf("Increment(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestMoveTo(t *testing.T) {
	b := NewBuilder()
	b.MoveTo(3)
	b.MoveTo(1)
	if got := b.Text(); got != ">>><<" {
		t.Errorf("text = %q, want %q", got, ">>><<")
	}
	if b.Head() != 1 {
		t.Errorf("Head = %d, want 1", b.Head())
	}
}

func TestComments(t *testing.T) {
	b := NewBuilder()
	b.Allocate(1, "quiet")
	if strings.Contains(b.Text(), "`") {
		t.Errorf("comment emitted while disabled: %q", b.Text())
	}

	b.SetComments(true)
	b.Allocate(1, "counter")
	if !strings.Contains(b.Text(), "`Allocate:[1]: counter`") {
		t.Errorf("missing allocation comment: %q", b.Text())
	}

	b.Annotate("has `ticks`")
	if !strings.Contains(b.Text(), "`has 'ticks'`\n") {
		t.Errorf("annotation not sanitized: %q", b.Text())
	}
}

func TestCommentsDoNotChangeCode(t *testing.T) {
	emit := func(comments bool) string {
		b := NewBuilder()
		b.SetComments(comments)
		x := b.Allocate(123, "x")
		b.WriteNumber(x)
		text, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		prog := vm.MustParse(text)
		stripped, _, err := vm.Serialize(prog, vm.SerializeOptions{})
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		return stripped
	}
	if plain, commented := emit(false), emit(true); plain != commented {
		t.Errorf("comments changed the instructions:\n%s\n%s", plain, commented)
	}
}

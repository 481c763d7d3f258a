package backend

import (
	"errors"
	"testing"
)

func TestMismatchedClose(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
	}{
		{"end loop at top", func(b *Builder) { b.EndLoop() }},
		{"end if at top", func(b *Builder) { b.EndIf() }},
		{"close at top", func(b *Builder) { b.Close() }},
		{"loop closed as if", func(b *Builder) {
			x := b.Allocate(0, "")
			b.Loop(x)
			b.EndIf()
		}},
		{"if closed as loop", func(b *Builder) {
			x := b.Allocate(0, "")
			b.IfAndZero(x)
			b.EndLoop()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			if !errors.Is(b.Err(), ErrMismatchedBlockClose) {
				t.Errorf("Err = %v, want ErrMismatchedBlockClose", b.Err())
			}
		})
	}
}

func TestBuildWithOpenBlock(t *testing.T) {
	b := NewBuilder()
	x := b.Allocate(0, "")
	b.Loop(x)
	if _, err := b.Build(); !errors.Is(err, ErrMismatchedBlockClose) {
		t.Errorf("Build error = %v, want ErrMismatchedBlockClose", err)
	}
	b.Close()
	if _, err := b.Build(); err != nil {
		t.Errorf("Build after Close: %v", err)
	}
}

func TestLoopStateIsUnknown(t *testing.T) {
	b := NewBuilder()
	x := b.Allocate(3, "")
	y := b.Allocate(9, "")
	b.Loop(x)
	if b.State(y) != Unknown {
		t.Errorf("inside loop State(y) = %s, want unknown", b.State(y))
	}
	b.Decrement(x, 1)
	b.EndLoop()
	if b.State(x) != Known(0) {
		t.Errorf("after loop State(x) = %s, want 0", b.State(x))
	}
	if b.State(y) != Unknown {
		t.Errorf("after loop State(y) = %s, want unknown", b.State(y))
	}
}

func TestIfJoinsState(t *testing.T) {
	b := NewBuilder()
	c := b.Allocate(0, "")
	b.Read(c)
	same := b.Allocate(4, "")
	diff := b.Allocate(4, "")
	b.IfAndZero(c)
	if b.State(same) != Known(4) {
		t.Errorf("inside if State(same) = %s, want 4", b.State(same))
	}
	b.Increment(diff, 1)
	b.EndIf()

	if b.State(same) != Known(4) {
		t.Errorf("State(same) = %s, want 4", b.State(same))
	}
	if b.State(diff) != Unknown {
		t.Errorf("State(diff) = %s, want unknown", b.State(diff))
	}
	if b.State(c) != Known(0) {
		t.Errorf("State(control) = %s, want 0", b.State(c))
	}
}

func TestIfNotRuns(t *testing.T) {
	for _, v := range []byte{0, 1, 255} {
		b := NewBuilder()
		c := b.Allocate(v, "")
		out := b.Allocate(0, "")
		b.IfNotAndZero(c)
		b.Set(out, 1)
		b.EndIf()
		in := run(t, b)
		want := byte(0)
		if v == 0 {
			want = 1
		}
		if got := in.Tape.At(out); got != want {
			t.Errorf("ifnot %d: out = %d, want %d", v, got, want)
		}
		if got := in.Tape.At(c); got != 0 {
			t.Errorf("ifnot %d: control = %d, want 0", v, got)
		}
	}
}

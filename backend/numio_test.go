package backend

import (
	"fmt"
	"testing"
)

func TestWriteNumber(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := NewBuilder()
		n := b.Allocate(byte(v), "")
		forget(b)
		b.WriteNumber(n)
		in, out := runIO(t, b, "")
		if out != fmt.Sprint(v) {
			t.Errorf("WriteNumber(%d) printed %q", v, out)
		}
		if in.Tape.At(n) != 0 {
			t.Errorf("WriteNumber(%d) left n = %d", v, in.Tape.At(n))
		}
		for c := AllocLimit; c < MemorySize; c++ {
			if in.Tape.At(c) != 0 {
				t.Errorf("WriteNumber(%d) left digit cell %d = %d", v, c, in.Tape.At(c))
			}
		}
	}
}

func TestWriteNumberKnown(t *testing.T) {
	b := NewBuilder()
	n := b.Allocate(205, "")
	b.WriteNumber(n)
	b.NewLine()
	n = b.Allocate(0, "")
	b.WriteNumber(n)
	_, out := runIO(t, b, "")
	if out != "205\n0" {
		t.Errorf("output = %q, want %q", out, "205\n0")
	}
}

func TestReadNumber(t *testing.T) {
	tests := []struct {
		input string
		want  byte
		rest  string
	}{
		{"0\n", 0, ""},
		{"7\n", 7, ""},
		{"255\nx", 255, "x"},
		{"256\n", 0, ""},
		{"12", 12, ""},
		{"", 0, ""},
	}
	for _, tt := range tests {
		b := NewBuilder()
		n := b.Allocate(99, "")
		b.ReadNumber(n)
		c := b.Allocate(0, "")
		b.Read(c)
		b.Write(c)
		in, out := runIO(t, b, tt.input)
		if in.Tape.At(n) != tt.want {
			t.Errorf("ReadNumber(%q) = %d, want %d", tt.input, in.Tape.At(n), tt.want)
		}
		if tt.rest != "" && out != tt.rest {
			t.Errorf("ReadNumber(%q) consumed past the newline: next = %q", tt.input, out)
		}
	}
}

func TestWriteString(t *testing.T) {
	b := NewBuilder()
	b.WriteString("Hello, world!\n")
	b.WriteChar('x')
	_, out := runIO(t, b, "")
	if out != "Hello, world!\nx" {
		t.Errorf("output = %q", out)
	}
}

func TestWriteDigit(t *testing.T) {
	b := NewBuilder()
	x := b.Allocate(0, "")
	b.Read(x)
	b.WriteDigit(x)
	in, out := runIO(t, b, "\x07")
	if out != "7" || in.Tape.At(x) != 7 {
		t.Errorf("output = %q, x = %d", out, in.Tape.At(x))
	}
}

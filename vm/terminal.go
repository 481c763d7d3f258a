package vm

import (
	"bufio"
	"bytes"
	"io"
)

// Terminal is the machine's byte-oriented I/O device.
type Terminal interface {
	// Read returns the next input byte, or false at end of input.
	Read() (byte, bool)
	// Write outputs one byte.
	Write(b byte) error
}

// StreamTerminal connects the machine to an io.Reader and io.Writer.
// Carriage returns in the input are skipped.
type StreamTerminal struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// NewStreamTerminal wraps r and w. Call Flush when the program finishes.
func NewStreamTerminal(r io.Reader, w io.Writer) *StreamTerminal {
	return &StreamTerminal{in: bufio.NewReader(r), out: bufio.NewWriter(w)}
}

func (t *StreamTerminal) Read() (byte, bool) {
	// Output written so far is visible before blocking on input.
	_ = t.out.Flush()
	for {
		b, err := t.in.ReadByte()
		if err != nil {
			return 0, false
		}
		if b != '\r' {
			return b, true
		}
	}
}

func (t *StreamTerminal) Write(b byte) error {
	return t.out.WriteByte(b)
}

// Flush writes buffered output.
func (t *StreamTerminal) Flush() error {
	return t.out.Flush()
}

// BufferTerminal serves input from memory and collects output.
type BufferTerminal struct {
	input []byte
	next  int
	out   bytes.Buffer
}

// NewBufferTerminal returns a terminal whose input is in, with carriage
// returns removed.
func NewBufferTerminal(in string) *BufferTerminal {
	return &BufferTerminal{input: bytes.ReplaceAll([]byte(in), []byte("\r"), nil)}
}

func (t *BufferTerminal) Read() (byte, bool) {
	if t.next >= len(t.input) {
		return 0, false
	}
	b := t.input[t.next]
	t.next++
	return b, true
}

func (t *BufferTerminal) Write(b byte) error {
	return t.out.WriteByte(b)
}

// Output returns everything written so far.
func (t *BufferTerminal) Output() string {
	return t.out.String()
}

// Reset discards collected output.
func (t *BufferTerminal) Reset() {
	t.out.Reset()
}

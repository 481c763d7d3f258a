package vm

import (
	"errors"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Post-hoc serializer
//
// Renders an instruction tree back to text. Adjacent runs that move the
// same thing (the cell value for + and -, the cursor for < and >) are
// merged into one run of their net effect, and runs whose net effect is
// zero disappear, which may in turn make their neighbours adjacent. With a
// profile, loops whose body never ran are dropped.
// ---------------------------------------------------------------------------

// ErrProfileMismatch is returned when a profile was recorded for a
// different program.
var ErrProfileMismatch = errors.New("profile does not match program")

// SerializeOptions controls Serialize.
type SerializeOptions struct {
	// Profile, when set, enables dead-loop elision.
	Profile *Profile
	// Comments keeps comments in the output. A kept comment separates the
	// runs around it, so they are not merged across it.
	Comments bool
	// RunLength writes runs longer than one as symbol plus count ("+12").
	RunLength bool
}

// SerializeStats reports what Serialize removed.
type SerializeStats struct {
	Cancelled   int // runs merged away or cancelled to nothing
	ElidedLoops int
}

// Serialize renders prog with the optimizations selected by opts.
func Serialize(prog *Program, opts SerializeOptions) (string, SerializeStats, error) {
	if opts.Profile != nil && !opts.Profile.Matches(prog) {
		return "", SerializeStats{}, ErrProfileMismatch
	}
	o := &optimizer{opts: opts}
	body := o.block(prog.Body)

	var sb strings.Builder
	render(&sb, body, opts.RunLength)
	if o.stats.ElidedLoops > 0 || o.stats.Cancelled > 0 {
		log.Debugf("serialize: %d runs cancelled, %d loops elided", o.stats.Cancelled, o.stats.ElidedLoops)
	}
	return sb.String(), o.stats, nil
}

// Optimize serializes prog and parses the result, so instruction offsets
// in the returned program refer to its own text.
func Optimize(prog *Program, opts SerializeOptions) (*Program, error) {
	text, _, err := Serialize(prog, opts)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

type optimizer struct {
	opts  SerializeOptions
	stats SerializeStats
}

// block optimizes one instruction list. The output list acts as a stack:
// each run is compared with the instruction on top.
func (o *optimizer) block(body []Instruction) []Instruction {
	var out []Instruction
	for _, ins := range body {
		switch i := ins.(type) {
		case *Comment:
			if o.opts.Comments {
				out = append(out, &Comment{Pos: i.Pos, Text: i.Text})
			}

		case *Run:
			if n := len(out); n > 0 {
				if top, ok := out[n-1].(*Run); ok && sameFamily(top.Symbol, i.Symbol) {
					out = out[:n-1]
					o.stats.Cancelled++
					if merged := netRun(top.Pos, top.Symbol, signedCount(top)+signedCount(i)); merged != nil {
						out = append(out, merged)
					}
					continue
				}
			}
			if hasNet(i.Symbol) {
				if r := netRun(i.Pos, i.Symbol, signedCount(i)); r != nil {
					out = append(out, r)
				} else {
					o.stats.Cancelled++
				}
				continue
			}
			out = append(out, &Run{Pos: i.Pos, Symbol: i.Symbol, Count: i.Count})

		case *Loop:
			if o.opts.Profile != nil {
				if n, ok := o.opts.Profile.Iterations(i.Pos); ok && n == 0 {
					o.stats.ElidedLoops++
					continue
				}
			}
			out = append(out, &Loop{Pos: i.Pos, Body: o.block(i.Body)})
		}
	}
	return out
}

func sameFamily(a, b byte) bool {
	switch a {
	case SymInc, SymDec:
		return b == SymInc || b == SymDec
	case SymRight, SymLeft:
		return b == SymRight || b == SymLeft
	}
	return false
}

// hasNet reports whether runs of sym combine by adding their counts.
func hasNet(sym byte) bool {
	return sameFamily(sym, sym)
}

func signedCount(r *Run) int {
	switch r.Symbol {
	case SymDec, SymLeft:
		return -r.Count
	}
	return r.Count
}

// netRun builds the run with the given net effect, or nil when the effect
// is nothing. Cell changes are reduced mod 256.
func netRun(pos int, family byte, net int) *Run {
	cell := family == SymInc || family == SymDec
	pos0, neg := SymInc, SymDec
	if !cell {
		pos0, neg = SymRight, SymLeft
	}
	sym, n := pos0, net
	if net < 0 {
		sym, n = neg, -net
	}
	if cell {
		n %= 256
	}
	if n == 0 {
		return nil
	}
	return &Run{Pos: pos, Symbol: sym, Count: n}
}

func render(sb *strings.Builder, body []Instruction, runLength bool) {
	for _, ins := range body {
		switch i := ins.(type) {
		case *Run:
			if runLength && i.Count > 1 {
				sb.WriteByte(i.Symbol)
				sb.WriteString(strconv.Itoa(i.Count))
			} else {
				sb.WriteString(strings.Repeat(string(i.Symbol), i.Count))
			}
		case *Loop:
			sb.WriteByte(SymOpen)
			render(sb, i.Body, runLength)
			sb.WriteByte(SymClose)
		case *Comment:
			sb.WriteByte(SymComment)
			sb.WriteString(strings.ReplaceAll(i.Text, "`", "'"))
			sb.WriteByte(SymComment)
			sb.WriteByte('\n')
		}
	}
}

package vm

import (
	"bytes"
	"crypto/sha256"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Loop profiling
// ---------------------------------------------------------------------------

// LoopCounts holds the execution counts of one loop.
type LoopCounts struct {
	// Reached counts how often execution arrived at the loop's opening
	// bracket.
	Reached uint64 `cbor:"1,keyasint"`
	// Iterations counts body executions over all arrivals.
	Iterations uint64 `cbor:"2,keyasint"`
}

// Profiler collects per-loop counts while an Interpreter runs. Loops are
// identified by their byte offset in the program text.
type Profiler struct {
	loops map[int]*LoopCounts
}

// NewProfiler creates an empty profiler.
func NewProfiler() *Profiler {
	return &Profiler{loops: make(map[int]*LoopCounts)}
}

func (p *Profiler) reach(pos int) *LoopCounts {
	c, ok := p.loops[pos]
	if !ok {
		c = &LoopCounts{}
		p.loops[pos] = c
	}
	c.Reached++
	return c
}

// Counts returns the counts recorded for the loop at pos.
func (p *Profiler) Counts(pos int) LoopCounts {
	if c, ok := p.loops[pos]; ok {
		return *c
	}
	return LoopCounts{}
}

// Profile snapshots the collected counts for prog. Every loop of prog
// gets an entry, including loops that were never reached.
func (p *Profiler) Profile(prog *Program) *Profile {
	pr := &Profile{
		RunID:   uuid.NewString(),
		Digest:  Digest(prog),
		Created: time.Now().Unix(),
		Loops:   make(map[int]LoopCounts),
	}
	for _, l := range prog.Loops() {
		pr.Loops[l.Pos] = p.Counts(l.Pos)
	}
	return pr
}

// Profile is a recorded execution of one program.
type Profile struct {
	RunID   string             `cbor:"1,keyasint"`
	Digest  []byte             `cbor:"2,keyasint"`
	Created int64              `cbor:"3,keyasint"`
	Loops   map[int]LoopCounts `cbor:"4,keyasint"`
}

// Iterations returns how often the body of the loop at pos ran. ok is
// false when the profile has no entry for pos.
func (p *Profile) Iterations(pos int) (uint64, bool) {
	c, ok := p.Loops[pos]
	return c.Iterations, ok
}

// DeadLoops returns how many loops in the profile never ran their body.
func (p *Profile) DeadLoops() int {
	n := 0
	for _, c := range p.Loops {
		if c.Iterations == 0 {
			n++
		}
	}
	return n
}

// Matches reports whether the profile was recorded for prog.
func (p *Profile) Matches(prog *Program) bool {
	return bytes.Equal(Digest(prog), p.Digest)
}

// Digest returns the SHA-256 of the program text.
func Digest(prog *Program) []byte {
	sum := sha256.Sum256([]byte(prog.Source))
	return sum[:]
}

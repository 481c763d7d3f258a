package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chazu/caress/compiler"
	"github.com/chazu/caress/vm"
	"github.com/peterh/liner"
)

const (
	promptMain  = ">> "
	promptCont  = ".. "
	historyFile = ".caress_history"
)

// cmdRepl compiles and runs statements interactively. Every chunk is
// generated against the same scope chain and run on the same tape.
func cmdRepl(args []string) int {
	c, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	flags := c.flagSet("repl", "")
	flags.StringVar(&c.comments, "comments", "none", "comment verbosity for :code")
	flags.Uint64Var(&c.maxSteps, "max-steps", c.maxSteps, "stop a chunk after this many instructions (0 = no limit)")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	configureLogging(c.verbosity)
	opts, err := c.options()
	if err != nil {
		return fail(err)
	}

	fmt.Println("caress REPL")
	fmt.Println("Type :help for commands, :quit to exit")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(opts, c.maxSteps, os.Stdin, os.Stdout)
	for {
		src, ok := readChunk(ln)
		if !ok {
			fmt.Println()
			return exitOK
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := s.command(os.Stdout, trimmed); quit {
				return exitOK
			}
			continue
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err := s.eval(ctx, src)
		stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// readChunk reads lines until every block opened in them is closed. ok is
// false at end of input.
func readChunk(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		b.WriteString(line)
		b.WriteByte('\n')
		if openBlocks(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// openBlocks returns how many blocks src opens without closing.
func openBlocks(src string) int {
	lx := compiler.NewLexer(src)
	depth := 0
	for {
		tok := lx.NextToken()
		switch tok.Type {
		case compiler.TokenLBrace:
			depth++
		case compiler.TokenRBrace:
			depth--
		case compiler.TokenEOF:
			return depth
		}
	}
}

// session is the REPL's compiler and machine state.
type session struct {
	opts     compiler.Options
	maxSteps uint64

	gen      *compiler.Generator
	accepted [][]compiler.Stmt
	last     string

	in     io.Reader
	out    io.Writer
	term   *vm.StreamTerminal
	interp *vm.Interpreter
}

func newSession(opts compiler.Options, maxSteps uint64, in io.Reader, out io.Writer) *session {
	s := &session{opts: opts, maxSteps: maxSteps, in: in, out: out}
	s.reset()
	return s
}

func (s *session) reset() {
	s.gen = compiler.NewGenerator(s.opts)
	s.accepted = nil
	s.last = ""
	s.term = vm.NewStreamTerminal(s.in, s.out)
	s.interp = vm.NewInterpreter(s.term)
}

// eval compiles src and runs the new code.
func (s *session) eval(ctx context.Context, src string) error {
	stmts, err := compiler.Parse(src)
	if err != nil {
		return err
	}
	if err := s.gen.Generate(stmts); err != nil {
		s.rebuild()
		return err
	}
	chunk := s.gen.Take()
	prog, err := vm.Parse(chunk)
	if err != nil {
		s.rebuild()
		return err
	}
	s.accepted = append(s.accepted, stmts)
	s.last = chunk

	s.interp.MaxSteps = 0
	if s.maxSteps > 0 {
		s.interp.MaxSteps = s.interp.Steps() + s.maxSteps
	}
	runErr := s.interp.Run(ctx, prog)
	if err := s.term.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		// The tape no longer matches what the generator assumes.
		s.reset()
		return fmt.Errorf("%w (session reset)", runErr)
	}
	return nil
}

// rebuild replaces a generator that has failed with one that has seen
// only the accepted chunks. Their code has already run, so it is
// discarded.
func (s *session) rebuild() {
	s.gen = compiler.NewGenerator(s.opts)
	for _, stmts := range s.accepted {
		if err := s.gen.Generate(stmts); err != nil {
			log.Errorf("replaying session: %v", err)
			s.reset()
			return
		}
	}
	s.gen.Take()
}

// command runs a REPL command. It reports whether the REPL should exit.
func (s *session) command(w io.Writer, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":help", ":h":
		fmt.Fprintln(w, "Commands:")
		fmt.Fprintln(w, "  :cells   show variables, their cells and values")
		fmt.Fprintln(w, "  :code    show the code generated for the last chunk")
		fmt.Fprintln(w, "  :reset   forget all variables and clear the tape")
		fmt.Fprintln(w, "  :quit    exit")
	case ":cells":
		s.printCells(w)
	case ":code":
		fmt.Fprintln(w, s.last)
	case ":reset":
		s.reset()
		fmt.Fprintln(w, "session reset")
	default:
		fmt.Fprintf(w, "unknown command %s (try :help)\n", cmd)
	}
	return false
}

func (s *session) printCells(w io.Writer) {
	bindings := s.gen.Bindings()
	if len(bindings) == 0 {
		fmt.Fprintln(w, "no variables")
		return
	}
	// Bindings are ordered by cell, so the last one bounds the window.
	cells := s.interp.Tape.Window(0, bindings[len(bindings)-1].Cell+1)
	for _, b := range bindings {
		fmt.Fprintf(w, "  %-12s [%d] = %d (%s)\n", b.Name, b.Cell, cells[b.Cell], s.gen.State(b.Cell))
	}
}

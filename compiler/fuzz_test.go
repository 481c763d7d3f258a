package compiler

import (
	"testing"

	"github.com/chazu/caress/vm"
)

var fuzzSeeds = []string{
	// Tokens
	`= + - * / % & | { } #`,
	`42`, `0`, `255`, `256`, `'a'`, `'\n'`, `'\''`, `"hello"`, `""`,
	// Statements
	"var a = 1\n",
	"var a = 'x'\nwrite a\n",
	"var a = 3\nvar b = a * a\nwritenum b\n",
	"var a = 0\nreadnum a\nwritenum a\nwriteline\n",
	"var a = 1\nb = not a\n",
	"var a = 5\nloop a {\na = a - 1\n}\n",
	"var a = 1\nif a {\nwritetext \"yes\"\n}\n",
	"var a = 0\nifnot a {\nwritetext \"no\"\n}\n",
	"var a = 1\nifrelease a {\nvar b = 2\n}\n",
	"var a = 0\nifnotrelease a {\n}\n",
	"var a = 7\nvar b = 2\na = a % b\na = a / b\na = a == b\na = a & b\na = a | b\n",
	"# comment\nvar a = 1 # trailing\nrelease a\n",
	// Errors
	"var\n", "var a =\n", "a = 1 +\n", "loop a {\n", "}\n", "loop a {}\n",
	"write undefined\n", "var a = 1\nvar a = 2\n", "\"unterminated", "'",
	// Edge cases
	``, "\n\n\n", "\t \r\n", `+-*/%&|=!@$^~`,
}

// FuzzLexer checks that the lexer never panics and always reaches EOF.
func FuzzLexer(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, data string) {
		l := NewLexer(data)
		for i := 0; i <= len(data)+1; i++ {
			if l.NextToken().Type == TokenEOF {
				return
			}
		}
		t.Fatalf("lexer did not reach EOF on %q", data)
	})
}

// FuzzParser checks that the parser never panics.
func FuzzParser(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, data string) {
		p := NewParser(data)
		p.ParseProgram()
		for _, err := range p.ParseErrors() {
			if err.Pos.Line < 1 || err.Pos.Column < 1 {
				t.Errorf("error without a position on %q: %v", data, err)
			}
		}
	})
}

// FuzzGenerate checks that every program that parses either generates
// code the machine can parse or fails with a CodegenError.
func FuzzGenerate(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, data string) {
		stmts, err := Parse(data)
		if err != nil {
			return
		}
		out, err := Generate(stmts, Options{Comments: CommentsCodegen})
		if err != nil {
			if _, ok := err.(*CodegenError); !ok {
				t.Fatalf("Generate(%q): got %T %v, want *CodegenError", data, err, err)
			}
			return
		}
		if _, err := vm.Parse(out); err != nil {
			t.Fatalf("generated code for %q does not parse: %v", data, err)
		}
	})
}

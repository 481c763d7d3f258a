package hash

import (
	"bytes"
	"testing"

	"github.com/chazu/caress/compiler"
)

func mustParse(t *testing.T, src string) []compiler.Stmt {
	t.Helper()
	stmts, err := compiler.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return stmts
}

func TestNormalize_BlockScopes(t *testing.T) {
	stmts := mustParse(t, "var a = 1\nvar b = 2\nloop a {\nvar c = b\nc = a + c\n}\n")
	hp := NormalizeProgram(stmts)

	if len(hp.Statements) != 3 {
		t.Fatalf("statements: got %d, want 3", len(hp.Statements))
	}
	block, ok := hp.Statements[2].(*HBlock)
	if !ok {
		t.Fatalf("statement[2]: got %T, want *HBlock", hp.Statements[2])
	}
	if block.Kind != BlockKindLoop {
		t.Errorf("block kind: got %d, want %d", block.Kind, BlockKindLoop)
	}

	decl := block.Statements[0].(*HDeclaration)
	ref, ok := decl.Value.(*HLocalVarRef)
	if !ok {
		t.Fatalf("decl value: got %T, want *HLocalVarRef", decl.Value)
	}
	if ref.ScopeDepth != 1 || ref.SlotIndex != 1 {
		t.Errorf("b ref: got depth=%d slot=%d, want depth=1 slot=1", ref.ScopeDepth, ref.SlotIndex)
	}

	op := block.Statements[1].(*HOperate)
	target := op.Target.(*HLocalVarRef)
	if target.ScopeDepth != 0 || target.SlotIndex != 0 {
		t.Errorf("c ref: got depth=%d slot=%d, want depth=0 slot=0", target.ScopeDepth, target.SlotIndex)
	}
}

func TestNormalize_ReleaseForgetsBinding(t *testing.T) {
	stmts := mustParse(t, "var a = 1\nrelease a\nwrite a\n")
	hp := NormalizeProgram(stmts)

	act := hp.Statements[2].(*HAction)
	if free, ok := act.Arg.(*HFreeRef); !ok || free.Name != "a" {
		t.Errorf("write after release: got %#v, want free ref to a", act.Arg)
	}
}

func TestNormalize_DropsComments(t *testing.T) {
	stmts := mustParse(t, "# header\nvar a = 1 # trailing\n")
	hp := NormalizeProgram(stmts)
	if len(hp.Statements) != 1 {
		t.Errorf("statements: got %d, want 1", len(hp.Statements))
	}
}

func TestHash_RenamingIsInvisible(t *testing.T) {
	a := HashProgram(mustParse(t, "var x = 'a'\nwrite x\nx = x + 1\nwrite x\n"))
	b := HashProgram(mustParse(t, "# renamed\nvar letter = 'a'\nwrite letter\nletter = letter + 1\nwrite letter\n"))
	if a != b {
		t.Error("renamed program should hash the same")
	}
}

func TestHash_Distinguishes(t *testing.T) {
	base := "var x = 3\ny = x * 2\n"
	cases := []string{
		"var x = 4\ny = x * 2\n",
		"var x = 3\ny = x / 2\n",
		"var x = 3\ny = 2 * x\n",
		"var x = 3\nloop x {\n}\n",
		"var x = 3\nif x {\n}\n",
	}
	want := HashProgram(mustParse(t, base))
	for _, src := range cases {
		if HashProgram(mustParse(t, src)) == want {
			t.Errorf("%q hashes the same as %q", src, base)
		}
	}
}

func TestSerialize_VersionPrefix(t *testing.T) {
	data := Serialize(&HProgram{})
	want := []byte{HashVersion, TagProgram, 0, 0, 0, 0}
	if !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}
}

func TestSerialize_AbsentArg(t *testing.T) {
	data := Serialize(&HAction{Name: "writeline"})
	if data[len(data)-1] != TagNone {
		t.Errorf("last byte: got 0x%02X, want TagNone", data[len(data)-1])
	}
}

func TestCacheKey(t *testing.T) {
	src1 := "var x = 1\nwrite x\n"
	src2 := "var y = 1\nwrite y\n"
	s1, s2 := mustParse(t, src1), mustParse(t, src2)

	plain := compiler.Options{Comments: compiler.CommentsNone}
	if CacheKey(src1, s1, plain) != CacheKey(src2, s2, plain) {
		t.Error("uncommented output should share a key across renames")
	}

	commented := compiler.Options{Comments: compiler.CommentsSource}
	if CacheKey(src1, s1, commented) == CacheKey(src2, s2, commented) {
		t.Error("commented output should key on the source text")
	}
	if CacheKey(src1, s1, plain) == CacheKey(src1, s1, commented) {
		t.Error("verbosity should be part of the key")
	}
}

func TestNormalize_MarksRedeclaration(t *testing.T) {
	hp := NormalizeProgram(mustParse(t, "var a = 1\nvar a = 2\nloop a {\nvar a = 3\n}\nrelease a\nvar a = 4\n"))

	tests := []struct {
		decl *HDeclaration
		want bool
		desc string
	}{
		{hp.Statements[0].(*HDeclaration), false, "first declaration"},
		{hp.Statements[1].(*HDeclaration), true, "same-level redeclaration"},
		{hp.Statements[2].(*HBlock).Statements[0].(*HDeclaration), false, "shadowing in a block"},
		{hp.Statements[4].(*HDeclaration), false, "declaration after release"},
	}
	for _, tt := range tests {
		if tt.decl.Redeclares != tt.want {
			t.Errorf("%s: Redeclares = %v, want %v", tt.desc, tt.decl.Redeclares, tt.want)
		}
	}
}

// Programs the code generator treats differently must not share a key.
func TestCacheKey_SeparatesRejectedPrograms(t *testing.T) {
	opts := compiler.Options{Comments: compiler.CommentsNone}
	cases := []struct {
		bad, good string
	}{
		{"var a = 1\nvar a = 2\nwrite a\n", "var a = 1\nvar b = 2\nwrite b\n"},
		{"var a = 1\nif a {\nvar b = 2\nvar b = 3\n}\n", "var a = 1\nif a {\nvar b = 2\nvar c = 3\n}\n"},
		{"var a = 1\nwrite b\n", "var a = 1\nwrite a\n"},
	}
	for _, tc := range cases {
		bad, good := mustParse(t, tc.bad), mustParse(t, tc.good)
		if _, err := compiler.Generate(bad, opts); err == nil {
			t.Fatalf("%q should fail to generate", tc.bad)
		}
		if _, err := compiler.Generate(good, opts); err != nil {
			t.Fatalf("%q: %v", tc.good, err)
		}
		if CacheKey(tc.bad, bad, opts) == CacheKey(tc.good, good, opts) {
			t.Errorf("%q and %q share a cache key", tc.bad, tc.good)
		}
	}
}

func TestSerialize_DeclarationFlag(t *testing.T) {
	plain := Serialize(&HDeclaration{Value: &HLiteral{Value: 1}})
	dup := Serialize(&HDeclaration{Value: &HLiteral{Value: 1}, Redeclares: true})
	if bytes.Equal(plain, dup) {
		t.Error("redeclaration should change the serialized bytes")
	}
}

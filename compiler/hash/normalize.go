package hash

import (
	"github.com/chazu/caress/compiler"
)

// ---------------------------------------------------------------------------
// AST Normalization: compiler AST → frozen hashing AST
//
// Walks the statement tree and produces the frozen hashing AST, replacing
// every variable name with the block depth and slot of its declaration.
// Comments are dropped.
// ---------------------------------------------------------------------------

// scope tracks declarations at one block level.
type scope struct {
	vars map[string]uint16 // variable name → slot index
	next uint16
}

// normalizer holds state for the normalization walk.
type normalizer struct {
	scopes []scope // scope stack: [0]=program, [1]=first block, etc.
}

// NormalizeProgram transforms statements into a frozen HProgram.
func NormalizeProgram(stmts []compiler.Stmt) *HProgram {
	n := &normalizer{scopes: []scope{{vars: make(map[string]uint16)}}}
	return &HProgram{Statements: n.normalizeStmts(stmts)}
}

func (n *normalizer) normalizeStmts(stmts []compiler.Stmt) []HNode {
	out := make([]HNode, 0, len(stmts))
	for _, s := range stmts {
		if h := n.normalizeStmt(s); h != nil {
			out = append(out, h)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Statement normalization
// ---------------------------------------------------------------------------

func (n *normalizer) normalizeStmt(stmt compiler.Stmt) HNode {
	switch s := stmt.(type) {
	case *compiler.Comment:
		return nil

	case *compiler.Declaration:
		// The value is resolved before the new name becomes visible.
		value := n.normalizeValue(s.Value)
		dup := n.declare(s.Id.Name)
		return &HDeclaration{Value: value, Redeclares: dup}

	case *compiler.Copy:
		return &HCopy{Target: n.resolve(s.Target.Name), Value: n.normalizeValue(s.Value)}

	case *compiler.OperateAssign:
		return &HOperate{
			Target: n.resolve(s.Target.Name),
			A:      n.normalizeValue(s.A),
			Op:     byte(s.Op),
			B:      n.normalizeValue(s.B),
		}

	case *compiler.NotAssign:
		return &HNot{Target: n.resolve(s.Target.Name), Value: n.resolve(s.Value.Name)}

	case *compiler.Action0:
		return &HAction{Name: s.Name}

	case *compiler.Action1:
		arg := n.resolve(s.Id.Name)
		if s.Name == "release" {
			n.forget(s.Id.Name)
		}
		return &HAction{Name: s.Name, Arg: arg}

	case *compiler.WriteText:
		return &HWriteText{Message: s.Message}

	case *compiler.Block:
		return n.normalizeBlock(s)

	default:
		// unreachable for parser output
		return &HAction{Name: "?"}
	}
}

func (n *normalizer) normalizeValue(v compiler.Value) HNode {
	switch v := v.(type) {
	case *compiler.NumberLiteral:
		return &HLiteral{Value: v.Value}
	case *compiler.Identifier:
		return n.resolve(v.Name)
	}
	return &HFreeRef{Name: "?"}
}

// ---------------------------------------------------------------------------
// Variable resolution → scope-relative indices
// ---------------------------------------------------------------------------

// declare binds name to the next slot of the innermost scope. It reports
// whether name was already bound there.
func (n *normalizer) declare(name string) bool {
	sc := &n.scopes[len(n.scopes)-1]
	_, dup := sc.vars[name]
	sc.vars[name] = sc.next
	sc.next++
	return dup
}

// forget removes the innermost binding of name, mirroring the code
// generator's release.
func (n *normalizer) forget(name string) {
	for depth := len(n.scopes) - 1; depth >= 0; depth-- {
		if _, ok := n.scopes[depth].vars[name]; ok {
			delete(n.scopes[depth].vars, name)
			return
		}
	}
}

// resolve resolves a variable name, searching scopes from innermost to
// outermost like the code generator does.
func (n *normalizer) resolve(name string) HNode {
	for depth := len(n.scopes) - 1; depth >= 0; depth-- {
		if slot, ok := n.scopes[depth].vars[name]; ok {
			return &HLocalVarRef{
				ScopeDepth: uint16(len(n.scopes) - 1 - depth),
				SlotIndex:  slot,
			}
		}
	}
	return &HFreeRef{Name: name}
}

// ---------------------------------------------------------------------------
// Block normalization
// ---------------------------------------------------------------------------

func (n *normalizer) normalizeBlock(block *compiler.Block) *HBlock {
	control := n.resolve(block.Control.Name)
	if block.Kind == compiler.BlockIfRelease || block.Kind == compiler.BlockIfNotRelease {
		n.forget(block.Control.Name)
	}

	n.scopes = append(n.scopes, scope{vars: make(map[string]uint16)})
	stmts := n.normalizeStmts(block.Body)
	n.scopes = n.scopes[:len(n.scopes)-1]

	return &HBlock{
		Kind:       blockKind(block.Kind),
		Control:    control,
		Statements: stmts,
	}
}

func blockKind(k compiler.BlockKind) byte {
	switch k {
	case compiler.BlockLoop:
		return BlockKindLoop
	case compiler.BlockIf:
		return BlockKindIf
	case compiler.BlockIfNot:
		return BlockKindIfNot
	case compiler.BlockIfRelease:
		return BlockKindIfRelease
	case compiler.BlockIfNotRelease:
		return BlockKindIfNotRelease
	}
	return 0
}

package hash

// ---------------------------------------------------------------------------
// Frozen hashing AST types.
//
// These are stripped-down parallels of compiler/ast.go with no Span/position
// data, no comments, and scope-relative slot indices instead of variable
// names. Two programs that differ only in variable names, comments or
// layout produce identical hashing ASTs.
// ---------------------------------------------------------------------------

// HNode is the interface implemented by all hashing AST nodes.
type HNode interface {
	hnode() // marker method
}

// HLiteral is a constant cell value.
type HLiteral struct{ Value byte }

// HLocalVarRef references a variable by scope-relative indices.
// ScopeDepth 0 = current block, 1 = one enclosing block up, etc.
// SlotIndex is the declaration's position within that block.
type HLocalVarRef struct {
	ScopeDepth uint16
	SlotIndex  uint16
}

// HFreeRef references a name with no visible declaration. Such programs
// fail to compile, but they still need a well-defined hash.
type HFreeRef struct {
	Name string
}

func (*HLiteral) hnode()     {}
func (*HLocalVarRef) hnode() {}
func (*HFreeRef) hnode()     {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// HDeclaration introduces the next slot of the current block.
// Redeclares is set when the name is already bound in the same block,
// which the code generator rejects.
type HDeclaration struct {
	Value      HNode
	Redeclares bool
}

// HCopy assigns Value to Target.
type HCopy struct {
	Target HNode
	Value  HNode
}

// HOperate assigns A Op B to Target.
type HOperate struct {
	Target HNode
	A      HNode
	Op     byte
	B      HNode
}

// HNot assigns the negation of Value to Target.
type HNot struct {
	Target HNode
	Value  HNode
}

// HAction is an action with an optional operand.
type HAction struct {
	Name string
	Arg  HNode // nil for actions without operand
}

// HWriteText prints a constant string.
type HWriteText struct {
	Message string
}

// HBlock is a loop or conditional.
type HBlock struct {
	Kind       byte
	Control    HNode
	Statements []HNode
}

// HProgram is the top-level hashing node.
type HProgram struct {
	Statements []HNode
}

func (*HDeclaration) hnode() {}
func (*HCopy) hnode()        {}
func (*HOperate) hnode()     {}
func (*HNot) hnode()         {}
func (*HAction) hnode()      {}
func (*HWriteText) hnode()   {}
func (*HBlock) hnode()       {}
func (*HProgram) hnode()     {}

package hash

// ---------------------------------------------------------------------------
// Frozen tag bytes for the hashing AST serialization format.
//
// IMPORTANT: These tags are FROZEN. Once assigned, a tag byte must never
// change meaning. Adding new tags is fine; changing existing ones breaks
// every cached program keyed by an old hash.
// ---------------------------------------------------------------------------

// HashVersion is the version prefix for the serialization format.
// Bumping this invalidates all existing content hashes.
const HashVersion byte = 2

// AST node type tags. Each tag uniquely identifies a node kind in the
// serialized byte stream.
const (
	TagReservedZero byte = 0x00 // version prefix / reserved

	// Values
	TagLiteral     byte = 0x01
	TagLocalVarRef byte = 0x02
	TagFreeRef     byte = 0x03

	// Statements
	TagDeclaration byte = 0x10
	TagCopy        byte = 0x11
	TagOperate     byte = 0x12
	TagNot         byte = 0x13
	TagAction      byte = 0x14
	TagWriteText   byte = 0x15
	TagBlock       byte = 0x16
	TagProgram     byte = 0x17

	// Absent optional child
	TagNone byte = 0x1F
)

// Block kind bytes used inside TagBlock.
const (
	BlockKindLoop         byte = 0x01
	BlockKindIf           byte = 0x02
	BlockKindIfNot        byte = 0x03
	BlockKindIfRelease    byte = 0x04
	BlockKindIfNotRelease byte = 0x05
)

// allTags lists every defined tag for uniqueness verification in tests.
var allTags = []byte{
	TagReservedZero,
	TagLiteral, TagLocalVarRef, TagFreeRef,
	TagDeclaration, TagCopy, TagOperate, TagNot, TagAction,
	TagWriteText, TagBlock, TagProgram,
	TagNone,
}

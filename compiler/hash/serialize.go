package hash

import (
	"encoding/binary"
)

// ---------------------------------------------------------------------------
// Deterministic binary serialization of the frozen hashing AST.
//
// Encoding conventions:
//   - First byte: HashVersion
//   - Integers: big-endian fixed-width (uint16=2B, uint32=4B)
//   - Strings: uint32 big-endian length + bytes
//   - Child nodes: serialized inline (flat)
//   - Absent optional children: TagNone
// ---------------------------------------------------------------------------

// Serialize produces a deterministic byte serialization of an HNode tree.
// The returned bytes are suitable for hashing with SHA-256.
func Serialize(node HNode) []byte {
	s := &serializer{buf: make([]byte, 0, 256)}
	s.writeByte(HashVersion)
	s.serializeNode(node)
	return s.buf
}

type serializer struct {
	buf []byte
}

func (s *serializer) writeByte(b byte) {
	s.buf = append(s.buf, b)
}

func (s *serializer) writeUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *serializer) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *serializer) writeBool(v bool) {
	if v {
		s.writeByte(1)
	} else {
		s.writeByte(0)
	}
}

func (s *serializer) writeString(v string) {
	s.writeUint32(uint32(len(v)))
	s.buf = append(s.buf, v...)
}

func (s *serializer) serializeList(nodes []HNode) {
	s.writeUint32(uint32(len(nodes)))
	for _, n := range nodes {
		s.serializeNode(n)
	}
}

func (s *serializer) serializeNode(node HNode) {
	switch n := node.(type) {
	case nil:
		s.writeByte(TagNone)

	case *HLiteral:
		s.writeByte(TagLiteral)
		s.writeByte(n.Value)

	case *HLocalVarRef:
		s.writeByte(TagLocalVarRef)
		s.writeUint16(n.ScopeDepth)
		s.writeUint16(n.SlotIndex)

	case *HFreeRef:
		s.writeByte(TagFreeRef)
		s.writeString(n.Name)

	case *HDeclaration:
		s.writeByte(TagDeclaration)
		s.writeBool(n.Redeclares)
		s.serializeNode(n.Value)

	case *HCopy:
		s.writeByte(TagCopy)
		s.serializeNode(n.Target)
		s.serializeNode(n.Value)

	case *HOperate:
		s.writeByte(TagOperate)
		s.writeByte(n.Op)
		s.serializeNode(n.Target)
		s.serializeNode(n.A)
		s.serializeNode(n.B)

	case *HNot:
		s.writeByte(TagNot)
		s.serializeNode(n.Target)
		s.serializeNode(n.Value)

	case *HAction:
		s.writeByte(TagAction)
		s.writeString(n.Name)
		s.serializeNode(n.Arg)

	case *HWriteText:
		s.writeByte(TagWriteText)
		s.writeString(n.Message)

	case *HBlock:
		s.writeByte(TagBlock)
		s.writeByte(n.Kind)
		s.serializeNode(n.Control)
		s.serializeList(n.Statements)

	case *HProgram:
		s.writeByte(TagProgram)
		s.serializeList(n.Statements)
	}
}

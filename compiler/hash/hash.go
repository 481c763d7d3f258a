// Package hash computes content hashes of source programs. Programs that
// differ only in variable names, comments or layout hash the same, which
// makes the hash a cache key for generated code.
package hash

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/chazu/caress/compiler"
)

// HashProgram computes the SHA-256 content hash of a statement list.
//
// The hash is computed over a deterministic serialization of the
// normalized statement tree, in which variables are identified by the
// position of their declaration rather than their name.
func HashProgram(stmts []compiler.Stmt) [32]byte {
	data := Serialize(NormalizeProgram(stmts))
	return sha256.Sum256(data)
}

// CacheKey returns the key under which the program generated from stmts
// with the given options is cached. When the output carries comments the
// generated text depends on the source text itself, so src is hashed too.
func CacheKey(src string, stmts []compiler.Stmt, opts compiler.Options) string {
	h := sha256.New()
	sum := HashProgram(stmts)
	h.Write(sum[:])
	h.Write([]byte{byte(opts.Comments)})
	if opts.Comments != compiler.CommentsNone {
		h.Write([]byte(src))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Package fingerprint computes content hashes of grammar specifications;
// cmd/lalrgen uses Of on the specification source as its cache key and as
// the fingerprint recorded in the run history. Grounded on the teacher's go.mod, which
// requires golang.org/x/crypto directly (consumed there via bcrypt for
// password hashing); blake2b is the same module's general-purpose hash,
// reached for here instead of bcrypt because a cache key has no password-
// hashing slowness requirement, only collision resistance and speed.
package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Of hashes src (a grammar specification's raw source, or a generated
// parser's bytes) to a stable hex-encoded digest.
func Of(src []byte) string {
	sum := blake2b.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Grammar hashes the specification text together with every %inject'd
// file's content, supplied by the caller in inclusion order, so a cache
// entry invalidates when either the root file or any spliced-in file
// changes.
func Grammar(rootSrc []byte, injectedSrcs [][]byte) string {
	h, _ := blake2b.New256(nil)
	h.Write(rootSrc)
	for _, s := range injectedSrcs {
		h.Write([]byte{0}) // separator so concatenation can't collide across boundaries
		h.Write(s)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Package merkle builds and verifies the binary Merkle trees the gateway
// signs over: one tree of message leaves per Messages payload, and the
// verifier-set leaf tree used when deriving a rotation's new_vs_root and
// signing_vs_root. Tree shape and the odd-leaf policy are pinned exactly
// once here so a producer and a verifier can never disagree about them.
package merkle

import (
	"fmt"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
)

// TagVSRotation domain-separates a verifier-set rotation's signed digest
// from a message batch's signed digest, so the same 32 bytes can never be
// replayed as the other payload kind.
var TagVSRotation = []byte("axelar-solana-gateway:vs-rotation")

// Tree is a keccak256 binary Merkle tree over an ordered sequence of leaf
// hashes. Odd levels duplicate their last node (the "duplicate last leaf"
// policy pinned for this protocol) rather than promoting it unhashed, so
// every internal node is always keccak256(left, right) of two full-width
// children.
type Tree struct {
	levels [][][32]byte // levels[0] is the leaves, levels[len-1] is the root
}

// New builds a Tree over leaves. leaves must be non-empty.
func New(leaves [][32]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, codec.ErrEmptyInput
	}
	levels := [][][32]byte{append([][32]byte(nil), leaves...)}
	cur := levels[0]
	for len(cur) > 1 {
		next := make([][32]byte, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			left := cur[i]
			right := left
			if i+1 < len(cur) {
				right = cur[i+1]
			}
			next = append(next, codec.Keccak256(left[:], right[:]))
		}
		levels = append(levels, next)
		cur = next
	}
	return &Tree{levels: levels}, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() [32]byte {
	return t.levels[len(t.levels)-1][0]
}

// Len returns the number of leaves the tree was built over.
func (t *Tree) Len() int { return len(t.levels[0]) }

// Proof returns the sibling path for the leaf at position, from the leaf
// level up to (but not including) the root.
func (t *Tree) Proof(position uint16) ([][32]byte, error) {
	idx := int(position)
	if idx < 0 || idx >= t.Len() {
		return nil, fmt.Errorf("position %d out of range for tree of size %d", idx, t.Len())
	}
	var proof [][32]byte
	for level := 0; level < len(t.levels)-1; level++ {
		cur := t.levels[level]
		siblingIdx := idx ^ 1
		if siblingIdx >= len(cur) {
			siblingIdx = idx // duplicated last leaf is its own sibling
		}
		proof = append(proof, cur[siblingIdx])
		idx /= 2
	}
	return proof, nil
}

// Verify reports whether leaf, combined with proof, reconstructs root when
// walked up from position. Position's low bits select, level by level,
// whether the running hash is the left or right child — the same
// implicit-position-bit scheme Proof used to pick siblings.
func Verify(root [32]byte, leaf [32]byte, position uint16, proof [][32]byte) bool {
	cur := leaf
	idx := int(position)
	for _, sibling := range proof {
		if idx%2 == 0 {
			cur = codec.Keccak256(cur[:], sibling[:])
		} else {
			cur = codec.Keccak256(sibling[:], cur[:])
		}
		idx /= 2
	}
	return cur == root
}

// HashPayloadMessages computes the digest signers must sign over for a
// Messages payload: the root of the message-leaf tree. The digest for a
// NewVerifierSet payload comes from HashPayloadRotation instead.
//
// messageLeafHashes must already be in the leaves' canonical position
// order; callers building a Messages payload compute these via
// codec.LeafHash over each codec.MessageLeaf before calling
// HashPayloadMessages.
func HashPayloadMessages(messageLeafHashes [][32]byte) ([32]byte, error) {
	tree, err := New(messageLeafHashes)
	if err != nil {
		return [32]byte{}, err
	}
	return tree.Root(), nil
}

// HashPayloadRotation computes the signed digest for a NewVerifierSet
// payload given the new set's Merkleised root and the root of the verifier
// set that must sign for the rotation.
func HashPayloadRotation(newVSRoot, signingVSRoot [32]byte) [32]byte {
	return codec.Keccak256(TagVSRotation, newVSRoot[:], signingVSRoot[:])
}

// VerifierSetRoot builds the Merkle tree over a VerifierSet's leaves and
// returns its root, for use as either a new_vs_root or a signing_vs_root.
func VerifierSetRoot(vs codec.VerifierSet) ([32]byte, error) {
	leaves := make([][32]byte, vs.Len())
	for i := 0; i < vs.Len(); i++ {
		leaf, err := vs.Leaf(i)
		if err != nil {
			return [32]byte{}, err
		}
		leaves[i] = codec.LeafHash(leaf.Encode)
	}
	tree, err := New(leaves)
	if err != nil {
		return [32]byte{}, err
	}
	return tree.Root(), nil
}

package speller

import (
	"encoding/binary"

	"github.com/bastiangx/fstspell/pkg/transducer"
)

// seenKey identifies nodes that lead to identical futures.
type seenKey struct {
	lexicon transducer.TransitionTableIndex
	mutator transducer.TransitionTableIndex
	input   uint32
	flags   string
	output  string
}

// seenSet drops nodes already expanded from an equal or cheaper position.
// With rate 0 every expanded node is recorded; with rate r only every r-th
// visit is recorded, while every visit is still checked.
type seenSet struct {
	keys   map[seenKey]struct{}
	rate   uint32
	visits uint64
	buf    []byte
}

func newSeenSet(rate uint32) *seenSet {
	return &seenSet{keys: make(map[seenKey]struct{}), rate: rate}
}

// visit reports whether n was seen before and records it when sampled.
func (s *seenSet) visit(n *treeNode) bool {
	s.buf = s.buf[:0]
	for _, f := range n.flags {
		s.buf = binary.LittleEndian.AppendUint16(s.buf, uint16(f))
	}
	key := seenKey{
		lexicon: n.lexicon,
		mutator: n.mutator,
		input:   n.input,
		flags:   string(s.buf),
		output:  string(n.output),
	}
	if _, ok := s.keys[key]; ok {
		return true
	}
	s.visits++
	if s.rate == 0 || s.visits%uint64(s.rate) == 0 {
		s.keys[key] = struct{}{}
	}
	return false
}

func (s *seenSet) Len() int {
	return len(s.keys)
}

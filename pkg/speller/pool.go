package speller

import "github.com/bastiangx/fstspell/pkg/transducer"

// treeNode is one point of the search over the lexicon x mutator product.
type treeNode struct {
	output  []byte
	flags   transducer.FlagState
	input   uint32
	mutator transducer.TransitionTableIndex
	lexicon transducer.TransitionTableIndex
	weight  transducer.Weight
}

// nodePool is a per-search free list of nodes. It never crosses goroutines.
type nodePool struct {
	free      []*treeNode
	max       int
	features  int
	allocated int
}

func newNodePool(start, limit, features int) *nodePool {
	start = max(min(start, limit), 0)
	p := &nodePool{free: make([]*treeNode, 0, start), max: limit, features: features}
	for range start {
		p.free = append(p.free, p.alloc())
	}
	return p
}

func (p *nodePool) alloc() *treeNode {
	p.allocated++
	return &treeNode{output: make([]byte, 0, 16), flags: make(transducer.FlagState, 0, p.features)}
}

func (p *nodePool) get() *treeNode {
	if n := len(p.free); n > 0 {
		node := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return node
	}
	return p.alloc()
}

func (p *nodePool) put(n *treeNode) {
	if len(p.free) >= p.max {
		return
	}
	n.output = n.output[:0]
	n.flags = n.flags[:0]
	p.free = append(p.free, n)
}

// root returns the start node of a search.
func (p *nodePool) root() *treeNode {
	n := p.get()
	n.input, n.mutator, n.lexicon, n.weight = 0, 0, 0, 0
	n.output = n.output[:0]
	n.flags = append(n.flags[:0], make(transducer.FlagState, p.features)...)
	return n
}

// child derives a node from parent. flags replaces the parent's flag state
// when non-nil.
func (p *nodePool) child(parent *treeNode, mutator, lexicon transducer.TransitionTableIndex, consumed uint32,
	weight transducer.Weight, out string, flags transducer.FlagState) *treeNode {
	n := p.get()
	n.mutator = mutator
	n.lexicon = lexicon
	n.input = parent.input + consumed
	n.weight = weight
	n.output = append(append(n.output[:0], parent.output...), out...)
	if flags == nil {
		flags = parent.flags
	}
	n.flags = append(n.flags[:0], flags...)
	return n
}

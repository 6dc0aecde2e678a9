package speller

import (
	"testing"

	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/stretchr/testify/assert"
)

func TestNodeQueue_Order(t *testing.T) {
	q := newNodeQueue(0)
	weights := []transducer.Weight{3, 1, 2, 1, 0, 5}
	nodes := make([]*treeNode, len(weights))
	for i, w := range weights {
		nodes[i] = &treeNode{weight: w}
		q.push(nodes[i])
	}
	assert.Equal(t, len(weights), q.Len())

	want := []*treeNode{nodes[4], nodes[1], nodes[3], nodes[2], nodes[0], nodes[5]}
	for _, n := range want {
		got, ok := q.pop()
		assert.True(t, ok)
		assert.Same(t, n, got)
	}
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestNodePool_Reuse(t *testing.T) {
	p := newNodePool(2, 2, 3)
	assert.Equal(t, 2, p.allocated)

	root := p.root()
	assert.Len(t, root.flags, 3)
	assert.Empty(t, root.output)

	c := p.child(root, 4, 5, 1, 1.5, "ab", nil)
	assert.Equal(t, "ab", string(c.output))
	assert.Equal(t, uint32(1), c.input)
	assert.Equal(t, transducer.TransitionTableIndex(4), c.mutator)
	assert.Equal(t, transducer.TransitionTableIndex(5), c.lexicon)

	flags := transducer.FlagState{1, 0, 2}
	g := p.child(c, 0, 0, 0, 2, "c", flags)
	assert.Equal(t, "abc", string(g.output))
	assert.Equal(t, flags, g.flags)
	assert.Equal(t, transducer.FlagState{0, 0, 0}, c.flags)
	assert.Equal(t, 3, p.allocated)

	p.put(g)
	p.put(c)
	p.put(root)
	assert.Len(t, p.free, 2)
}

func TestSeenSet_Sampling(t *testing.T) {
	n := &treeNode{output: []byte("ab"), flags: transducer.FlagState{1}, input: 2}

	s := newSeenSet(0)
	assert.False(t, s.visit(n))
	assert.True(t, s.visit(n))

	other := &treeNode{output: []byte("ab"), flags: transducer.FlagState{2}, input: 2}
	assert.False(t, s.visit(other))

	s = newSeenSet(3)
	assert.False(t, s.visit(n))
	assert.False(t, s.visit(n))
	assert.False(t, s.visit(n))
	assert.True(t, s.visit(n))
	assert.Equal(t, 1, s.Len())
}

func TestCollector(t *testing.T) {
	c := newCollector()
	assert.True(t, c.add("b", 2))
	assert.True(t, c.add("a", 1))
	assert.False(t, c.add("b", 3))
	assert.True(t, c.add("c", 1))
	assert.True(t, c.add("b", 1.5))

	w, ok := c.worst(2)
	assert.True(t, ok)
	assert.Equal(t, transducer.Weight(1), w)
	_, ok = c.worst(4)
	assert.False(t, ok)

	assert.Equal(t, []Suggestion{{"a", 1}, {"c", 1}, {"b", 1.5}}, c.results(limits{}))
	assert.Equal(t, []Suggestion{{"a", 1}, {"c", 1}}, c.results(limits{hasBeam: true, beam: 0.25}))
	assert.Equal(t, []Suggestion{{"a", 1}}, c.results(limits{hasNBest: true, nBest: 1}))
}

func TestCaseHandling(t *testing.T) {
	tests := []struct {
		word     string
		mode     caseMode
		variants []string
	}{
		{"word", caseLower, []string{"word"}},
		{"Word", caseFirstUpper, []string{"Word", "word"}},
		{"WORD", caseAllUpper, []string{"WORD", "word", "Word"}},
		{"wOrD", caseMixed, []string{"wOrD", "word"}},
		{"A", caseFirstUpper, []string{"A", "a"}},
		{"123", caseLower, []string{"123"}},
	}
	for _, tt := range tests {
		mode := detectCase(tt.word)
		assert.Equal(t, tt.mode, mode, tt.word)
		assert.Equal(t, tt.variants, caseVariants(tt.word, mode), tt.word)
	}
	assert.Equal(t, "WORD", recase("word", caseAllUpper))
	assert.Equal(t, "Word", recase("word", caseFirstUpper))
	assert.Equal(t, "word", recase("word", caseMixed))
}

package speller

import "github.com/bastiangx/fstspell/pkg/transducer"

// queueItem is stored by value; seq breaks weight ties in insertion order so
// searches are reproducible.
type queueItem struct {
	node   *treeNode
	weight transducer.Weight
	seq    uint64
}

// nodeQueue is a binary min-heap of search nodes ordered by weight.
type nodeQueue struct {
	items []queueItem
	seq   uint64
}

func newNodeQueue(capacity int) *nodeQueue {
	return &nodeQueue{items: make([]queueItem, 0, capacity)}
}

func (q *nodeQueue) Len() int { return len(q.items) }

func (q *nodeQueue) push(n *treeNode) {
	q.items = append(q.items, queueItem{node: n, weight: n.weight, seq: q.seq})
	q.seq++
	q.siftUp(len(q.items) - 1)
}

func (q *nodeQueue) pop() (*treeNode, bool) {
	n := len(q.items)
	if n == 0 {
		return nil, false
	}
	root := q.items[0]
	last := q.items[n-1]
	q.items[n-1] = queueItem{}
	q.items = q.items[:n-1]
	if n-1 > 0 {
		q.items[0] = last
		q.siftDown(0)
	}
	return root.node, true
}

func (q *nodeQueue) less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return a.seq < b.seq
}

func (q *nodeQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.less(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *nodeQueue) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && q.less(r, l) {
			best = r
		}
		if !q.less(best, i) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}

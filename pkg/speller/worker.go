package speller

import (
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/log"
)

// worker runs one best-first search. It owns its queue, pool and seen set.
type worker struct {
	speller  *Speller
	input    []transducer.SymbolNumber
	limits   limits
	queue    *nodeQueue
	pool     *nodePool
	seen     *seenSet
	results  *collector
	expanded int
	pruned   int
}

func newWorker(s *Speller, input []transducer.SymbolNumber, cfg Config) *worker {
	return &worker{
		speller: s,
		input:   input,
		limits:  cfg.limits(),
		queue:   newNodeQueue(max(cfg.PoolStart, 16)),
		pool:    newNodePool(cfg.PoolStart, cfg.PoolMax, s.lexicon.Alphabet().FeatureCount()),
		seen:    newSeenSet(cfg.SeenNodeSampleRate),
		results: newCollector(),
	}
}

func (w *worker) run() []Suggestion {
	if w.limits.hasNBest && w.limits.nBest == 0 {
		return nil
	}
	w.queue.push(w.pool.root())

	for {
		n, ok := w.queue.pop()
		if !ok {
			break
		}
		if w.limits.hasNBest {
			if worst, full := w.results.worst(w.limits.nBest); full && n.weight > worst {
				break
			}
		}
		if w.outsideBeam(n.weight) || w.seen.visit(n) {
			w.pool.put(n)
			continue
		}
		w.expand(n)
		w.pool.put(n)
	}

	out := w.results.results(w.limits)
	log.Debug("Search finished", "expanded", w.expanded, "pruned", w.pruned,
		"seen", w.seen.Len(), "nodes", w.pool.allocated, "suggestions", len(out))
	return out
}

func (w *worker) outsideBeam(weight transducer.Weight) bool {
	return w.limits.hasBeam && w.results.found && weight > w.results.best+w.limits.beam
}

func (w *worker) prune(weight transducer.Weight) bool {
	if (w.limits.hasMax && weight > w.limits.maxWeight) || w.outsideBeam(weight) {
		w.pruned++
		return true
	}
	return false
}

func (w *worker) expand(n *treeNode) {
	w.expanded++
	w.lexiconEpsilons(n)
	w.mutatorEpsilons(n)

	if int(n.input) < len(w.input) {
		w.consumeInput(n)
		return
	}
	lex, mut := w.speller.lexicon, w.speller.mutator
	if mut.IsFinal(n.mutator) && lex.IsFinal(n.lexicon) {
		weight := n.weight + mut.FinalWeight(n.mutator) + lex.FinalWeight(n.lexicon)
		if w.limits.hasMax && weight > w.limits.maxWeight {
			return
		}
		if w.outsideBeam(weight) {
			return
		}
		w.results.add(string(n.output), weight)
	}
}

func (w *worker) push(parent *treeNode, mutator, lexicon transducer.TransitionTableIndex, consumed uint32,
	weight transducer.Weight, out string, flags transducer.FlagState) {
	total := parent.weight + weight
	if w.prune(total) {
		return
	}
	w.queue.push(w.pool.child(parent, mutator, lexicon, consumed, total, out, flags))
}

// lexiconEpsilons follows lexicon arcs that consume nothing: epsilons and
// flag diacritics whose operation succeeds on the node's flag state.
func (w *worker) lexiconEpsilons(n *treeNode) {
	lex := w.speller.lexicon
	if !lex.HasEpsilonsOrFlags(n.lexicon + 1) {
		return
	}
	j, ok := lex.Next(n.lexicon, transducer.Epsilon)
	if !ok {
		return
	}
	alphabet := lex.Alphabet()
	for ; ; j++ {
		tr, ok := lex.TakeEpsilonsAndFlags(j)
		if !ok {
			return
		}
		if tr.Input == transducer.Epsilon {
			w.push(n, n.mutator, tr.Target, 0, tr.Weight, alphabet.String(tr.Output), nil)
			continue
		}
		op, _ := alphabet.FlagOperation(tr.Input)
		if flags, ok := op.Apply(n.flags); ok {
			w.push(n, n.mutator, tr.Target, 0, tr.Weight, "", flags)
		}
	}
}

// mutatorEpsilons follows mutator arcs that consume no input: insertions
// paired with lexicon arcs, or mutator-only moves.
func (w *worker) mutatorEpsilons(n *treeNode) {
	mut := w.speller.mutator
	if !mut.HasEpsilonsOrFlags(n.mutator + 1) {
		return
	}
	j, ok := mut.Next(n.mutator, transducer.Epsilon)
	if !ok {
		return
	}
	for ; ; j++ {
		tr, ok := mut.TakeEpsilonsAndFlags(j)
		if !ok {
			return
		}
		if tr.Input != transducer.Epsilon {
			continue
		}
		if tr.Output == transducer.Epsilon {
			w.push(n, tr.Target, n.lexicon, 0, tr.Weight, "", nil)
			continue
		}
		if sym := w.speller.translate(tr.Output); sym != transducer.NoSymbol {
			w.lexiconArcs(n, sym, tr.Target, tr.Weight, 0)
		}
	}
}

// consumeInput follows mutator arcs reading the next input symbol.
func (w *worker) consumeInput(n *treeNode) {
	mut := w.speller.mutator
	sym := w.input[n.input]
	if !mut.HasTransitions(n.mutator+1, sym) {
		return
	}
	j, ok := mut.Next(n.mutator, sym)
	if !ok {
		return
	}
	for ; ; j++ {
		tr, ok := mut.TakeNonEpsilons(j, sym)
		if !ok {
			return
		}
		if tr.Output == transducer.Epsilon {
			w.push(n, tr.Target, n.lexicon, 1, tr.Weight, "", nil)
			continue
		}
		if out := w.speller.translate(tr.Output); out != transducer.NoSymbol {
			w.lexiconArcs(n, out, tr.Target, tr.Weight, 1)
		}
	}
}

// lexiconArcs pairs a mutator output with every lexicon arc reading it.
func (w *worker) lexiconArcs(n *treeNode, sym transducer.SymbolNumber, mutTarget transducer.TransitionTableIndex,
	mutWeight transducer.Weight, consumed uint32) {
	lex := w.speller.lexicon
	if !lex.HasTransitions(n.lexicon+1, sym) {
		return
	}
	j, ok := lex.Next(n.lexicon, sym)
	if !ok {
		return
	}
	alphabet := lex.Alphabet()
	for ; ; j++ {
		tr, ok := lex.TakeNonEpsilons(j, sym)
		if !ok {
			return
		}
		w.push(n, mutTarget, tr.Target, consumed, mutWeight+tr.Weight, alphabet.String(tr.Output), nil)
	}
}

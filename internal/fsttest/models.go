package fsttest

import (
	"sort"
)

// Lexicon builds a letter trie accepting each word with its weight as the
// final weight.
func Lexicon(words map[string]float32) *Builder {
	b := New()
	keys := make([]string, 0, len(words))
	for w := range words {
		keys = append(keys, w)
	}
	sort.Strings(keys)

	type edge struct {
		state int
		char  string
	}
	next := make(map[edge]int)
	for _, w := range keys {
		state := 0
		for _, r := range w {
			e := edge{state, string(r)}
			to, ok := next[e]
			if !ok {
				to = b.State()
				next[e] = to
				b.Arc(state, e.char, e.char, to, 0)
			}
			state = to
		}
		b.Final(state, words[w])
	}
	return b
}

// EditDistance builds a mutator over alphabet allowing up to maxEdits
// substitutions, deletions and insertions, each costing weight. Identity
// arcs are free.
func EditDistance(alphabet string, maxEdits int, weight float32) *Builder {
	b := New()
	chars := make([]string, 0, len(alphabet))
	for _, r := range alphabet {
		chars = append(chars, string(r))
		b.Symbol(string(r))
	}
	for e := 0; e <= maxEdits; e++ {
		b.Final(e, 0)
		for _, x := range chars {
			b.Arc(e, x, x, e, 0)
		}
		if e == maxEdits {
			continue
		}
		for _, x := range chars {
			for _, y := range chars {
				if x != y {
					b.Arc(e, x, y, e+1, weight)
				}
			}
			b.Arc(e, x, "", e+1, weight)
			b.Arc(e, "", x, e+1, weight)
		}
	}
	return b
}

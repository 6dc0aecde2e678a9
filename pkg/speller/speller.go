/*
Package speller produces ranked spelling suggestions from a lexicon
transducer and an error model (mutator) transducer.

A search walks both automata in lockstep. The mutator reads the input word
and proposes edits; each symbol it writes must be readable by the lexicon,
which accepts only valid word forms. Nodes are expanded cheapest first, so
suggestions are discovered in roughly ascending weight and the search can
stop early once the requested number of suggestions is certain.

	sp := speller.New(mutator, lexicon)
	for _, s := range sp.SuggestWithConfig("speling", speller.DefaultConfig()) {
		fmt.Println(s.Value, s.Weight)
	}

A Speller is immutable and safe for concurrent use; each call owns its
queue, node pool and seen set. There is no cancellation inside a single
search: bound it with Config.MaxWeight, Config.NBest and Config.Beam.
*/
package speller

import (
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/log"
)

// Speller combines a mutator and a lexicon transducer.
type Speller struct {
	mutator transducer.Transducer
	lexicon transducer.Transducer

	// translation maps mutator output symbols to lexicon input symbols
	translation []transducer.SymbolNumber
}

// New builds a speller. Mutator output symbols are matched to lexicon symbols
// by their strings once, here.
func New(mutator, lexicon transducer.Transducer) *Speller {
	s := &Speller{mutator: mutator, lexicon: lexicon}
	s.translation = buildTranslation(mutator.Alphabet(), lexicon.Alphabet())
	return s
}

func buildTranslation(from, to *transducer.Alphabet) []transducer.SymbolNumber {
	table := make([]transducer.SymbolNumber, from.Len())
	missing := 0
	for i := range table {
		sym := transducer.SymbolNumber(i)
		if sym == transducer.Epsilon {
			table[i] = transducer.Epsilon
			continue
		}
		str := from.String(sym)
		if str == "" {
			table[i] = transducer.NoSymbol
			continue
		}
		if target, ok := to.Symbol(str); ok {
			table[i] = target
		} else {
			table[i] = transducer.NoSymbol
			missing++
		}
	}
	if missing > 0 {
		log.Debugf("%d mutator symbols have no lexicon counterpart", missing)
	}
	return table
}

func (s *Speller) translate(sym transducer.SymbolNumber) transducer.SymbolNumber {
	if int(sym) >= len(s.translation) {
		return transducer.NoSymbol
	}
	return s.translation[sym]
}

// Mutator returns the error model transducer.
func (s *Speller) Mutator() transducer.Transducer {
	return s.mutator
}

// Lexicon returns the lexicon transducer.
func (s *Speller) Lexicon() transducer.Transducer {
	return s.lexicon
}

// Suggest runs SuggestWithConfig with DefaultConfig.
func (s *Speller) Suggest(input string) []Suggestion {
	return s.SuggestWithConfig(input, DefaultConfig())
}

// SuggestWithConfig returns suggestions for input sorted by ascending weight,
// ties in discovery order. An empty input, an input containing characters
// the error model does not know, or a search that finds nothing within the
// configured limits all return an empty result.
func (s *Speller) SuggestWithConfig(input string, cfg Config) []Suggestion {
	if input == "" {
		return []Suggestion{}
	}
	if !cfg.WithCaps {
		return s.search(input, cfg)
	}

	mode := detectCase(input)
	variants := caseVariants(input, mode)
	if len(variants) == 1 {
		return recaseAll(s.search(input, cfg), mode)
	}

	merged := newCollector()
	for _, v := range variants {
		for _, sug := range s.search(v, cfg) {
			merged.add(recase(sug.Value, mode), sug.Weight)
		}
	}
	return merged.results(cfg.limits())
}

func (s *Speller) search(input string, cfg Config) []Suggestion {
	syms, ok := s.mutator.Alphabet().Tokenize(input)
	if !ok {
		log.Debugf("Input %q has symbols outside the error model alphabet", input)
		return []Suggestion{}
	}
	out := newWorker(s, syms, cfg).run()
	if out == nil {
		return []Suggestion{}
	}
	return out
}

func recaseAll(in []Suggestion, mode caseMode) []Suggestion {
	if mode != caseFirstUpper && mode != caseAllUpper {
		return in
	}
	merged := newCollector()
	for _, sug := range in {
		merged.add(recase(sug.Value, mode), sug.Weight)
	}
	return merged.results(limits{})
}

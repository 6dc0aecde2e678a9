package speller

import (
	"encoding/binary"

	"github.com/bastiangx/fstspell/pkg/transducer"
)

// IsCorrect reports whether the lexicon accepts word as written, or in one of
// its case variants.
func (s *Speller) IsCorrect(word string) bool {
	return s.IsCorrectWithConfig(word, DefaultConfig())
}

// IsCorrectWithConfig is IsCorrect honouring cfg.WithCaps.
func (s *Speller) IsCorrectWithConfig(word string, cfg Config) bool {
	if word == "" {
		return false
	}
	variants := []string{word}
	if cfg.WithCaps {
		variants = caseVariants(word, detectCase(word))
	}
	for _, v := range variants {
		if s.accepts(v) {
			return true
		}
	}
	return false
}

type lookupState struct {
	state transducer.TransitionTableIndex
	pos   int
	flags transducer.FlagState
}

// accepts walks the lexicon alone, following epsilon and flag arcs.
func (s *Speller) accepts(word string) bool {
	lex := s.lexicon
	alphabet := lex.Alphabet()
	syms, ok := alphabet.Tokenize(word)
	if !ok {
		return false
	}

	type visitKey struct {
		state transducer.TransitionTableIndex
		pos   int
		flags string
	}
	visited := make(map[visitKey]bool)
	keyOf := func(st lookupState) visitKey {
		buf := make([]byte, 0, 2*len(st.flags))
		for _, f := range st.flags {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(f))
		}
		return visitKey{st.state, st.pos, string(buf)}
	}

	stack := []lookupState{{state: 0, pos: 0, flags: alphabet.NewFlagState()}}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		k := keyOf(st)
		if visited[k] {
			continue
		}
		visited[k] = true

		if st.pos == len(syms) && lex.IsFinal(st.state) {
			return true
		}

		if lex.HasEpsilonsOrFlags(st.state + 1) {
			if j, ok := lex.Next(st.state, transducer.Epsilon); ok {
				for ; ; j++ {
					tr, ok := lex.TakeEpsilonsAndFlags(j)
					if !ok {
						break
					}
					flags := st.flags
					if tr.Input != transducer.Epsilon {
						op, _ := alphabet.FlagOperation(tr.Input)
						if flags, ok = op.Apply(st.flags); !ok {
							continue
						}
					}
					stack = append(stack, lookupState{state: tr.Target, pos: st.pos, flags: flags})
				}
			}
		}

		if st.pos < len(syms) {
			sym := syms[st.pos]
			if !lex.HasTransitions(st.state+1, sym) {
				continue
			}
			j, ok := lex.Next(st.state, sym)
			if !ok {
				continue
			}
			for ; ; j++ {
				tr, ok := lex.TakeNonEpsilons(j, sym)
				if !ok {
					break
				}
				stack = append(stack, lookupState{state: tr.Target, pos: st.pos + 1, flags: st.flags})
			}
		}
	}
	return false
}

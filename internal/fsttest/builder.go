// Package fsttest writes small HFST optimized-lookup transducers for tests.
//
// Every state is laid out in the index table with one slot per symbol, so the
// files are larger than what hfst-fst2fst produces but exercise the same
// lookup rules.
package fsttest

import (
	"encoding/binary"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/bastiangx/fstspell/pkg/transducer"
)

// Arc is one transition. Empty In or Out strings mean epsilon.
type Arc struct {
	From   int
	In     string
	Out    string
	To     int
	Weight float32
}

// Builder accumulates states, arcs and final weights.
type Builder struct {
	symbols []string
	ids     map[string]transducer.SymbolNumber
	states  int
	finals  map[int]float32
	arcs    []Arc
}

// New returns a builder with only the epsilon symbol and the start state.
func New() *Builder {
	return &Builder{
		symbols: []string{transducer.EpsilonString},
		ids:     map[string]transducer.SymbolNumber{"": 0},
		states:  1,
		finals:  make(map[int]float32),
	}
}

// Symbol interns s and returns its number.
func (b *Builder) Symbol(s string) transducer.SymbolNumber {
	if id, ok := b.ids[s]; ok {
		return id
	}
	id := transducer.SymbolNumber(len(b.symbols))
	b.symbols = append(b.symbols, s)
	b.ids[s] = id
	return id
}

// State allocates a new state.
func (b *Builder) State() int {
	b.states++
	return b.states - 1
}

// Arc adds a transition, allocating states as needed.
func (b *Builder) Arc(from int, in, out string, to int, weight float32) *Builder {
	b.Symbol(in)
	b.Symbol(out)
	b.states = max(b.states, from+1, to+1)
	b.arcs = append(b.arcs, Arc{From: from, In: in, Out: out, To: to, Weight: weight})
	return b
}

// Final marks state as accepting with weight.
func (b *Builder) Final(state int, weight float32) *Builder {
	b.states = max(b.states, state+1)
	b.finals[state] = weight
	return b
}

func isFlag(s string) bool {
	return len(s) > 4 && s[0] == '@' && s[len(s)-1] == '@' && s[2] == '.' && strings.ContainsRune("PNRDCU", rune(s[1]))
}

// Bytes encodes the transducer in the monolithic HFST3 layout.
func (b *Builder) Bytes() []byte {
	nsym := len(b.symbols)
	stride := 1 + nsym
	base := func(state int) uint32 { return uint32(state * stride) }

	groupKey := func(a Arc) int {
		if a.In == "" || isFlag(a.In) {
			return 0
		}
		return int(b.ids[a.In])
	}
	byState := make([][]Arc, b.states)
	for _, a := range b.arcs {
		byState[a.From] = append(byState[a.From], a)
	}

	index := make([][2]uint32, b.states*stride)
	for i := range index {
		index[i] = [2]uint32{uint32(transducer.NoSymbol), uint32(transducer.NoTableIndex)}
	}
	var trans [][4]uint32

	for s := range b.states {
		if w, ok := b.finals[s]; ok {
			index[base(s)][1] = math.Float32bits(w)
		}
		arcs := byState[s]
		sort.SliceStable(arcs, func(i, j int) bool {
			ki, kj := groupKey(arcs[i]), groupKey(arcs[j])
			if ki != kj {
				return ki < kj
			}
			// plain epsilons before flags inside the epsilon group
			return arcs[i].In == "" && arcs[j].In != ""
		})
		for i := 0; i < len(arcs); {
			key := groupKey(arcs[i])
			start := len(trans)
			for ; i < len(arcs) && groupKey(arcs[i]) == key; i++ {
				a := arcs[i]
				trans = append(trans, [4]uint32{
					uint32(b.ids[a.In]), uint32(b.ids[a.Out]), base(a.To), math.Float32bits(a.Weight),
				})
			}
			trans = append(trans, [4]uint32{uint32(transducer.NoSymbol), uint32(transducer.NoSymbol), uint32(transducer.NoTableIndex), 0})
			index[int(base(s))+1+key] = [2]uint32{uint32(key), uint32(transducer.TargetTable) + uint32(start)}
		}
	}

	return encode(b.symbols, index, trans, b.states, len(b.arcs))
}

// Raw encodes hand-laid tables in the monolithic layout. Index records are
// (input, target) pairs and transition records are (input, output, target,
// weight bits), which lets tests place states in the transition table.
func Raw(symbols []string, index [][2]uint32, trans [][4]uint32) []byte {
	return encode(symbols, index, trans, 0, len(trans))
}

// RawBuild decodes Raw output, failing the test on error.
func RawBuild(t testing.TB, symbols []string, index [][2]uint32, trans [][4]uint32) *transducer.Hfst {
	t.Helper()
	h, err := transducer.NewHfst(Raw(symbols, index, trans))
	if err != nil {
		t.Fatalf("fsttest: decode raw transducer: %v", err)
	}
	return h
}

func encode(symbols []string, index [][2]uint32, trans [][4]uint32, states, arcs int) []byte {
	h := transducer.Header{
		InputSymbolCount: uint16(len(symbols)),
		SymbolCount:      uint16(len(symbols)),
		IndexTableSize:   uint32(len(index)),
		TargetTableSize:  uint32(len(trans)),
		StateCount:       uint32(states),
		TransitionCount:  uint32(arcs),
		Properties:       transducer.Properties{Weighted: true},
		Attributes:       map[string]string{"version": "3.3", "type": "HFST_OLW"},
	}
	out := h.AppendBinary(nil)
	for _, s := range symbols {
		out = append(out, s...)
		out = append(out, 0)
	}
	for _, rec := range index {
		out = binary.LittleEndian.AppendUint16(out, uint16(rec[0]))
		out = binary.LittleEndian.AppendUint32(out, rec[1])
	}
	for _, rec := range trans {
		out = binary.LittleEndian.AppendUint16(out, uint16(rec[0]))
		out = binary.LittleEndian.AppendUint16(out, uint16(rec[1]))
		out = binary.LittleEndian.AppendUint32(out, rec[2])
		out = binary.LittleEndian.AppendUint32(out, rec[3])
	}
	return out
}

// Build decodes the encoded transducer, failing the test on error.
func (b *Builder) Build(t testing.TB) *transducer.Hfst {
	t.Helper()
	h, err := transducer.NewHfst(b.Bytes())
	if err != nil {
		t.Fatalf("fsttest: decode built transducer: %v", err)
	}
	return h
}

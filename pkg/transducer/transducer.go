package transducer

// Transducer is the lookup capability set used by the speller. Positions
// below TargetTable are index table states; positions at or above it are
// transition table states. Next and the Take methods work on transition table
// indices relative to the start of that table.
type Transducer interface {
	Header() *Header
	Alphabet() *Alphabet
	IndexTable() *IndexTable
	TransitionTable() *TransitionTable

	// IsFinal reports whether state i accepts.
	IsFinal(i TransitionTableIndex) bool
	// FinalWeight returns the final weight of an accepting state i.
	FinalWeight(i TransitionTableIndex) Weight
	// HasTransitions reports whether slot i starts arcs on sym. Callers pass
	// state+1 for index table states.
	HasTransitions(i TransitionTableIndex, sym SymbolNumber) bool
	// HasEpsilonsOrFlags reports whether slot i starts epsilon or flag arcs.
	HasEpsilonsOrFlags(i TransitionTableIndex) bool
	// Next returns the first transition table record for sym leaving state i.
	Next(i TransitionTableIndex, sym SymbolNumber) (TransitionTableIndex, bool)
	// TakeEpsilons decodes record i when it is an epsilon arc.
	TakeEpsilons(i TransitionTableIndex) (Transition, bool)
	// TakeEpsilonsAndFlags decodes record i when it is an epsilon or flag arc.
	TakeEpsilonsAndFlags(i TransitionTableIndex) (Transition, bool)
	// TakeNonEpsilons decodes record i when its input is sym.
	TakeNonEpsilons(i TransitionTableIndex, sym SymbolNumber) (Transition, bool)

	// Close releases the backing memory held by the transducer.
	Close() error
}

// tables implements the lookup rules shared by every layout.
type tables struct {
	header      *Header
	alphabet    *Alphabet
	index       *IndexTable
	transitions *TransitionTable
}

func (t *tables) Header() *Header                   { return t.header }
func (t *tables) Alphabet() *Alphabet               { return t.alphabet }
func (t *tables) IndexTable() *IndexTable           { return t.index }
func (t *tables) TransitionTable() *TransitionTable { return t.transitions }

func (t *tables) IsFinal(i TransitionTableIndex) bool {
	if i >= TargetTable {
		return t.transitions.IsFinal(i - TargetTable)
	}
	return t.index.IsFinal(i)
}

func (t *tables) FinalWeight(i TransitionTableIndex) Weight {
	var (
		w  Weight
		ok bool
	)
	if i >= TargetTable {
		w, ok = t.transitions.Weight(i - TargetTable)
	} else {
		w, ok = t.index.FinalWeight(i)
	}
	if !ok {
		return 0
	}
	return w
}

func (t *tables) HasTransitions(i TransitionTableIndex, sym SymbolNumber) bool {
	if sym == NoSymbol {
		return false
	}
	var (
		in SymbolNumber
		ok bool
	)
	if i >= TargetTable {
		in, ok = t.transitions.InputSymbol(i - TargetTable)
	} else {
		in, ok = t.index.InputSymbol(i + TransitionTableIndex(sym))
	}
	return ok && in == sym
}

func (t *tables) HasEpsilonsOrFlags(i TransitionTableIndex) bool {
	if i >= TargetTable {
		in, ok := t.transitions.InputSymbol(i - TargetTable)
		return ok && (in == Epsilon || t.alphabet.IsFlag(in))
	}
	in, ok := t.index.InputSymbol(i)
	return ok && in == Epsilon
}

func (t *tables) Next(i TransitionTableIndex, sym SymbolNumber) (TransitionTableIndex, bool) {
	if i >= TargetTable {
		return i - TargetTable + 1, true
	}
	target, ok := t.index.Target(i + 1 + TransitionTableIndex(sym))
	if !ok || target < TargetTable {
		return 0, false
	}
	return target - TargetTable, true
}

func (t *tables) TakeEpsilons(i TransitionTableIndex) (Transition, bool) {
	tr, ok := t.transitions.Entry(i)
	if !ok || tr.Input != Epsilon {
		return Transition{}, false
	}
	return tr, true
}

func (t *tables) TakeEpsilonsAndFlags(i TransitionTableIndex) (Transition, bool) {
	tr, ok := t.transitions.Entry(i)
	if !ok || (tr.Input != Epsilon && !t.alphabet.IsFlag(tr.Input)) {
		return Transition{}, false
	}
	return tr, true
}

func (t *tables) TakeNonEpsilons(i TransitionTableIndex, sym SymbolNumber) (Transition, bool) {
	tr, ok := t.transitions.Entry(i)
	if !ok || tr.Input != sym || sym == NoSymbol {
		return Transition{}, false
	}
	return tr, true
}

package transducer

import (
	"fmt"
	"strings"
)

// FlagOperator is the operation letter of a flag diacritic.
type FlagOperator uint8

const (
	// FlagPositiveSet (@P.F.V@) sets feature F to V.
	FlagPositiveSet FlagOperator = iota
	// FlagNegativeSet (@N.F.V@) sets feature F to "anything but V".
	FlagNegativeSet
	// FlagRequire (@R.F.V@ / @R.F@) requires F to be V, or to be set at all.
	FlagRequire
	// FlagDisallow (@D.F.V@ / @D.F@) rejects F being V, or being set at all.
	FlagDisallow
	// FlagClear (@C.F@) unsets F.
	FlagClear
	// FlagUnify (@U.F.V@) sets F to V unless it is set incompatibly.
	FlagUnify
)

var flagOperators = map[byte]FlagOperator{
	'P': FlagPositiveSet,
	'N': FlagNegativeSet,
	'R': FlagRequire,
	'D': FlagDisallow,
	'C': FlagClear,
	'U': FlagUnify,
}

func (op FlagOperator) String() string {
	return string("PNRDCU"[op])
}

// FlagDiacriticOperation is a parsed flag symbol. Value 0 means no value.
type FlagDiacriticOperation struct {
	Operation FlagOperator
	Feature   uint16
	Value     int16
}

// FlagState holds the current value of every feature; 0 is unset and a
// negative value -v means "anything but v".
type FlagState []int16

// Apply checks the operation against state. When it passes and changes the
// state, the returned state is a copy; state itself is never modified.
func (op FlagDiacriticOperation) Apply(state FlagState) (FlagState, bool) {
	if int(op.Feature) >= len(state) {
		return state, false
	}
	cur := state[op.Feature]
	switch op.Operation {
	case FlagPositiveSet:
		return state.with(op.Feature, op.Value), true
	case FlagNegativeSet:
		return state.with(op.Feature, -op.Value), true
	case FlagRequire:
		if op.Value == 0 {
			return state, cur != 0
		}
		return state, cur == op.Value
	case FlagDisallow:
		if op.Value == 0 {
			return state, cur == 0
		}
		return state, cur != op.Value
	case FlagClear:
		return state.with(op.Feature, 0), true
	case FlagUnify:
		if cur == 0 || cur == op.Value || (cur < 0 && -cur != op.Value) {
			return state.with(op.Feature, op.Value), true
		}
		return state, false
	}
	return state, false
}

func (s FlagState) with(feature uint16, value int16) FlagState {
	if s[feature] == value {
		return s
	}
	next := make(FlagState, len(s))
	copy(next, s)
	next[feature] = value
	return next
}

// flagRegistry interns feature and value names while the alphabet is parsed.
type flagRegistry struct {
	features map[string]uint16
	values   map[string]int16
}

func newFlagRegistry() *flagRegistry {
	return &flagRegistry{
		features: make(map[string]uint16),
		values:   map[string]int16{"": 0},
	}
}

// parse recognises @X.FEATURE@ and @X.FEATURE.VALUE@ symbols.
func (r *flagRegistry) parse(symbol string) (FlagDiacriticOperation, bool) {
	if len(symbol) < 5 || symbol[0] != '@' || symbol[len(symbol)-1] != '@' || symbol[2] != '.' {
		return FlagDiacriticOperation{}, false
	}
	op, ok := flagOperators[symbol[1]]
	if !ok {
		return FlagDiacriticOperation{}, false
	}
	body := symbol[3 : len(symbol)-1]
	feature, value, _ := strings.Cut(body, ".")
	if feature == "" {
		return FlagDiacriticOperation{}, false
	}

	fid, ok := r.features[feature]
	if !ok {
		fid = uint16(len(r.features))
		r.features[feature] = fid
	}
	vid, ok := r.values[value]
	if !ok {
		vid = int16(len(r.values))
		r.values[value] = vid
	}
	return FlagDiacriticOperation{Operation: op, Feature: fid, Value: vid}, true
}

func (op FlagDiacriticOperation) String() string {
	return fmt.Sprintf("@%s.%d.%d@", op.Operation, op.Feature, op.Value)
}

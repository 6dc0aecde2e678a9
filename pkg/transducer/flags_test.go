package transducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagRegistry_Parse(t *testing.T) {
	r := newFlagRegistry()

	op, ok := r.parse("@P.CASE.NOM@")
	require.True(t, ok)
	assert.Equal(t, FlagPositiveSet, op.Operation)
	assert.Equal(t, uint16(0), op.Feature)
	assert.Equal(t, int16(1), op.Value)

	op, ok = r.parse("@R.CASE@")
	require.True(t, ok)
	assert.Equal(t, FlagRequire, op.Operation)
	assert.Equal(t, uint16(0), op.Feature)
	assert.Equal(t, int16(0), op.Value)

	op, ok = r.parse("@U.NUM.PL@")
	require.True(t, ok)
	assert.Equal(t, uint16(1), op.Feature)
	assert.Equal(t, int16(2), op.Value)

	for _, s := range []string{"a", "@", "@X.CASE@", "@P@", "@P.@", "P.CASE.NOM", "@_EPSILON_SYMBOL_@"} {
		_, ok := r.parse(s)
		assert.False(t, ok, s)
	}
}

func TestFlagDiacriticOperation_Apply(t *testing.T) {
	const nom, gen = 1, 2
	op := func(o FlagOperator, v int16) FlagDiacriticOperation {
		return FlagDiacriticOperation{Operation: o, Feature: 0, Value: v}
	}

	tests := []struct {
		name  string
		op    FlagDiacriticOperation
		state int16
		ok    bool
		after int16
	}{
		{"P sets", op(FlagPositiveSet, nom), 0, true, nom},
		{"P overrides", op(FlagPositiveSet, nom), gen, true, nom},
		{"N negates", op(FlagNegativeSet, nom), 0, true, -nom},
		{"R any set", op(FlagRequire, 0), gen, true, gen},
		{"R any unset", op(FlagRequire, 0), 0, false, 0},
		{"R value match", op(FlagRequire, nom), nom, true, nom},
		{"R value mismatch", op(FlagRequire, nom), gen, false, gen},
		{"D any unset", op(FlagDisallow, 0), 0, true, 0},
		{"D any set", op(FlagDisallow, 0), nom, false, nom},
		{"D value match", op(FlagDisallow, nom), nom, false, nom},
		{"D value other", op(FlagDisallow, nom), gen, true, gen},
		{"C clears", op(FlagClear, 0), nom, true, 0},
		{"U unset", op(FlagUnify, nom), 0, true, nom},
		{"U same", op(FlagUnify, nom), nom, true, nom},
		{"U conflict", op(FlagUnify, nom), gen, false, gen},
		{"U negated other", op(FlagUnify, nom), -gen, true, nom},
		{"U negated same", op(FlagUnify, nom), -nom, false, -nom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := FlagState{tt.state, 7}
			next, ok := tt.op.Apply(state)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.after, next[0])
			assert.Equal(t, int16(7), next[1])
			assert.Equal(t, tt.state, state[0], "input state must not change")
		})
	}
}

func TestFlagDiacriticOperation_UnknownFeature(t *testing.T) {
	op := FlagDiacriticOperation{Operation: FlagPositiveSet, Feature: 3, Value: 1}
	_, ok := op.Apply(FlagState{0})
	assert.False(t, ok)
}

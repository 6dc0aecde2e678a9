package transducer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSymbols() []string {
	return []string{EpsilonString, "a", "b", "ab", "@P.CASE.NOM@", "@R.CASE@", IdentityString, "č", "abc"}
}

func TestAlphabet_KeyTable(t *testing.T) {
	a := NewAlphabet(sampleSymbols())

	assert.Equal(t, 9, a.Len())
	assert.Equal(t, "", a.String(0))
	assert.Equal(t, "ab", a.String(3))
	assert.Equal(t, "", a.String(4), "flags have no surface form")
	assert.Equal(t, "", a.String(6))
	assert.Equal(t, "", a.String(NoSymbol))

	assert.True(t, a.IsFlag(4))
	assert.True(t, a.IsFlag(5))
	assert.False(t, a.IsFlag(1))
	assert.False(t, a.IsFlag(NoSymbol))
	assert.Equal(t, 1, a.FeatureCount())
	assert.Len(t, a.NewFlagState(), 1)

	op, ok := a.FlagOperation(5)
	require.True(t, ok)
	assert.Equal(t, FlagRequire, op.Operation)

	assert.Empty(t, a.String(6), "special symbols have no surface form")
	_, ok = a.Symbol(IdentityString)
	assert.False(t, ok)

	sym, ok := a.Symbol("č")
	require.True(t, ok)
	assert.Equal(t, SymbolNumber(7), sym)
	_, ok = a.Symbol("@P.CASE.NOM@")
	assert.False(t, ok)
}

func TestAlphabet_Tokenize(t *testing.T) {
	a := NewAlphabet(sampleSymbols())

	tests := []struct {
		input string
		want  []SymbolNumber
		ok    bool
	}{
		{"", []SymbolNumber{}, true},
		{"a", []SymbolNumber{1}, true},
		{"ab", []SymbolNumber{3}, true},
		{"abc", []SymbolNumber{8}, true},
		{"abb", []SymbolNumber{3, 2}, true},
		{"bač", []SymbolNumber{2, 1, 7}, true},
		{"abx", nil, false},
		{"x", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := a.Tokenize(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				var rendered strings.Builder
				for _, sym := range got {
					rendered.WriteString(a.String(sym))
				}
				assert.Equal(t, tt.input, rendered.String())
			}
		})
	}
}

func TestParseAlphabet(t *testing.T) {
	var buf []byte
	for _, s := range sampleSymbols() {
		buf = append(buf, s...)
		buf = append(buf, 0)
	}
	buf = append(buf, 0xAA, 0xBB)

	a, n, err := ParseAlphabet(buf, 9)
	require.NoError(t, err)
	assert.Equal(t, len(buf)-2, n)
	assert.Equal(t, sampleSymbols(), a.Symbols())

	_, _, err = ParseAlphabet(buf[:5], 9)
	assert.ErrorIs(t, err, ErrTruncated)
}

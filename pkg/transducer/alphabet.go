package transducer

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Special symbol names used by HFST.
const (
	EpsilonString  = "@_EPSILON_SYMBOL_@"
	IdentityString = "@_IDENTITY_SYMBOL_@"
	UnknownString  = "@_UNKNOWN_SYMBOL_@"
)

// Alphabet maps symbol numbers to surface strings and flag operations, and
// tokenizes input strings into symbols by longest match.
type Alphabet struct {
	symbols        []string
	keyTable       []string
	flagOps        []FlagDiacriticOperation
	isFlag         []bool
	featureCount   int
	stringToSymbol map[string]SymbolNumber
	tokens         *patricia.Trie
}

// NewAlphabet builds an alphabet from the raw symbol strings in table order.
func NewAlphabet(symbols []string) *Alphabet {
	a := &Alphabet{
		symbols:        symbols,
		keyTable:       make([]string, len(symbols)),
		flagOps:        make([]FlagDiacriticOperation, len(symbols)),
		isFlag:         make([]bool, len(symbols)),
		stringToSymbol: make(map[string]SymbolNumber, len(symbols)),
		tokens:         patricia.NewTrie(),
	}
	flags := newFlagRegistry()

	for i, s := range symbols {
		sym := SymbolNumber(i)
		switch {
		case i == 0 || s == EpsilonString || s == IdentityString || s == UnknownString:
			continue
		}
		if op, ok := flags.parse(s); ok {
			a.flagOps[i] = op
			a.isFlag[i] = true
			continue
		}
		a.keyTable[i] = s
		if _, dup := a.stringToSymbol[s]; dup {
			continue
		}
		a.stringToSymbol[s] = sym
		if s != "" {
			a.tokens.Insert(patricia.Prefix(s), sym)
		}
	}
	a.featureCount = len(flags.features)
	return a
}

// ParseAlphabet reads count NUL-terminated symbol strings from buf and
// returns the alphabet and the number of bytes consumed.
func ParseAlphabet(buf []byte, count uint16) (*Alphabet, int, error) {
	symbols := make([]string, 0, count)
	off := 0
	for range count {
		end := bytes.IndexByte(buf[off:], 0)
		if end < 0 {
			return nil, 0, fmt.Errorf("%w: alphabet symbol %d", ErrTruncated, len(symbols))
		}
		symbols = append(symbols, string(buf[off:off+end]))
		off += end + 1
	}
	a := NewAlphabet(symbols)
	log.Debugf("Parsed alphabet: %d symbols, %d flag features", len(symbols), a.featureCount)
	return a, off, nil
}

// Len returns the number of symbols.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// Symbols returns the raw symbol strings in table order.
func (a *Alphabet) Symbols() []string {
	return a.symbols
}

// String returns the surface string of sym: empty for epsilon, flags and
// special symbols.
func (a *Alphabet) String(sym SymbolNumber) string {
	if int(sym) >= len(a.keyTable) {
		return ""
	}
	return a.keyTable[sym]
}

// IsFlag reports whether sym is a flag diacritic.
func (a *Alphabet) IsFlag(sym SymbolNumber) bool {
	return int(sym) < len(a.isFlag) && a.isFlag[sym]
}

// FlagOperation returns the operation of a flag diacritic symbol.
func (a *Alphabet) FlagOperation(sym SymbolNumber) (FlagDiacriticOperation, bool) {
	if !a.IsFlag(sym) {
		return FlagDiacriticOperation{}, false
	}
	return a.flagOps[sym], true
}

// FeatureCount returns the number of distinct flag features.
func (a *Alphabet) FeatureCount() int {
	return a.featureCount
}

// NewFlagState returns an all-unset flag state sized for this alphabet.
func (a *Alphabet) NewFlagState() FlagState {
	return make(FlagState, a.featureCount)
}

// Symbol looks up the symbol whose surface string is s.
func (a *Alphabet) Symbol(s string) (SymbolNumber, bool) {
	sym, ok := a.stringToSymbol[s]
	return sym, ok
}

// Tokenize splits input into symbols, always taking the longest symbol that
// matches at the current position. It fails when some position matches no
// symbol.
func (a *Alphabet) Tokenize(input string) ([]SymbolNumber, bool) {
	out := make([]SymbolNumber, 0, len(input))
	for pos := 0; pos < len(input); {
		sym, n := a.longestMatch(input[pos:])
		if n == 0 {
			return nil, false
		}
		out = append(out, sym)
		pos += n
	}
	return out, true
}

func (a *Alphabet) longestMatch(s string) (SymbolNumber, int) {
	var (
		best    SymbolNumber
		bestLen int
	)
	_ = a.tokens.VisitPrefixes(patricia.Prefix(s), func(prefix patricia.Prefix, item patricia.Item) error {
		if len(prefix) > bestLen {
			bestLen = len(prefix)
			best = item.(SymbolNumber)
		}
		return nil
	})
	return best, bestLen
}

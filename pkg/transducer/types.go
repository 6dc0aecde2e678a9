/*
Package transducer decodes HFST optimized-lookup transducers from byte regions.

A transducer is stored as two flat record arrays. The index table maps a
state and an input symbol to the first matching transition; the transition
table holds the arcs themselves. Both are read in place from memory-mapped
files without copying, and every accessor reports absence instead of
failing: an index past the end of a table, or a slot holding a sentinel,
simply yields no value.

# Layouts

Two on-disk layouts are understood:

  - Monolithic HFST files (as found inside .zhfst archives): an optional
    HFST3 property header, a fixed header, the alphabet and both tables in
    one region. Index records are packed into 6 bytes.
  - Chunked directories written by ExportChunked: a msgpack meta file plus
    index-NN and transition-NN chunk files of fixed-size records. Index
    records are padded to 8 bytes.

All multi-byte values are little-endian. A table pointer at or above
TargetTable addresses the transition table; smaller pointers address the
index table.

# Flags

Flag diacritic symbols (@P.CASE.NOM@ and friends) are parsed from the
alphabet into FlagDiacriticOperation values and applied to a FlagState
during lookup.
*/
package transducer

import "math"

// SymbolNumber is an index into a transducer alphabet.
type SymbolNumber uint16

// TransitionTableIndex points into the index table, or into the transition
// table when it is at least TargetTable.
type TransitionTableIndex uint32

// Weight is an additive path cost. Lower is better.
type Weight float32

const (
	// NoSymbol marks an empty input or output slot.
	NoSymbol SymbolNumber = math.MaxUint16
	// NoTableIndex marks an empty target slot.
	NoTableIndex TransitionTableIndex = math.MaxUint32
	// TargetTable is the first pointer value that addresses the transition table.
	TargetTable TransitionTableIndex = 1 << 31
	// Epsilon is the empty symbol.
	Epsilon SymbolNumber = 0
)

const (
	// PackedIndexRecordSize is the index record stride of monolithic HFST files.
	PackedIndexRecordSize = 6
	// IndexRecordSize is the padded index record stride of chunk files.
	IndexRecordSize = 8
	// TransitionRecordSize is the transition record stride in every layout.
	TransitionRecordSize = 12
)

// Transition is one decoded transition table record.
type Transition struct {
	Input  SymbolNumber
	Output SymbolNumber
	Target TransitionTableIndex
	Weight Weight
}

// IsFinal reports whether the record encodes state finality rather than an arc.
func (t Transition) IsFinal() bool {
	return t.Input == NoSymbol && t.Output == NoSymbol && t.Target == 1
}

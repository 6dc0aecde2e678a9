package transducer

import "math"

// TransitionTable is a read-only view over 12-byte transition records
// (input u16, output u16, target u32, weight f32).
type TransitionTable struct {
	store recordStore
}

// NewTransitionTable decodes size transition records from data.
func NewTransitionTable(data []byte, size uint32) *TransitionTable {
	return &TransitionTable{store: newRecordStore([][]byte{data}, TransitionRecordSize, size)}
}

// NewChunkedTransitionTable decodes size transition records spread over chunks.
func NewChunkedTransitionTable(chunks [][]byte, size uint32) *TransitionTable {
	return &TransitionTable{store: newRecordStore(chunks, TransitionRecordSize, size)}
}

// Size returns the record count.
func (t *TransitionTable) Size() uint32 {
	return t.store.size
}

// InputSymbol returns the input symbol at i, absent for an empty slot.
func (t *TransitionTable) InputSymbol(i TransitionTableIndex) (SymbolNumber, bool) {
	return t.symbolAt(i, 0)
}

// OutputSymbol returns the output symbol at i, absent for an empty slot.
func (t *TransitionTable) OutputSymbol(i TransitionTableIndex) (SymbolNumber, bool) {
	return t.symbolAt(i, 2)
}

func (t *TransitionTable) symbolAt(i TransitionTableIndex, off int) (SymbolNumber, bool) {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return 0, false
	}
	sym := SymbolNumber(loadU16(rec, off))
	if sym == NoSymbol {
		return 0, false
	}
	return sym, true
}

// Target returns the target pointer at i, absent for an empty slot.
func (t *TransitionTable) Target(i TransitionTableIndex) (TransitionTableIndex, bool) {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return 0, false
	}
	target := TransitionTableIndex(loadU32(rec, 4))
	if target == NoTableIndex {
		return 0, false
	}
	return target, true
}

// Weight returns the arc weight at i, or the final weight of a finality record.
func (t *TransitionTable) Weight(i TransitionTableIndex) (Weight, bool) {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return 0, false
	}
	return loadF32(rec, 8), true
}

// IsFinal reports whether i is a finality record.
func (t *TransitionTable) IsFinal(i TransitionTableIndex) bool {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return false
	}
	return SymbolNumber(loadU16(rec, 0)) == NoSymbol &&
		SymbolNumber(loadU16(rec, 2)) == NoSymbol &&
		loadU32(rec, 4) == 1
}

// Entry decodes record i. Absent slots decode to their sentinels.
func (t *TransitionTable) Entry(i TransitionTableIndex) (Transition, bool) {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return Transition{Input: NoSymbol, Output: NoSymbol, Target: NoTableIndex}, false
	}
	return Transition{
		Input:  SymbolNumber(loadU16(rec, 0)),
		Output: SymbolNumber(loadU16(rec, 2)),
		Target: TransitionTableIndex(loadU32(rec, 4)),
		Weight: loadF32(rec, 8),
	}, true
}

// Serialize writes the table as transition-NN chunk files of chunkSize bytes
// into dir and returns the number of chunks written.
func (t *TransitionTable) Serialize(chunkSize int, dir string) (int, error) {
	return writeChunks(dir, "transition", chunkSize, TransitionRecordSize, t.store.size, func(i uint32, rec []byte) {
		tr, _ := t.Entry(TransitionTableIndex(i))
		putU16(rec[0:], uint16(tr.Input))
		putU16(rec[2:], uint16(tr.Output))
		putU32(rec[4:], uint32(tr.Target))
		putU32(rec[8:], math.Float32bits(float32(tr.Weight)))
	})
}

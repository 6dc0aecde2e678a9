package transducer

// EntryKind tags a decoded index table record.
type EntryKind uint8

const (
	// EntryAbsent is an out-of-range index or an empty slot.
	EntryAbsent EntryKind = iota
	// EntryTransition is a populated slot: input symbol plus transition pointer.
	EntryTransition
	// EntryFinal is a finality record carrying the final weight.
	EntryFinal
)

// IndexEntry is one index table record decoded once.
type IndexEntry struct {
	Kind   EntryKind
	Symbol SymbolNumber
	Target TransitionTableIndex
	Weight Weight
}

// IndexTable is a read-only view over index table records.
type IndexTable struct {
	store recordStore
}

// NewIndexTable decodes size packed (monolithic HFST) index records from data.
func NewIndexTable(data []byte, size uint32) *IndexTable {
	return &IndexTable{store: newRecordStore([][]byte{data}, PackedIndexRecordSize, size)}
}

// NewChunkedIndexTable decodes size padded index records spread over chunks.
func NewChunkedIndexTable(chunks [][]byte, size uint32) *IndexTable {
	return &IndexTable{store: newRecordStore(chunks, IndexRecordSize, size)}
}

// Size returns the record count.
func (t *IndexTable) Size() uint32 {
	return t.store.size
}

// InputSymbol returns the input symbol at i, absent for an empty slot.
func (t *IndexTable) InputSymbol(i TransitionTableIndex) (SymbolNumber, bool) {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return 0, false
	}
	sym := SymbolNumber(loadU16(rec, 0))
	if sym == NoSymbol {
		return 0, false
	}
	return sym, true
}

// Target returns the transition pointer at i, absent for an empty slot.
func (t *IndexTable) Target(i TransitionTableIndex) (TransitionTableIndex, bool) {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return 0, false
	}
	target := TransitionTableIndex(loadU32(rec, t.store.stride-4))
	if target == NoTableIndex {
		return 0, false
	}
	return target, true
}

// FinalWeight reinterprets the target slot at i as a weight. Only meaningful
// when IsFinal(i).
func (t *IndexTable) FinalWeight(i TransitionTableIndex) (Weight, bool) {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return 0, false
	}
	return loadF32(rec, t.store.stride-4), true
}

// IsFinal reports whether i is a finality record.
func (t *IndexTable) IsFinal(i TransitionTableIndex) bool {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return false
	}
	return SymbolNumber(loadU16(rec, 0)) == NoSymbol &&
		TransitionTableIndex(loadU32(rec, t.store.stride-4)) != NoTableIndex
}

// Entry decodes record i once into its tagged form.
func (t *IndexTable) Entry(i TransitionTableIndex) IndexEntry {
	rec := t.store.record(uint32(i))
	if rec == nil {
		return IndexEntry{Kind: EntryAbsent}
	}
	sym := SymbolNumber(loadU16(rec, 0))
	raw := loadU32(rec, t.store.stride-4)
	switch {
	case sym != NoSymbol:
		return IndexEntry{Kind: EntryTransition, Symbol: sym, Target: TransitionTableIndex(raw)}
	case TransitionTableIndex(raw) == NoTableIndex:
		return IndexEntry{Kind: EntryAbsent}
	default:
		return IndexEntry{Kind: EntryFinal, Target: TransitionTableIndex(raw), Weight: loadF32(rec, t.store.stride-4)}
	}
}

// Serialize writes the table as index-NN chunk files of chunkSize bytes into
// dir and returns the number of chunks written. Records are written padded to
// IndexRecordSize; absent fields are written as their sentinels.
func (t *IndexTable) Serialize(chunkSize int, dir string) (int, error) {
	return writeChunks(dir, "index", chunkSize, IndexRecordSize, t.store.size, func(i uint32, rec []byte) {
		sym, ok := t.InputSymbol(TransitionTableIndex(i))
		if !ok {
			sym = NoSymbol
		}
		putU16(rec[0:], uint16(sym))
		putU16(rec[2:], 0)
		raw := uint32(NoTableIndex)
		if src := t.store.record(i); src != nil {
			raw = loadU32(src, t.store.stride-4)
		}
		putU32(rec[4:], raw)
	})
}

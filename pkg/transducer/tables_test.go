package transducer

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packIndex(recs ...[2]uint32) []byte {
	var out []byte
	for _, r := range recs {
		out = binary.LittleEndian.AppendUint16(out, uint16(r[0]))
		out = binary.LittleEndian.AppendUint32(out, r[1])
	}
	return out
}

func packTransitions(recs ...Transition) []byte {
	var out []byte
	for _, r := range recs {
		out = binary.LittleEndian.AppendUint16(out, uint16(r.Input))
		out = binary.LittleEndian.AppendUint16(out, uint16(r.Output))
		out = binary.LittleEndian.AppendUint32(out, uint32(r.Target))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(r.Weight)))
	}
	return out
}

const (
	noSym = uint32(NoSymbol)
	noTgt = uint32(NoTableIndex)
)

func sampleIndexTable() *IndexTable {
	data := packIndex(
		[2]uint32{noSym, math.Float32bits(0)},
		[2]uint32{0, uint32(TargetTable)},
		[2]uint32{noSym, noTgt},
		[2]uint32{2, uint32(TargetTable) + 7},
		[2]uint32{noSym, math.Float32bits(2.5)},
		[2]uint32{7, 0},
		[2]uint32{noSym, 0x80000000},
	)
	return NewIndexTable(data, 7)
}

func readChunks(t *testing.T, dir, prefix string, n int) [][]byte {
	t.Helper()
	chunks := make([][]byte, n)
	for i := range n {
		data, err := os.ReadFile(filepath.Join(dir, ChunkFileName(prefix, i+1)))
		require.NoError(t, err)
		chunks[i] = data
	}
	return chunks
}

func TestIndexTable_OutOfRangeIsAbsent(t *testing.T) {
	table := sampleIndexTable()
	for _, i := range []TransitionTableIndex{7, 8, 100, TargetTable, NoTableIndex} {
		_, ok := table.InputSymbol(i)
		assert.False(t, ok, "input symbol at %d", i)
		_, ok = table.Target(i)
		assert.False(t, ok, "target at %d", i)
		_, ok = table.FinalWeight(i)
		assert.False(t, ok, "final weight at %d", i)
		assert.False(t, table.IsFinal(i))
		assert.Equal(t, EntryAbsent, table.Entry(i).Kind)
	}
}

func TestIndexTable_SizeShorterThanData(t *testing.T) {
	data := packIndex([2]uint32{1, 10}, [2]uint32{2, 20})
	table := NewIndexTable(data, 1)

	_, ok := table.InputSymbol(1)
	assert.False(t, ok)

	sym, ok := table.InputSymbol(0)
	require.True(t, ok)
	assert.Equal(t, SymbolNumber(1), sym)
}

func TestIndexTable_TruncatedDataIsAbsent(t *testing.T) {
	data := packIndex([2]uint32{1, 10})
	table := NewIndexTable(data[:4], 1)

	_, ok := table.InputSymbol(0)
	assert.False(t, ok)
	assert.False(t, table.IsFinal(0))
}

func TestIndexTable_Entries(t *testing.T) {
	table := sampleIndexTable()

	tests := []struct {
		name   string
		i      TransitionTableIndex
		kind   EntryKind
		symbol SymbolNumber
		target TransitionTableIndex
		weight Weight
	}{
		{name: "final with zero weight", i: 0, kind: EntryFinal, weight: 0},
		{name: "epsilon slot", i: 1, kind: EntryTransition, symbol: 0, target: TargetTable},
		{name: "empty slot", i: 2, kind: EntryAbsent},
		{name: "symbol slot", i: 3, kind: EntryTransition, symbol: 2, target: TargetTable + 7},
		{name: "final with weight", i: 4, kind: EntryFinal, weight: 2.5},
		{name: "symbol with zero target", i: 5, kind: EntryTransition, symbol: 7, target: 0},
		{name: "negative zero final", i: 6, kind: EntryFinal, weight: Weight(math.Float32frombits(0x80000000))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := table.Entry(tt.i)
			assert.Equal(t, tt.kind, e.Kind)
			switch tt.kind {
			case EntryTransition:
				assert.Equal(t, tt.symbol, e.Symbol)
				assert.Equal(t, tt.target, e.Target)
				assert.False(t, table.IsFinal(tt.i))
			case EntryFinal:
				assert.True(t, table.IsFinal(tt.i))
				w, ok := table.FinalWeight(tt.i)
				require.True(t, ok)
				assert.Equal(t, tt.weight, w)
				assert.Equal(t, tt.weight, e.Weight)
			default:
				assert.False(t, table.IsFinal(tt.i))
			}
		})
	}
}

func TestIndexTable_IsFinalDefinition(t *testing.T) {
	table := sampleIndexTable()
	for i := TransitionTableIndex(0); i < TransitionTableIndex(table.Size()); i++ {
		_, hasSym := table.InputSymbol(i)
		_, hasTarget := table.Target(i)
		assert.Equal(t, !hasSym && hasTarget, table.IsFinal(i), "index %d", i)
	}
}

// Final weights are only confused with the empty-target sentinel when every
// bit is set, which is a NaN and never a valid weight.
func TestIndexTable_FinalWeightBoundaries(t *testing.T) {
	weights := []uint32{
		math.Float32bits(0),
		0x80000000,
		1,
		math.Float32bits(math.SmallestNonzeroFloat32),
		math.Float32bits(math.MaxFloat32),
		math.Float32bits(float32(math.Inf(1))),
		0x7FC00000,
		0xFFFFFFFE,
	}
	for _, bits := range weights {
		table := NewIndexTable(packIndex([2]uint32{noSym, bits}), 1)
		assert.True(t, table.IsFinal(0), "bits %#x", bits)
		w, ok := table.FinalWeight(0)
		require.True(t, ok)
		assert.Equal(t, bits, math.Float32bits(float32(w)))
	}

	table := NewIndexTable(packIndex([2]uint32{noSym, 0xFFFFFFFF}), 1)
	assert.False(t, table.IsFinal(0))
}

func TestIndexTable_SerializeRoundTrip(t *testing.T) {
	table := sampleIndexTable()

	for _, chunkSize := range []int{8, 16, 24, 56, 800} {
		dir := t.TempDir()
		n, err := table.Serialize(chunkSize, dir)
		require.NoError(t, err)

		records := chunkSize / IndexRecordSize
		want := (int(table.Size()) + records - 1) / records
		require.Equal(t, want, n, "chunk size %d", chunkSize)

		chunks := readChunks(t, dir, "index", n)
		for i, c := range chunks {
			if i < n-1 {
				assert.Len(t, c, chunkSize)
			} else {
				assert.Len(t, c, int(table.Size())*IndexRecordSize-(n-1)*chunkSize)
			}
		}
		assert.NoFileExists(t, filepath.Join(dir, ChunkFileName("index", n+1)))

		reread := NewChunkedIndexTable(chunks, table.Size())
		for i := TransitionTableIndex(0); i < TransitionTableIndex(table.Size())+2; i++ {
			s1, ok1 := table.InputSymbol(i)
			s2, ok2 := reread.InputSymbol(i)
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, s1, s2)

			t1, ok1 := table.Target(i)
			t2, ok2 := reread.Target(i)
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, t1, t2)
			assert.Equal(t, table.Entry(i), reread.Entry(i))
		}
	}
}

func TestIndexTable_SerializePadsRecords(t *testing.T) {
	table := NewIndexTable(packIndex([2]uint32{0x0102, 0x03040506}), 1)
	dir := t.TempDir()
	_, err := table.Serialize(8, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "index-01"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x01, 0, 0, 0x06, 0x05, 0x04, 0x03}, data)
}

func TestIndexTable_SerializeRejectsChunkSize(t *testing.T) {
	table := sampleIndexTable()
	for _, size := range []int{0, -8, 4, 12, 20, 6} {
		dir := filepath.Join(t.TempDir(), "out")
		n, err := table.Serialize(size, dir)
		assert.ErrorIs(t, err, ErrInvalidChunkSize, "size %d", size)
		assert.Zero(t, n)
		assert.NoDirExists(t, dir)
	}
}

func TestIndexTable_SerializeEmpty(t *testing.T) {
	dir := t.TempDir()
	n, err := NewIndexTable(nil, 0).Serialize(8, dir)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func sampleTransitionTable() *TransitionTable {
	data := packTransitions(
		Transition{Input: NoSymbol, Output: NoSymbol, Target: 1, Weight: 0.75},
		Transition{Input: 3, Output: 4, Target: 12, Weight: 1.5},
		Transition{Input: 0, Output: 0, Target: TargetTable + 2, Weight: 0},
		Transition{Input: NoSymbol, Output: NoSymbol, Target: NoTableIndex},
		Transition{Input: NoSymbol, Output: NoSymbol, Target: 2},
	)
	return NewTransitionTable(data, 5)
}

func TestTransitionTable_Accessors(t *testing.T) {
	table := sampleTransitionTable()

	assert.True(t, table.IsFinal(0))
	w, ok := table.Weight(0)
	require.True(t, ok)
	assert.Equal(t, Weight(0.75), w)

	in, ok := table.InputSymbol(1)
	require.True(t, ok)
	assert.Equal(t, SymbolNumber(3), in)
	out, ok := table.OutputSymbol(1)
	require.True(t, ok)
	assert.Equal(t, SymbolNumber(4), out)
	target, ok := table.Target(1)
	require.True(t, ok)
	assert.Equal(t, TransitionTableIndex(12), target)
	assert.False(t, table.IsFinal(1))

	_, ok = table.Target(3)
	assert.False(t, ok)
	assert.False(t, table.IsFinal(3))
	assert.False(t, table.IsFinal(4), "finality needs target 1")

	for _, i := range []TransitionTableIndex{5, 6, NoTableIndex} {
		_, ok := table.InputSymbol(i)
		assert.False(t, ok)
		_, ok = table.OutputSymbol(i)
		assert.False(t, ok)
		_, ok = table.Target(i)
		assert.False(t, ok)
		_, ok = table.Weight(i)
		assert.False(t, ok)
		_, ok = table.Entry(i)
		assert.False(t, ok)
	}
}

func TestTransitionTable_SerializeRoundTrip(t *testing.T) {
	table := sampleTransitionTable()
	dir := t.TempDir()

	n, err := table.Serialize(24, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	reread := NewChunkedTransitionTable(readChunks(t, dir, "transition", n), table.Size())
	for i := TransitionTableIndex(0); i < 6; i++ {
		e1, ok1 := table.Entry(i)
		e2, ok2 := reread.Entry(i)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, e1, e2)
		assert.Equal(t, table.IsFinal(i), reread.IsFinal(i))
	}
}

func TestTransitionTable_SerializeRejectsChunkSize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := sampleTransitionTable().Serialize(8, dir)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)
	assert.NoDirExists(t, dir)
}

func TestDecodePath(t *testing.T) {
	assert.Equal(t, "cursor", DecodePath())
}

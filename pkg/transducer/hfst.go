package transducer

import (
	"fmt"

	"github.com/bastiangx/fstspell/internal/mmap"
	"github.com/charmbracelet/log"
)

// Hfst is a monolithic HFST optimized-lookup transducer read from a single
// byte region.
type Hfst struct {
	tables
	owner *mmap.Mapping
}

var _ Transducer = (*Hfst)(nil)

// NewHfst decodes a transducer from data. The slice must stay valid for the
// lifetime of the transducer.
func NewHfst(data []byte) (*Hfst, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	off := h.Size()

	alphabet, n, err := ParseAlphabet(data[off:], h.SymbolCount)
	if err != nil {
		return nil, err
	}
	off += n

	indexBytes := int(h.IndexTableSize) * PackedIndexRecordSize
	transBytes := int(h.TargetTableSize) * TransitionRecordSize
	if len(data) < off+indexBytes+transBytes {
		return nil, fmt.Errorf("%w: tables need %d bytes, have %d", ErrTruncated, indexBytes+transBytes, len(data)-off)
	}

	t := &Hfst{tables: tables{
		header:      h,
		alphabet:    alphabet,
		index:       NewIndexTable(data[off:off+indexBytes], h.IndexTableSize),
		transitions: NewTransitionTable(data[off+indexBytes:off+indexBytes+transBytes], h.TargetTableSize),
	}}
	log.Debugf("Decoded HFST transducer: %d states, %d transitions, %d index records (%s decode)",
		h.StateCount, h.TransitionCount, h.IndexTableSize, DecodePath())
	return t, nil
}

// NewHfstFromRegion decodes a transducer from a region of a mapping and holds
// a reference to the mapping until Close.
func NewHfstFromRegion(r *mmap.Region) (*Hfst, error) {
	if err := r.Parent().Retain(); err != nil {
		return nil, err
	}
	t, err := NewHfst(r.Bytes())
	if err != nil {
		r.Parent().Release()
		return nil, err
	}
	t.owner = r.Parent()
	return t, nil
}

// OpenHfst maps a .hfst file and decodes it.
func OpenHfst(path string) (*Hfst, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	defer m.Release()
	_ = m.Advise(mmap.AccessRandom)

	r, err := m.Region(0, m.Size())
	if err != nil {
		return nil, err
	}
	t, err := NewHfstFromRegion(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return t, nil
}

// Close releases the backing mapping, if the transducer holds one.
func (t *Hfst) Close() error {
	if t.owner == nil {
		return nil
	}
	owner := t.owner
	t.owner = nil
	return owner.Release()
}

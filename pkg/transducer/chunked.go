package transducer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/fstspell/internal/mmap"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// MetaFileName is the name of the chunked layout descriptor.
const MetaFileName = "meta"

const chunkLayoutVersion = 1

// chunkMeta is the msgpack document stored next to the chunk files.
type chunkMeta struct {
	Version             int      `msgpack:"version"`
	Header              *Header  `msgpack:"header"`
	Symbols             []string `msgpack:"symbols"`
	IndexChunkSize      int      `msgpack:"index_chunk_size"`
	TransitionChunkSize int      `msgpack:"transition_chunk_size"`
	IndexChunks         int      `msgpack:"index_chunks"`
	TransitionChunks    int      `msgpack:"transition_chunks"`
}

// Chunked is a transducer whose tables are split across fixed-size chunk
// files, each memory-mapped on open.
type Chunked struct {
	tables
	mappings []*mmap.Mapping
}

var _ Transducer = (*Chunked)(nil)

// ExportChunked writes t into dir as a chunked transducer: index-NN and
// transition-NN chunk files plus a meta descriptor. Both chunk sizes are
// validated before anything is written.
func ExportChunked(t Transducer, dir string, indexChunkSize, transitionChunkSize int) error {
	if indexChunkSize <= 0 || indexChunkSize%IndexRecordSize != 0 {
		return fmt.Errorf("%w: index chunk size %d is not a positive multiple of %d", ErrInvalidChunkSize, indexChunkSize, IndexRecordSize)
	}
	if transitionChunkSize <= 0 || transitionChunkSize%TransitionRecordSize != 0 {
		return fmt.Errorf("%w: transition chunk size %d is not a positive multiple of %d", ErrInvalidChunkSize, transitionChunkSize, TransitionRecordSize)
	}

	indexChunks, err := t.IndexTable().Serialize(indexChunkSize, dir)
	if err != nil {
		return fmt.Errorf("export index table: %w", err)
	}
	transitionChunks, err := t.TransitionTable().Serialize(transitionChunkSize, dir)
	if err != nil {
		return fmt.Errorf("export transition table: %w", err)
	}

	meta := chunkMeta{
		Version:             chunkLayoutVersion,
		Header:              t.Header(),
		Symbols:             t.Alphabet().Symbols(),
		IndexChunkSize:      indexChunkSize,
		TransitionChunkSize: transitionChunkSize,
		IndexChunks:         indexChunks,
		TransitionChunks:    transitionChunks,
	}
	data, err := msgpack.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("encode chunk meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetaFileName), data, 0o644); err != nil {
		return fmt.Errorf("write chunk meta: %w", err)
	}
	log.Debugf("Exported chunked transducer to %s (%d index, %d transition chunks)", dir, indexChunks, transitionChunks)
	return nil
}

// IsChunkedDir reports whether dir holds a chunked transducer.
func IsChunkedDir(dir string) bool {
	st, err := os.Stat(filepath.Join(dir, MetaFileName))
	return err == nil && st.Mode().IsRegular()
}

// OpenChunked maps the chunk files in dir.
func OpenChunked(dir string) (*Chunked, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFileName))
	if err != nil {
		return nil, fmt.Errorf("read chunk meta: %w", err)
	}
	var meta chunkMeta
	if err := msgpack.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: chunk meta: %v", ErrBadHeader, err)
	}
	if meta.Version != chunkLayoutVersion || meta.Header == nil {
		return nil, fmt.Errorf("%w: unsupported chunk layout version %d", ErrBadHeader, meta.Version)
	}
	if len(meta.Symbols) != int(meta.Header.SymbolCount) {
		return nil, fmt.Errorf("%w: %d symbols, header says %d", ErrBadHeader, len(meta.Symbols), meta.Header.SymbolCount)
	}

	c := &Chunked{}
	indexRegions, err := c.mapChunks(dir, "index", meta.IndexChunkSize, IndexRecordSize, meta.Header.IndexTableSize)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	transRegions, err := c.mapChunks(dir, "transition", meta.TransitionChunkSize, TransitionRecordSize, meta.Header.TargetTableSize)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}

	c.tables = tables{
		header:      meta.Header,
		alphabet:    NewAlphabet(meta.Symbols),
		index:       NewChunkedIndexTable(indexRegions, meta.Header.IndexTableSize),
		transitions: NewChunkedTransitionTable(transRegions, meta.Header.TargetTableSize),
	}
	log.Debugf("Opened chunked transducer %s: %d index chunks, %d transition chunks", dir, len(indexRegions), len(transRegions))
	return c, nil
}

// mapChunks maps every chunk of one table and checks it against the geometry
// recorded in the meta file.
func (c *Chunked) mapChunks(dir, prefix string, chunkSize, recordSize int, records uint32) ([][]byte, error) {
	if chunkSize <= 0 || chunkSize%recordSize != 0 {
		return nil, fmt.Errorf("%w: %s chunk size %d", ErrBadChunks, prefix, chunkSize)
	}
	paths, err := listChunks(dir, prefix)
	if err != nil {
		return nil, err
	}
	total := int64(records) * int64(recordSize)
	want := int((total + int64(chunkSize) - 1) / int64(chunkSize))
	if len(paths) != want {
		return nil, fmt.Errorf("%w: %d %s chunks, expected %d", ErrBadChunks, len(paths), prefix, want)
	}

	regions := make([][]byte, 0, len(paths))
	for i, p := range paths {
		m, err := mmap.Open(p)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", p, err)
		}
		c.mappings = append(c.mappings, m)
		_ = m.Advise(mmap.AccessRandom)

		size := int64(chunkSize)
		if i == len(paths)-1 {
			size = total - int64(i)*int64(chunkSize)
		}
		if int64(m.Size()) != size {
			return nil, fmt.Errorf("%w: %s is %d bytes, expected %d", ErrBadChunks, p, m.Size(), size)
		}
		regions = append(regions, m.Bytes())
	}
	return regions, nil
}

// Close releases every chunk mapping.
func (c *Chunked) Close() error {
	var errs []error
	for _, m := range c.mappings {
		if err := m.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	c.mappings = nil
	return errors.Join(errs...)
}

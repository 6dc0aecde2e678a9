package transducer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

func putU16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// ChunkFileName returns the name of the 1-based chunk n of a table.
func ChunkFileName(prefix string, n int) string {
	return fmt.Sprintf("%s-%02d", prefix, n)
}

// writeChunks writes count records of recordSize bytes into files named
// prefix-01, prefix-02, ... holding chunkSize bytes each. The chunk size is
// checked before anything touches the filesystem.
func writeChunks(dir, prefix string, chunkSize, recordSize int, count uint32, fill func(i uint32, rec []byte)) (int, error) {
	if chunkSize <= 0 || chunkSize%recordSize != 0 {
		return 0, fmt.Errorf("%w: %d is not a positive multiple of %d", ErrInvalidChunkSize, chunkSize, recordSize)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create chunk directory %s: %w", dir, err)
	}

	perChunk := uint32(chunkSize / recordSize)
	chunks := int((uint64(count) + uint64(perChunk) - 1) / uint64(perChunk))
	rec := make([]byte, recordSize)

	for c := range chunks {
		start := uint32(c) * perChunk
		end := min(start+perChunk, count)
		path := filepath.Join(dir, ChunkFileName(prefix, c+1))
		if err := writeChunkFile(path, start, end, rec, fill); err != nil {
			return c, err
		}
	}
	log.Debugf("Wrote %d %s chunks (%d records) to %s", chunks, prefix, count, dir)
	return chunks, nil
}

func writeChunkFile(path string, start, end uint32, rec []byte, fill func(uint32, []byte)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunk %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for i := start; i < end; i++ {
		fill(i, rec)
		if _, err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write chunk %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush chunk %s: %w", path, err)
	}
	return f.Close()
}

// listChunks returns the chunk files of a table in numeric order.
func listChunks(dir, prefix string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"-*"))
	if err != nil {
		return nil, err
	}
	type numbered struct {
		n    int
		path string
	}
	files := make([]numbered, 0, len(matches))
	for _, m := range matches {
		var n int
		if _, err := fmt.Sscanf(filepath.Base(m), prefix+"-%d", &n); err != nil || n < 1 {
			log.Debugf("Skipping unrecognised chunk file %s", m)
			continue
		}
		files = append(files, numbered{n: n, path: m})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })

	paths := make([]string, len(files))
	for i, f := range files {
		if f.n != i+1 {
			return nil, fmt.Errorf("%w: %s chunk %d missing", ErrBadChunks, prefix, i+1)
		}
		paths[i] = f.path
	}
	return paths, nil
}

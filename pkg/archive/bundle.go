package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/log"
)

// Bundle layout.
const (
	BundleMetaFile = "meta.toml"
	LexiconDir     = "lexicon"
	MutatorDir     = "mutator"
)

// BundleArchive is a speller loaded from a bundle directory.
type BundleArchive struct {
	pair
	dir string
}

// OpenBundle maps the chunked lexicon and mutator in dir. A missing
// meta.toml leaves Metadata nil.
func OpenBundle(dir string) (*BundleArchive, error) {
	var meta *SpellerMetadata
	metaPath := filepath.Join(dir, BundleMetaFile)
	if _, err := os.Stat(metaPath); err == nil {
		meta = &SpellerMetadata{}
		if _, err := toml.DecodeFile(metaPath, meta); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMetadata, metaPath, err)
		}
	}

	lexicon, err := transducer.OpenChunked(filepath.Join(dir, LexiconDir))
	if err != nil {
		return nil, fmt.Errorf("open bundle lexicon: %w", err)
	}
	mutator, err := transducer.OpenChunked(filepath.Join(dir, MutatorDir))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open bundle mutator: %w", err), lexicon.Close())
	}

	log.Debugf("Opened speller bundle %s", dir)
	return &BundleArchive{pair: newPair(lexicon, mutator, meta), dir: dir}, nil
}

// Dir returns the bundle directory.
func (b *BundleArchive) Dir() string {
	return b.dir
}

// ExportBundle writes the speller held by a as a bundle in dir. Chunk sizes
// are checked before anything is created.
func ExportBundle(a SpellerArchive, dir string, indexChunkSize, transitionChunkSize int) error {
	if indexChunkSize <= 0 || indexChunkSize%transducer.IndexRecordSize != 0 {
		return fmt.Errorf("%w: index chunk size %d", transducer.ErrInvalidChunkSize, indexChunkSize)
	}
	if transitionChunkSize <= 0 || transitionChunkSize%transducer.TransitionRecordSize != 0 {
		return fmt.Errorf("%w: transition chunk size %d", transducer.ErrInvalidChunkSize, transitionChunkSize)
	}

	sp := a.Speller()
	if err := transducer.ExportChunked(sp.Lexicon(), filepath.Join(dir, LexiconDir), indexChunkSize, transitionChunkSize); err != nil {
		return fmt.Errorf("export lexicon: %w", err)
	}
	if err := transducer.ExportChunked(sp.Mutator(), filepath.Join(dir, MutatorDir), indexChunkSize, transitionChunkSize); err != nil {
		return fmt.Errorf("export mutator: %w", err)
	}

	if meta := a.Metadata(); meta != nil {
		f, err := os.Create(filepath.Join(dir, BundleMetaFile))
		if err != nil {
			return fmt.Errorf("create %s: %w", BundleMetaFile, err)
		}
		if err := toml.NewEncoder(f).Encode(meta); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", BundleMetaFile, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	log.Infof("Exported speller bundle to %s", dir)
	return nil
}

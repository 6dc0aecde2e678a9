package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/fstspell/internal/mmap"
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
)

// ZhfstArchive is a speller loaded from a zhfst zip archive. Stored members
// are decoded in place from the archive mapping; compressed members are
// inflated into memory.
type ZhfstArchive struct {
	pair
	path string
}

// OpenZhfst maps the archive at path and loads its acceptor and error model.
// Member names come from index.xml when present.
func OpenZhfst(path string) (*ZhfstArchive, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	// the transducers retain the mapping for as long as they live
	defer m.Release()
	_ = m.Advise(mmap.AccessRandom)

	zr, err := zip.NewReader(m, int64(m.Size()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}
	members := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		members[f.Name] = f
	}

	meta, err := readIndex(members)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	acceptorName, errModelName := DefaultAcceptor, DefaultErrModel
	if meta != nil {
		if meta.Acceptor.ID != "" {
			acceptorName = meta.Acceptor.ID
		}
		if meta.ErrModel.ID != "" {
			errModelName = meta.ErrModel.ID
		}
	}

	lexicon, err := loadMember(m, members, acceptorName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mutator, err := loadMember(m, members, errModelName)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%s: %w", path, err), lexicon.Close())
	}

	log.Debugf("Opened zhfst archive %s (acceptor %s, error model %s)", path, acceptorName, errModelName)
	return &ZhfstArchive{pair: newPair(lexicon, mutator, meta), path: path}, nil
}

// Path returns the archive file path.
func (a *ZhfstArchive) Path() string {
	return a.path
}

func readIndex(members map[string]*zip.File) (*SpellerMetadata, error) {
	f, ok := members[IndexFile]
	if !ok {
		log.Debugf("No %s in archive, using default member names", IndexFile)
		return nil, nil
	}
	data, err := readMember(f)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(data)
}

func loadMember(m *mmap.Mapping, members map[string]*zip.File, name string) (*transducer.Hfst, error) {
	f, ok := members[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingMember, name)
	}

	if f.Method == zip.Store {
		off, err := f.DataOffset()
		if err != nil {
			return nil, fmt.Errorf("locate %s: %w", name, err)
		}
		region, err := m.Region(int(off), int(f.UncompressedSize64))
		if err != nil {
			return nil, fmt.Errorf("locate %s: %w", name, err)
		}
		t, err := transducer.NewHfstFromRegion(region)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return t, nil
	}

	log.Debugf("Member %s is compressed (method %d), inflating %d bytes", name, f.Method, f.UncompressedSize64)
	data, err := readMember(f)
	if err != nil {
		return nil, err
	}
	t, err := transducer.NewHfst(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return t, nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

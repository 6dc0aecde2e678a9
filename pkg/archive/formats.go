package archive

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/log"
)

// Format identifies how a speller is stored on disk.
type Format int

const (
	FormatUnknown Format = iota
	FormatZhfst          // zip archive with index.xml and two .hfst members
	FormatBundle         // directory with meta.toml and chunked lexicon/mutator
)

// FormatInfo describes a supported storage format.
type FormatInfo struct {
	Format      Format
	Description string
	Extensions  []string
	MinSize     int64 // minimum plausible file size in bytes, 0 for directories
}

var supportedFormats = map[Format]FormatInfo{
	FormatZhfst: {
		Format:      FormatZhfst,
		Description: "HFST speller archive",
		Extensions:  []string{".zhfst"},
		MinSize:     22, // an empty zip is just its end-of-directory record
	},
	FormatBundle: {
		Format:      FormatBundle,
		Description: "Chunked speller bundle",
	},
}

var zipMagic = []byte("PK\x03\x04")

func (f Format) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFormat inspects path and reports which loader can open it.
func DetectFormat(path string) (Format, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if st.IsDir() {
		if transducer.IsChunkedDir(filepath.Join(path, LexiconDir)) &&
			transducer.IsChunkedDir(filepath.Join(path, MutatorDir)) {
			return FormatBundle, nil
		}
		return FormatUnknown, fmt.Errorf("%w: %s has no %s/ and %s/ chunked transducers",
			ErrUnsupportedFormat, path, LexiconDir, MutatorDir)
	}

	info := supportedFormats[FormatZhfst]
	if st.Size() < info.MinSize {
		return FormatUnknown, fmt.Errorf("%w: %s is too small (%d bytes) for %s",
			ErrUnsupportedFormat, path, st.Size(), info.Description)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range info.Extensions {
		if ext == e {
			return FormatZhfst, nil
		}
	}
	if hasZipMagic(path) {
		log.Debugf("%s has no .zhfst extension but is a zip archive", path)
		return FormatZhfst, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func hasZipMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, len(zipMagic))
	if _, err := f.Read(head); err != nil {
		return false
	}
	return bytes.Equal(head, zipMagic)
}

// GetFormatInfo returns information about a specific format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := supportedFormats[format]
	return info, ok
}

// Package archive opens spellers stored on disk: zhfst zip archives as
// distributed by HFST and Divvun, and chunked bundle directories written by
// ExportBundle.
package archive

import (
	"errors"
	"fmt"

	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/bastiangx/fstspell/pkg/transducer"
)

// Default transducer member names inside a zhfst archive.
const (
	DefaultAcceptor = "acceptor.default.hfst"
	DefaultErrModel = "errmodel.default.hfst"
	IndexFile       = "index.xml"
)

// SpellerArchive is an opened speller and the resources backing it.
type SpellerArchive interface {
	Speller() *speller.Speller
	Metadata() *SpellerMetadata
	Close() error
}

// Open detects the format of path and loads the speller it holds.
func Open(path string) (SpellerArchive, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatZhfst:
		a, err := OpenZhfst(path)
		if err != nil {
			return nil, err
		}
		return a, nil
	case FormatBundle:
		b, err := OpenBundle(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// pair holds the two transducers of an opened archive.
type pair struct {
	speller  *speller.Speller
	metadata *SpellerMetadata
	lexicon  transducer.Transducer
	mutator  transducer.Transducer
}

func newPair(lexicon, mutator transducer.Transducer, meta *SpellerMetadata) pair {
	return pair{
		speller:  speller.New(mutator, lexicon),
		metadata: meta,
		lexicon:  lexicon,
		mutator:  mutator,
	}
}

func (p *pair) Speller() *speller.Speller {
	return p.speller
}

func (p *pair) Metadata() *SpellerMetadata {
	return p.metadata
}

func (p *pair) Close() error {
	var errs []error
	if p.lexicon != nil {
		errs = append(errs, p.lexicon.Close())
		p.lexicon = nil
	}
	if p.mutator != nil {
		errs = append(errs, p.mutator.Close())
		p.mutator = nil
	}
	return errors.Join(errs...)
}

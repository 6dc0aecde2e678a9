// Package accuracy measures how often a speller ranks the expected
// correction for a list of known misspellings, and how long it takes.
package accuracy

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/bastiangx/fstspell/pkg/archive"
	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Pair is one line of a word list: a misspelling and its correction.
type Pair struct {
	Input    string
	Expected string
}

// Result is the outcome of one lookup. Position is the index of the expected
// word among the suggestions, or nil when it was not suggested.
type Result struct {
	Input       string               `json:"input"`
	Expected    string               `json:"expected"`
	Suggestions []speller.Suggestion `json:"suggestions"`
	Position    *int                 `json:"position"`
	Time        time.Duration        `json:"time_ns"`
}

// Summary counts results by where the expected word was ranked.
type Summary struct {
	TotalWords    int           `json:"total_words"`
	FirstPosition int           `json:"first_position"`
	TopFive       int           `json:"top_five"`
	AnyPosition   int           `json:"any_position"`
	NoSuggestions int           `json:"no_suggestions"`
	OnlyWrong     int           `json:"only_wrong"`
	Slowest       time.Duration `json:"slowest_lookup_ns"`
	Fastest       time.Duration `json:"fastest_lookup_ns"`
}

// Report is the JSON document written by the accuracy tool.
type Report struct {
	Metadata  *archive.SpellerMetadata `json:"metadata"`
	Config    speller.Config           `json:"config"`
	Summary   Summary                  `json:"summary"`
	Results   []Result                 `json:"results"`
	StartedAt time.Time                `json:"start_timestamp"`
	TotalTime time.Duration            `json:"total_time_ns"`
}

// LoadWordsFile reads a tab separated word list from path.
func LoadWordsFile(path string, maxWords int) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadWords(f, maxWords)
}

// LoadWords reads "input<TAB>expected" lines. Lines starting with '#' are
// comments, extra columns are ignored and lines with fewer than two columns
// are skipped. maxWords <= 0 reads everything.
func LoadWords(r io.Reader, maxWords int) ([]Pair, error) {
	rdr := csv.NewReader(r)
	rdr.Comma = '\t'
	rdr.Comment = '#'
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true

	var pairs []Pair
	for maxWords <= 0 || len(pairs) < maxWords {
		rec, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				log.Debugf("Skipping malformed line %d: %v", perr.Line, perr.Err)
				continue
			}
			return nil, fmt.Errorf("reading word list: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		pairs = append(pairs, Pair{Input: rec[0], Expected: rec[1]})
	}
	return pairs, nil
}

// Run looks up every pair with cfg on up to workers goroutines
// (GOMAXPROCS when workers <= 0). Results keep the order of pairs.
func Run(ctx context.Context, sp *speller.Speller, pairs []Pair, cfg speller.Config, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			suggestions := sp.SuggestWithConfig(p.Input, cfg)
			elapsed := time.Since(start)

			res := Result{
				Input:       p.Input,
				Expected:    p.Expected,
				Suggestions: suggestions,
				Time:        elapsed,
			}
			if pos := slices.IndexFunc(suggestions, func(s speller.Suggestion) bool {
				return s.Value == p.Expected
			}); pos >= 0 {
				res.Position = &pos
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summarize buckets results. A result counts as "none" when there were no
// suggestions and as "wrong" when the expected word was missing from a
// non-empty list.
func Summarize(results []Result) Summary {
	var s Summary
	for i, r := range results {
		s.TotalWords++
		switch {
		case r.Position != nil:
			s.AnyPosition++
			if *r.Position == 0 {
				s.FirstPosition++
			}
			if *r.Position < 5 {
				s.TopFive++
			}
		case len(r.Suggestions) == 0:
			s.NoSuggestions++
		default:
			s.OnlyWrong++
		}

		if i == 0 || r.Time > s.Slowest {
			s.Slowest = r.Time
		}
		if i == 0 || r.Time < s.Fastest {
			s.Fastest = r.Time
		}
	}
	return s
}

func (s Summary) percent(v int) string {
	if s.TotalWords == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(v)/float64(s.TotalWords)*100)
}

// String renders the one-line summary printed after a run.
func (s Summary) String() string {
	return fmt.Sprintf("[#1] %s [^5] %s [any] %s [none] %s [wrong] %s [fast] %dms [slow] %dms",
		s.percent(s.FirstPosition),
		s.percent(s.TopFive),
		s.percent(s.AnyPosition),
		s.percent(s.NoSuggestions),
		s.percent(s.OnlyWrong),
		s.Fastest.Milliseconds(),
		s.Slowest.Milliseconds(),
	)
}

// WriteReport writes r as indented JSON.
func WriteReport(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// LoadConfig reads a JSON speller config. Fields missing from the file keep
// the values of base.
func LoadConfig(path string, base speller.Config) (speller.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	cfg := base
	cfg.MaxWeight = clonePtr(base.MaxWeight)
	cfg.NBest = clonePtr(base.NBest)
	cfg.Beam = clonePtr(base.Beam)
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Package cli is an interactive spell checker for trying spellers from a
// terminal: each line is tokenized, every word is checked and misspelled
// words are listed with their suggestions.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/fstspell/internal/utils"
	"github.com/bastiangx/fstspell/pkg/config"
	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/bastiangx/fstspell/pkg/tokenizer"
	"github.com/charmbracelet/log"
)

// WordResult is the outcome of checking one word of a line.
type WordResult struct {
	Token       tokenizer.Token
	Correct     bool
	Suggestions []speller.Suggestion
}

// InputHandler checks lines of text read from stdin.
type InputHandler struct {
	speller      *speller.Speller
	config       speller.Config
	options      config.CliConfig
	maxWordLen   int
	requestCount int
}

// NewInputHandler creates a handler using cfg for every search. A positive
// options.DefaultLimit overrides the configured n-best.
func NewInputHandler(sp *speller.Speller, cfg speller.Config, options config.CliConfig, maxWordLen int) *InputHandler {
	if options.DefaultLimit > 0 {
		cfg = cfg.WithNBest(options.DefaultLimit)
	}
	return &InputHandler{
		speller:    sp,
		config:     cfg,
		options:    options,
		maxWordLen: maxWordLen,
	}
}

// Start begins the interactive loop on stdin.
func (h *InputHandler) Start() error {
	log.Print("fstspell interactive checker")
	log.Print("type a sentence and press Enter to check it (Ctrl+C to exit):")
	return h.Run(os.Stdin, os.Stdout)
}

// Run checks every line of r and prints the report to w until r ends.
func (h *InputHandler) Run(r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.Print(w, h.CheckLine(line))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// CheckLine checks each word of line. Words that should not be checked
// (numbers, symbols, overlong tokens) are reported as correct.
func (h *InputHandler) CheckLine(line string) []WordResult {
	h.requestCount++
	start := time.Now()

	tokens := tokenizer.WordIndices(line)
	results := make([]WordResult, 0, len(tokens))
	for _, tok := range tokens {
		res := WordResult{Token: tok, Correct: true}
		if utils.ShouldCheck(tok.Word, h.maxWordLen) && !h.speller.IsCorrectWithConfig(tok.Word, h.config) {
			res.Correct = false
			res.Suggestions = h.speller.SuggestWithConfig(tok.Word, h.config)
		}
		results = append(results, res)
	}
	log.Debugf("Checked %d words in %v (line %d)", len(tokens), time.Since(start), h.requestCount)
	return results
}

// Print writes a human readable report of results.
func (h *InputHandler) Print(w io.Writer, results []WordResult) {
	misspelled := 0
	for _, res := range results {
		if res.Correct {
			if h.options.ShowCorrect {
				fmt.Fprintf(w, "  %-24s ok\n", res.Token.Word)
			}
			continue
		}
		misspelled++
		clWord := fmt.Sprintf("\033[38;5;203m%s\033[0m", res.Token.Word)
		if len(res.Suggestions) == 0 {
			fmt.Fprintf(w, "  %s (at %d): no suggestions\n", clWord, res.Token.Offset)
			continue
		}
		fmt.Fprintf(w, "  %s (at %d):\n", clWord, res.Token.Offset)
		for i, s := range res.Suggestions {
			if h.options.ShowWeights {
				fmt.Fprintf(w, "    %2d. %-24s %8.3f\n", i+1, s.Value, s.Weight)
			} else {
				fmt.Fprintf(w, "    %2d. %s\n", i+1, s.Value)
			}
		}
	}
	if misspelled == 0 {
		fmt.Fprintln(w, "  no spelling errors")
	}
}

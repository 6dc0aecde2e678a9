// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Command accuracy measures suggestion quality of a speller archive against a
list of known misspellings.

The word list is a tab separated file of "input<TAB>expected" lines; lines
starting with '#' are ignored.

	accuracy -archive se.zhfst -words typos.tsv -o report.json

It prints a one-line summary with the share of words whose correction was
ranked first, in the top five, anywhere, not at all (no suggestions) or only
wrong suggestions, plus the fastest and slowest lookup. With -o the full
report, per word results included, is written as JSON.

Flags:

	-archive string   Speller archive (.zhfst file or bundle directory)
	-words string     Word list (TSV)
	-o string         JSON report output path
	-w int            Only use the first N words
	-c string         JSON speller config overriding the defaults
	-j int            Parallel lookups (default: GOMAXPROCS)
	-d                Enable debug logging
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/fstspell/internal/accuracy"
	"github.com/bastiangx/fstspell/internal/logger"
	"github.com/bastiangx/fstspell/pkg/archive"
	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/charmbracelet/log"
)

func main() {
	archivePath := flag.String("archive", "", "Speller archive (.zhfst file or bundle directory)")
	wordsPath := flag.String("words", "", "The 'input -> expected' list in tab separated format")
	outPath := flag.String("o", "", "The file path for the JSON report output")
	maxWords := flag.Int("w", 0, "Truncate the word list to this many words")
	configPath := flag.String("c", "", "JSON config file overriding the test defaults")
	workers := flag.Int("j", 0, "Number of parallel lookups")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	logger.SetupDefault(*debugMode)

	if *archivePath == "" {
		log.Fatal("No archive given; use -archive")
	}
	if *wordsPath == "" {
		log.Fatal("No word list given; use -words")
	}

	cfg := speller.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = accuracy.LoadConfig(*configPath, cfg); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	a, err := archive.Open(*archivePath)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer a.Close()

	pairs, err := accuracy.LoadWordsFile(*wordsPath, *maxWords)
	if err != nil {
		log.Fatalf("Failed to load word list: %v", err)
	}
	if len(pairs) == 0 {
		log.Fatalf("No words in %s", *wordsPath)
	}
	log.Infof("Checking %d words", len(pairs))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	results, err := accuracy.Run(ctx, a.Speller(), pairs, cfg, *workers)
	if err != nil {
		log.Fatalf("Run aborted: %v", err)
	}
	total := time.Since(started)

	summary := accuracy.Summarize(results)
	fmt.Println(summary)

	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Failed to create report: %v", err)
		}
		report := &accuracy.Report{
			Metadata:  a.Metadata(),
			Config:    cfg,
			Summary:   summary,
			Results:   results,
			StartedAt: started,
			TotalTime: total,
		}
		log.Info("Writing JSON report")
		if err := accuracy.WriteReport(f, report); err != nil {
			f.Close()
			log.Fatalf("Failed to write report: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
	}
	log.Infof("Done in %s", total.Round(time.Millisecond))
}

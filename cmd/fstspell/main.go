// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the fstspell spell checker: a MessagePack IPC
server, an interactive checker and a one-shot command line tool over HFST
speller archives.

fstspell loads a lexicon transducer and an error model transducer, either
from a .zhfst archive (the format distributed by Divvun and Giellatekno) or
from a bundle directory of memory-mapped chunks, and ranks corrections by
searching both automata together.

# Usage

Check words given on the command line:

	fstspell -archive se.zhfst boazu boahtit

Run the interactive checker:

	fstspell -archive se.zhfst -c

Serve requests over stdin/stdout:

	fstspell -archive se.zhfst -server

Convert an archive into a chunked bundle:

	fstspell -archive se.zhfst -export ./se-bundle -index-chunk 65536 -transition-chunk 98304

The archive may be a path, a bare locale looked up as <locale>.zhfst, or a
bundle directory. Relative names are also searched next to the executable
and in the spellers directory of the config dir.

# Configuration

Search limits and server options live in a TOML file, created with
defaults on first run:

	[speller]
	archive = "se.zhfst"
	max_weight = 50000.0
	n_best = 10
	beam = -1.0
	with_caps = true

	[server]
	max_limit = 64
	cache_size = 4096

Negative limits mean "no limit". Flags given on the command line override
the file.

# Command Line Flags

	-archive string
	    Speller archive (.zhfst file or bundle directory)
	-config string
	    Config file path (default: config dir)
	-d  Enable debug logging
	-c  Run the interactive checker
	-server
	    Run the msgpack IPC server
	-export string
	    Write the archive as a chunked bundle into this directory
	-index-chunk int
	    Index chunk size in bytes, a multiple of 8
	-transition-chunk int
	    Transition chunk size in bytes, a multiple of 12
	-nbest int
	    Number of suggestions (negative for unlimited)
	-max-weight float
	    Maximum suggestion weight (negative for unlimited)
	-beam float
	    Beam width relative to the best suggestion (negative for unlimited)
	-no-caps
	    Disable case variants
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bastiangx/fstspell/internal/cli"
	"github.com/bastiangx/fstspell/internal/logger"
	"github.com/bastiangx/fstspell/internal/utils"
	"github.com/bastiangx/fstspell/pkg/archive"
	"github.com/bastiangx/fstspell/pkg/config"
	"github.com/bastiangx/fstspell/pkg/server"
	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "fstspell"
	gh      = "https://github.com/bastiangx/fstspell"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	archivePath := flag.String("archive", "", "Speller archive (.zhfst file or bundle directory)")
	configPath := flag.String("config", "", "Config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive checker")
	serverMode := flag.Bool("server", false, "Run the msgpack IPC server on stdin/stdout")
	exportDir := flag.String("export", "", "Write the archive as a chunked bundle into this directory")
	indexChunk := flag.Int("index-chunk", 8*8192, "Index chunk size in bytes (multiple of 8)")
	transitionChunk := flag.Int("transition-chunk", 12*8192, "Transition chunk size in bytes (multiple of 12)")
	nBest := flag.Int("nbest", defaults.Speller.NBest, "Number of suggestions (negative for unlimited)")
	maxWeight := flag.Float64("max-weight", defaults.Speller.MaxWeight, "Maximum suggestion weight (negative for unlimited)")
	beam := flag.Float64("beam", defaults.Speller.Beam, "Beam width above the best suggestion (negative for unlimited)")
	noCaps := flag.Bool("no-caps", false, "Disable case variants")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.SetupDefault(*debugMode)
	if !*debugMode {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedConfig))

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nbest":
			appConfig.Speller.NBest = *nBest
		case "max-weight":
			appConfig.Speller.MaxWeight = *maxWeight
		case "beam":
			appConfig.Speller.Beam = *beam
		case "no-caps":
			appConfig.Speller.WithCaps = !*noCaps
		}
	})

	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		for k, v := range pr.GetRuntimeInfo() {
			log.Debugf("runtime %s: %s", k, v)
		}
	}

	resolved := resolveArchive(pr, *archivePath, appConfig.Speller.Archive)
	if resolved == "" {
		log.Fatal("No speller archive found; use -archive or set [speller] archive in the config")
	}
	if format, err := archive.DetectFormat(resolved); err == nil {
		if info, ok := archive.GetFormatInfo(format); ok {
			log.Debugf("Archive format: %s", info.Description)
		}
	}

	a, err := archive.Open(resolved)
	if err != nil {
		log.Fatalf("Failed to open archive %s: %v", resolved, err)
	}
	defer a.Close()
	log.Debugf("Loaded %s (decode path: %s)", resolved, transducer.DecodePath())

	switch {
	case *exportDir != "":
		if err := archive.ExportBundle(a, *exportDir, *indexChunk, *transitionChunk); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	case *cliMode:
		handler := cli.NewInputHandler(a.Speller(), appConfig.Speller.ToSpellerConfig(), appConfig.CLI, appConfig.Server.MaxWordLength)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	case *serverMode || flag.NArg() == 0:
		srv := server.NewServer(a, appConfig, usedConfig)
		showStartupInfo(resolved, a.Metadata())
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		checkWords(a.Speller(), appConfig.Speller.ToSpellerConfig(), flag.Args())
	}
}

// resolveArchive picks the archive to load: the -archive flag, then the
// config file, then the first archive in the spellers directory.
func resolveArchive(pr *utils.PathResolver, flagPath, configured string) string {
	name := flagPath
	if name == "" {
		name = configured
	}
	if name == "" {
		spellers := filepath.Join(pr.GetConfigDir(), utils.SpellersDir)
		found := utils.FindArchives(spellers)
		if len(found) == 0 {
			return ""
		}
		log.Debugf("No archive configured, using %s", found[0])
		return found[0]
	}
	resolved, err := pr.ResolveArchive(name)
	if err != nil {
		log.Debugf("Could not resolve %s, using it as given", name)
		return name
	}
	return resolved
}

// checkWords prints one line per word: the word and either "correct" or its
// suggestions with weights.
func checkWords(sp *speller.Speller, cfg speller.Config, words []string) {
	for _, w := range words {
		if sp.IsCorrectWithConfig(w, cfg) {
			fmt.Printf("%s: correct\n", w)
			continue
		}
		suggestions := sp.SuggestWithConfig(w, cfg)
		parts := make([]string, len(suggestions))
		for i, s := range suggestions {
			parts[i] = fmt.Sprintf("%s (%.3f)", s.Value, s.Weight)
		}
		if len(parts) == 0 {
			fmt.Printf("%s: no suggestions\n", w)
			continue
		}
		fmt.Printf("%s: %s\n", w, strings.Join(parts, ", "))
	}
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["decode"] = lipgloss.NewStyle().Faint(true)
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ fstspell ] Weighted FST spell checking")
	l.Print("", "version", Version)
	l.Print("", "decode", transducer.DecodePath())
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays basic info about the loaded speller on stderr.
func showStartupInfo(path string, meta *archive.SpellerMetadata) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("archive: ( %s )", path)
	if meta != nil {
		log.Infof("locale: %s, %s", meta.Info.Locale, meta.Info.Title.Get("en"))
	}
	log.Info("status: ready")
}

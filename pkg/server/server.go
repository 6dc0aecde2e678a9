package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/fstspell/internal/utils"
	"github.com/bastiangx/fstspell/pkg/archive"
	"github.com/bastiangx/fstspell/pkg/config"
	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Source provides the speller served over IPC. archive.SpellerArchive
// satisfies it.
type Source interface {
	Speller() *speller.Speller
	Metadata() *archive.SpellerMetadata
}

// Server handles msgpack IPC for spell checking
type Server struct {
	source     Source
	config     *config.Config
	configPath string
	cache      *SuggestionCache
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
	requests   int
}

// NewServer creates a server using stdin/stdout for IPC. When configPath is
// not empty, config requests are persisted there.
func NewServer(source Source, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(source, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// replies to w.
func NewServerWithIO(source Source, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		source:     source,
		config:     cfg,
		configPath: configPath,
		cache:      NewSuggestionCache(cfg.Server.CacheSize),
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
	}
}

// Start sends the ready message and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting msgpack server")
	if err := s.send(map[string]string{"status": "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("decode request: %w", err)
		}
		s.requests++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case "", "suggest":
		s.handleSuggest(req, true)
	case "check":
		s.handleSuggest(req, false)
	case "info":
		s.handleInfo(req)
	case "config":
		s.handleConfig(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSuggest(req Request, withSuggestions bool) {
	word := req.Word
	if word == "" {
		s.sendError(req.ID, "missing 'w' parameter", 400)
		return
	}
	maxLen := s.config.Server.MaxWordLength
	if maxLen > 0 && len([]rune(word)) > maxLen {
		s.sendError(req.ID, fmt.Sprintf("word exceeds maximum length of %d characters", maxLen), 400)
		return
	}

	start := time.Now()
	if s.config.Server.EnableFilter && !utils.ShouldCheck(word, maxLen) {
		// numbers, symbols and the like are never flagged
		s.send(SuggestResponse{ID: req.ID, Suggestions: []SuggestionItem{}, Correct: true, TimeTaken: time.Since(start).Microseconds()})
		return
	}

	limit := 0
	if withSuggestions {
		limit = s.limit(req.Limit)
	}
	suggestions, correct, ok := s.cache.Get(word, limit)
	if !ok {
		sp := s.source.Speller()
		cfg := s.config.Speller.ToSpellerConfig()
		correct = sp.IsCorrectWithConfig(word, cfg)
		if withSuggestions && !correct {
			if limit == unlimited {
				cfg.NBest = nil
			} else {
				cfg = cfg.WithNBest(limit)
			}
			suggestions = sp.SuggestWithConfig(word, cfg)
		}
		s.cache.Put(word, limit, suggestions, correct)
	}

	items := make([]SuggestionItem, len(suggestions))
	ranks := utils.CreateRankList(len(suggestions))
	for i, sug := range suggestions {
		items[i] = SuggestionItem{Word: sug.Value, Weight: float32(sug.Weight), Rank: ranks[i]}
	}
	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: items,
		Count:       len(items),
		Correct:     correct,
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

// unlimited is the resolved limit, and cache key, of searches without an
// n-best cap.
const unlimited = -1

// limit resolves the number of suggestions for a request: the requested
// count, else the configured n-best, capped by max_limit. It returns
// unlimited when neither sets a positive bound.
func (s *Server) limit(requested int) int {
	limit := s.config.Speller.NBest
	if requested > 0 {
		limit = requested
	}
	maxLimit := s.config.Server.MaxLimit
	if limit <= 0 {
		limit = maxLimit
	}
	if maxLimit > 0 {
		limit = min(limit, maxLimit)
	}
	if limit <= 0 {
		return unlimited
	}
	return limit
}

func (s *Server) handleInfo(req Request) {
	resp := InfoResponse{
		ID:         req.ID,
		Status:     "ok",
		DecodePath: transducer.DecodePath(),
		NBest:      s.config.Speller.NBest,
		MaxWeight:  s.config.Speller.MaxWeight,
		Beam:       s.config.Speller.Beam,
		Requests:   s.requests,
	}
	stats := s.cache.Stats()
	resp.CacheSize, resp.CacheHits = stats["cacheEntries"], stats["cacheHits"]
	if meta := s.source.Metadata(); meta != nil {
		resp.Locale = meta.Info.Locale
		resp.Title = meta.Info.Title.Get("en")
	}
	s.send(resp)
}

func (s *Server) handleConfig(req Request) {
	saved := false
	if s.configPath != "" {
		if err := s.config.Update(s.configPath, req.NBest, req.MaxWeight, req.Beam, req.WithCaps); err != nil {
			log.Errorf("Saving config to %s: %v", s.configPath, err)
			s.sendError(req.ID, "failed to save config", 500)
			return
		}
		saved = true
	} else {
		applyConfig(&s.config.Speller, req)
	}
	s.cache.Clear()
	log.Debugf("Speller config updated: %+v", s.config.Speller)
	s.send(ConfigResponse{ID: req.ID, Status: "ok", Saved: saved})
}

func applyConfig(sp *config.SpellerConfig, req Request) {
	if req.NBest != nil {
		sp.NBest = *req.NBest
	}
	if req.MaxWeight != nil {
		sp.MaxWeight = *req.MaxWeight
	}
	if req.Beam != nil {
		sp.Beam = *req.Beam
	}
	if req.WithCaps != nil {
		sp.WithCaps = *req.WithCaps
	}
}

func (s *Server) send(v any) error {
	if err := s.encoder.Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

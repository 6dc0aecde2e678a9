/*
Package server implements msgpack IPC for spell checking.

Clients write msgpack maps to stdin and read msgpack maps from stdout, one
value per message with no framing. The first message from the server is

	{"status": "ready"}

Requests carry an id echoed in the reply, an action and a word:

	{"id": "r1", "a": "suggest", "w": "speling", "n": 5}
	{"id": "r2", "a": "check", "w": "spelling"}
	{"id": "r3", "a": "info"}
	{"id": "r4", "a": "config", "nb": 3, "bm": 10.0}

suggest is the default action. Its reply lists suggestions ordered by
weight, whether the word is already correct and the time taken in
microseconds:

	{"id": "r1", "s": [{"w": "spelling", "wt": 1.5, "r": 1}], "c": 1, "ok": false, "t": 212}

Failed requests get {"id": ..., "e": message, "c": code}. Codes follow HTTP
conventions: 400 for bad requests, 500 for internal errors.

Results are cached per word and limit; a config change clears the cache.
*/
package server

// Request is any client message. Fields not used by an action are ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"` // "suggest" (default), "check", "info", "config"
	Word   string `msgpack:"w,omitempty"`
	Limit  int    `msgpack:"n,omitempty"`

	// config action; negative numbers clear a limit
	NBest     *int     `msgpack:"nb,omitempty"`
	MaxWeight *float64 `msgpack:"mw,omitempty"`
	Beam      *float64 `msgpack:"bm,omitempty"`
	WithCaps  *bool    `msgpack:"caps,omitempty"`
}

// SuggestionItem is one ranked suggestion.
type SuggestionItem struct {
	Word   string  `msgpack:"w"`
	Weight float32 `msgpack:"wt"`
	Rank   uint16  `msgpack:"r"`
}

// SuggestResponse answers suggest and check requests. Check replies carry
// no suggestions.
type SuggestResponse struct {
	ID          string           `msgpack:"id"`
	Suggestions []SuggestionItem `msgpack:"s"`
	Count       int              `msgpack:"c"`
	Correct     bool             `msgpack:"ok"`
	TimeTaken   int64            `msgpack:"t"`
}

// InfoResponse describes the loaded speller.
type InfoResponse struct {
	ID         string  `msgpack:"id"`
	Status     string  `msgpack:"status"`
	Locale     string  `msgpack:"locale,omitempty"`
	Title      string  `msgpack:"title,omitempty"`
	DecodePath string  `msgpack:"decode_path"`
	NBest      int     `msgpack:"n_best"`
	MaxWeight  float64 `msgpack:"max_weight"`
	Beam       float64 `msgpack:"beam"`
	CacheSize  int     `msgpack:"cache_size"`
	CacheHits  int     `msgpack:"cache_hits"`
	Requests   int     `msgpack:"requests"`
}

// ConfigResponse acknowledges a config request.
type ConfigResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Saved  bool   `msgpack:"saved"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

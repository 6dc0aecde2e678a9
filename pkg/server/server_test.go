package server

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bastiangx/fstspell/internal/fsttest"
	"github.com/bastiangx/fstspell/pkg/archive"
	"github.com/bastiangx/fstspell/pkg/config"
	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type testSource struct {
	sp   *speller.Speller
	meta *archive.SpellerMetadata
}

func (s testSource) Speller() *speller.Speller          { return s.sp }
func (s testSource) Metadata() *archive.SpellerMetadata { return s.meta }

func newSource(t *testing.T) testSource {
	t.Helper()
	lex := fsttest.Lexicon(map[string]float32{"cat": 0.5, "car": 1, "cart": 1.5, "dog": 0}).Build(t)
	mut := fsttest.EditDistance("acdgort", 2, 1).Build(t)
	t.Cleanup(func() {
		lex.Close()
		mut.Close()
	})
	meta := &archive.SpellerMetadata{Info: archive.InfoMetadata{
		Locale: "en",
		Title:  archive.Texts{{Value: "Test speller"}},
	}}
	return testSource{sp: speller.New(mut, lex), meta: meta}
}

// session runs the server over the encoded requests and returns a decoder
// positioned after the ready message.
func session(t *testing.T, srv func(in *bytes.Buffer, out *bytes.Buffer) *Server, reqs ...any) *msgpack.Decoder {
	t.Helper()
	in, out := new(bytes.Buffer), new(bytes.Buffer)
	enc := msgpack.NewEncoder(in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	require.NoError(t, srv(in, out).Start())

	dec := msgpack.NewDecoder(out)
	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready["status"])
	return dec
}

func defaultServer(t *testing.T) func(in, out *bytes.Buffer) *Server {
	src := newSource(t)
	return func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(src, config.DefaultConfig(), "", in, out)
	}
}

func TestServer_Suggest(t *testing.T) {
	dec := session(t, defaultServer(t),
		Request{ID: "1", Word: "cot"},
		Request{ID: "2", Action: "suggest", Word: "cat", Limit: 2},
		Request{ID: "3", Action: "suggest", Word: "ctr", Limit: 2},
	)

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "1", resp.ID)
	assert.False(t, resp.Correct)
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "cat", resp.Suggestions[0].Word)
	assert.Equal(t, float32(1.5), resp.Suggestions[0].Weight)
	assert.Equal(t, uint16(1), resp.Suggestions[0].Rank)
	assert.Equal(t, len(resp.Suggestions), resp.Count)

	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "2", resp.ID)
	assert.True(t, resp.Correct)
	assert.Empty(t, resp.Suggestions)

	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "3", resp.ID)
	assert.LessOrEqual(t, resp.Count, 2)
	for i := 1; i < len(resp.Suggestions); i++ {
		assert.LessOrEqual(t, resp.Suggestions[i-1].Weight, resp.Suggestions[i].Weight)
	}
}

func TestServer_CheckAndFilter(t *testing.T) {
	dec := session(t, defaultServer(t),
		Request{ID: "a", Action: "check", Word: "Cart"},
		Request{ID: "b", Action: "check", Word: "crt"},
		Request{ID: "c", Action: "check", Word: "1984"},
	)

	want := map[string]bool{"a": true, "b": false, "c": true}
	for range want {
		var resp SuggestResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, want[resp.ID], resp.Correct, resp.ID)
		assert.Empty(t, resp.Suggestions)
	}
}

func TestServer_Errors(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	dec := session(t, defaultServer(t),
		Request{ID: "1"},
		Request{ID: "2", Action: "fly", Word: "cat"},
		Request{ID: "3", Word: string(long)},
	)

	for _, id := range []string{"1", "2", "3"} {
		var resp ErrorResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, 400, resp.Code)
		assert.NotEmpty(t, resp.Error)
	}
}

func TestServer_InfoAndConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	src := newSource(t)
	cfg := config.DefaultConfig()
	nb := 1

	dec := session(t, func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(src, cfg, path, in, out)
	},
		Request{ID: "i", Action: "info"},
		Request{ID: "s1", Word: "cot"},
		Request{ID: "c", Action: "config", NBest: &nb},
		Request{ID: "s2", Word: "cot"},
	)

	var info InfoResponse
	require.NoError(t, dec.Decode(&info))
	assert.Equal(t, "ok", info.Status)
	assert.Equal(t, "en", info.Locale)
	assert.Equal(t, "Test speller", info.Title)
	assert.Equal(t, "cursor", info.DecodePath)
	assert.Equal(t, 10, info.NBest)

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Greater(t, resp.Count, 1)

	var ack ConfigResponse
	require.NoError(t, dec.Decode(&ack))
	assert.Equal(t, "ok", ack.Status)
	assert.True(t, ack.Saved)

	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "s2", resp.ID)
	assert.Equal(t, 1, resp.Count)

	saved, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Speller.NBest)
}

func TestServer_UnlimitedSuggestions(t *testing.T) {
	src := newSource(t)
	cfg := config.DefaultConfig()
	cfg.Speller.NBest = -1
	cfg.Server.MaxLimit = 0

	dec := session(t, func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(src, cfg, "", in, out)
	},
		Request{ID: "1", Word: "cot"},
		Request{ID: "2", Word: "cot"},
		Request{ID: "3", Action: "check", Word: "cot"},
		Request{ID: "i", Action: "info"},
	)

	var first, second SuggestResponse
	require.NoError(t, dec.Decode(&first))
	assert.False(t, first.Correct)
	require.NotEmpty(t, first.Suggestions)
	assert.Equal(t, "cat", first.Suggestions[0].Word)
	assert.Greater(t, first.Count, 1)

	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, first.Suggestions, second.Suggestions)

	var check SuggestResponse
	require.NoError(t, dec.Decode(&check))
	assert.Equal(t, "3", check.ID)
	assert.False(t, check.Correct)
	assert.Empty(t, check.Suggestions)

	var info InfoResponse
	require.NoError(t, dec.Decode(&info))
	assert.Equal(t, 2, info.CacheSize, "suggest and check results are cached apart")
	assert.Equal(t, 1, info.CacheHits)
}

func TestServer_Limit(t *testing.T) {
	tests := []struct {
		name      string
		nBest     int
		maxLimit  int
		requested int
		want      int
	}{
		{"configured", 10, 64, 0, 10},
		{"requested", 10, 64, 3, 3},
		{"capped", 10, 4, 8, 4},
		{"unset n-best falls back to max", -1, 16, 0, 16},
		{"no bound at all", -1, 0, 0, unlimited},
		{"zero n-best without cap", 0, 0, 0, unlimited},
		{"requested without cap", -1, 0, 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Speller.NBest = tt.nBest
			cfg.Server.MaxLimit = tt.maxLimit
			srv := NewServerWithIO(newSource(t), cfg, "", new(bytes.Buffer), new(bytes.Buffer))
			assert.Equal(t, tt.want, srv.limit(tt.requested))
		})
	}
}

func TestServer_EmptyInput(t *testing.T) {
	in, out := new(bytes.Buffer), new(bytes.Buffer)
	srv := NewServerWithIO(newSource(t), nil, "", in, out)
	require.NoError(t, srv.Start())

	var ready map[string]string
	require.NoError(t, msgpack.NewDecoder(out).Decode(&ready))
	assert.Equal(t, "ready", ready["status"])
}

func TestSuggestionCache(t *testing.T) {
	c := NewSuggestionCache(2)
	a := []speller.Suggestion{{Value: "a", Weight: 1}}

	c.Put("x", 5, a, false)
	c.Put("y", 5, nil, true)
	got, correct, ok := c.Get("x", 5)
	require.True(t, ok)
	assert.False(t, correct)
	assert.Equal(t, a, got)

	_, _, ok = c.Get("x", 3)
	assert.False(t, ok)

	// y is now the least recently used
	c.Put("z", 5, nil, true)
	assert.Equal(t, 2, c.Len())
	_, _, ok = c.Get("y", 5)
	assert.False(t, ok)
	_, _, ok = c.Get("x", 5)
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())

	disabled := NewSuggestionCache(0)
	disabled.Put("x", 5, a, false)
	_, _, ok = disabled.Get("x", 5)
	assert.False(t, ok)
}

package server

import (
	"math"
	"strconv"
	"sync"

	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type cacheEntry struct {
	suggestions []speller.Suggestion
	correct     bool
	lastAccess  int64
}

// SuggestionCache keeps recent results keyed by word and limit, evicting the
// least recently used entry when full.
type SuggestionCache struct {
	entries     *patricia.Trie
	size        int
	accessCount int64
	hits        int64
	maxEntries  int
	mu          sync.Mutex
}

// NewSuggestionCache returns a cache holding at most maxEntries results. A
// non-positive size disables caching.
func NewSuggestionCache(maxEntries int) *SuggestionCache {
	return &SuggestionCache{
		entries:    patricia.NewTrie(),
		maxEntries: maxEntries,
	}
}

func cacheKey(word string, limit int) patricia.Prefix {
	return patricia.Prefix(word + "\x00" + strconv.Itoa(limit))
}

// Get returns the cached result for word and limit.
func (c *SuggestionCache) Get(word string, limit int) ([]speller.Suggestion, bool, bool) {
	if c.maxEntries <= 0 {
		return nil, false, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.entries.Get(cacheKey(word, limit))
	if item == nil {
		return nil, false, false
	}
	e := item.(*cacheEntry)
	e.lastAccess = c.nextAccess()
	c.hits++
	return e.suggestions, e.correct, true
}

// Put stores a result.
func (c *SuggestionCache) Put(word string, limit int, suggestions []speller.Suggestion, correct bool) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(word, limit)
	if item := c.entries.Get(key); item != nil {
		e := item.(*cacheEntry)
		e.suggestions, e.correct, e.lastAccess = suggestions, correct, c.nextAccess()
		return
	}
	if c.size >= c.maxEntries {
		c.evictLRU()
	}
	c.entries.Insert(key, &cacheEntry{suggestions: suggestions, correct: correct, lastAccess: c.nextAccess()})
	c.size++
}

// Clear drops every entry.
func (c *SuggestionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = patricia.NewTrie()
	c.size = 0
}

// Len returns the number of cached results.
func (c *SuggestionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats reports the entry count, capacity and hit count.
func (c *SuggestionCache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]int{
		"cacheEntries": c.size,
		"maxEntries":   c.maxEntries,
		"cacheHits":    int(c.hits),
	}
}

func (c *SuggestionCache) nextAccess() int64 {
	c.accessCount++
	return c.accessCount
}

func (c *SuggestionCache) evictLRU() {
	var oldest patricia.Prefix
	oldestTime := int64(math.MaxInt64)

	c.entries.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		if e := item.(*cacheEntry); e.lastAccess < oldestTime {
			oldestTime = e.lastAccess
			oldest = append(oldest[:0], prefix...)
		}
		return nil
	})
	if oldest != nil && c.entries.Delete(oldest) {
		c.size--
		log.Debugf("Evicted %q from suggestion cache", string(oldest))
	}
}

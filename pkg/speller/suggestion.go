package speller

import (
	"sort"

	"github.com/bastiangx/fstspell/pkg/transducer"
)

// Suggestion is a candidate correction and its total path weight.
type Suggestion struct {
	Value  string            `json:"value" msgpack:"w"`
	Weight transducer.Weight `json:"weight" msgpack:"wt"`
}

// collector merges suggestions by value, keeping the lowest weight and the
// order in which values were first seen.
type collector struct {
	index map[string]int
	list  []Suggestion
	best  transducer.Weight
	found bool

	// cached result of worst, valid until the next change
	worstN     int
	worstW     transducer.Weight
	worstValid bool
}

func newCollector() *collector {
	return &collector{index: make(map[string]int)}
}

// add records a suggestion and reports whether the result set changed.
func (c *collector) add(value string, weight transducer.Weight) bool {
	if !c.found || weight < c.best {
		c.best, c.found = weight, true
	}
	if i, ok := c.index[value]; ok {
		if weight < c.list[i].Weight {
			c.list[i].Weight = weight
			c.worstValid = false
			return true
		}
		return false
	}
	c.worstValid = false
	c.index[value] = len(c.list)
	c.list = append(c.list, Suggestion{Value: value, Weight: weight})
	return true
}

// results sorts by weight (stable on discovery order), removes suggestions
// outside the beam and truncates to n-best.
func (c *collector) results(l limits) []Suggestion {
	out := make([]Suggestion, len(c.list))
	copy(out, c.list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	if l.hasBeam && c.found {
		cut := len(out)
		for i, s := range out {
			if s.Weight > c.best+l.beam {
				cut = i
				break
			}
		}
		out = out[:cut]
	}
	if l.hasNBest && len(out) > l.nBest {
		out = out[:l.nBest]
	}
	return out
}

// worst returns the weight of the n-th best suggestion collected so far.
func (c *collector) worst(n int) (transducer.Weight, bool) {
	if n <= 0 || len(c.list) < n {
		return 0, false
	}
	if c.worstValid && c.worstN == n {
		return c.worstW, true
	}
	weights := make([]float32, len(c.list))
	for i, s := range c.list {
		weights[i] = float32(s.Weight)
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i] < weights[j] })
	c.worstN, c.worstW, c.worstValid = n, transducer.Weight(weights[n-1]), true
	return c.worstW, true
}

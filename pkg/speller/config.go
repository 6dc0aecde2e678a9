package speller

import "github.com/bastiangx/fstspell/pkg/transducer"

// Config tunes a single search. It is a value type; the helper methods return
// modified copies and the speller never changes a Config it is given.
// Nil limits mean "no limit".
type Config struct {
	MaxWeight          *transducer.Weight `json:"max_weight,omitempty"`
	NBest              *int               `json:"n_best,omitempty"`
	Beam               *transducer.Weight `json:"beam,omitempty"`
	PoolMax            int                `json:"pool_max"`
	PoolStart          int                `json:"pool_start"`
	SeenNodeSampleRate uint32             `json:"seen_node_sample_rate"`
	WithCaps           bool               `json:"with_caps"`
}

// DefaultConfig returns the settings used by the command line tools.
func DefaultConfig() Config {
	maxWeight := transducer.Weight(50000)
	nBest := 10
	return Config{
		MaxWeight:          &maxWeight,
		NBest:              &nBest,
		PoolMax:            128,
		PoolStart:          128,
		SeenNodeSampleRate: 15,
		WithCaps:           true,
	}
}

// WithMaxWeight returns a copy that drops paths heavier than w.
func (c Config) WithMaxWeight(w transducer.Weight) Config {
	c.MaxWeight = &w
	return c
}

// WithNBest returns a copy that keeps at most n suggestions.
func (c Config) WithNBest(n int) Config {
	c.NBest = &n
	return c
}

// WithBeam returns a copy that drops paths heavier than the best
// suggestion plus b.
func (c Config) WithBeam(b transducer.Weight) Config {
	c.Beam = &b
	return c
}

// WithoutLimits returns a copy with max weight, n-best and beam unset.
func (c Config) WithoutLimits() Config {
	c.MaxWeight, c.NBest, c.Beam = nil, nil, nil
	return c
}

// WithCaseHandling returns a copy with case variants enabled or disabled.
func (c Config) WithCaseHandling(on bool) Config {
	c.WithCaps = on
	return c
}

// WithSampleRate returns a copy with the given seen-node sampling rate.
func (c Config) WithSampleRate(rate uint32) Config {
	c.SeenNodeSampleRate = rate
	return c
}

// WithPool returns a copy with the given node pool sizing.
func (c Config) WithPool(start, limit int) Config {
	c.PoolStart, c.PoolMax = start, limit
	return c
}

// limits is the decoded form of a Config used inside one search.
type limits struct {
	maxWeight transducer.Weight
	hasMax    bool
	beam      transducer.Weight
	hasBeam   bool
	nBest     int
	hasNBest  bool
}

func (c Config) limits() limits {
	var l limits
	if c.MaxWeight != nil {
		l.maxWeight, l.hasMax = *c.MaxWeight, true
	}
	if c.Beam != nil {
		l.beam, l.hasBeam = *c.Beam, true
	}
	if c.NBest != nil {
		l.nBest, l.hasNBest = max(*c.NBest, 0), true
	}
	return l
}

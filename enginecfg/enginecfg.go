// Package enginecfg loads the engine's configuration from the process
// environment, grounded on the teacher's internal/cmd.environments: a single
// struct tagged for github.com/caarlos0/env, parsed once at startup.
package enginecfg

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/caarlos0/env/v7"

	"github.com/go-adblock/urlfilter-engine/combinedmatcher"
	"github.com/go-adblock/urlfilter-engine/rules"
)

// DefaultMaxRuleListSize is the upper bound on a single rule list's
// uncompressed size that LoadRules accepts before rejecting the stream.
const DefaultMaxRuleListSize = 64 * datasize.MB

// Config is the engine's environment-driven configuration.
type Config struct {
	// TextCacheSize bounds the process-wide Filter.FromText memo.
	TextCacheSize int `env:"URLFILTER_TEXT_CACHE_SIZE" envDefault:"10000"`

	// ResultCacheSize bounds the CombinedMatcher's match/search result LRU.
	ResultCacheSize int `env:"URLFILTER_RESULT_CACHE_SIZE" envDefault:"10000"`

	// MaxRuleListSize bounds a single rule list's uncompressed size, read
	// from an operator-friendly value such as "64MB".
	MaxRuleListSize datasize.ByteSize `env:"URLFILTER_MAX_RULE_LIST_SIZE" envDefault:"64MB"`

	// Verbose is parsed from URLFILTER_VERBOSE.  Nothing in this module reads
	// it: the demo CLI takes its log level from its -verbose flag, and the
	// engine does not log matches.
	Verbose bool `env:"URLFILTER_VERBOSE" envDefault:"false"`
}

// Read parses Config from the environment, applying envDefault tags for
// anything unset.
func Read() (c *Config, err error) {
	c = &Config{}

	err = env.Parse(c)
	if err != nil {
		return nil, fmt.Errorf("enginecfg: parsing environment: %w", err)
	}

	return c, nil
}

// EffectiveTextCacheSize returns the configured Filter.FromText memo size, or
// rules.DefaultTextCacheSize if c is nil or unset.
func (c *Config) EffectiveTextCacheSize() (size int) {
	if c == nil || c.TextCacheSize <= 0 {
		return rules.DefaultTextCacheSize
	}

	return c.TextCacheSize
}

// EffectiveResultCacheSize returns the configured result-cache size, or
// combinedmatcher.DefaultCacheSize if c is nil or unset.
func (c *Config) EffectiveResultCacheSize() (size int) {
	if c == nil || c.ResultCacheSize <= 0 {
		return combinedmatcher.DefaultCacheSize
	}

	return c.ResultCacheSize
}

// EffectiveMaxRuleListSize returns the configured rule-list size cap, or
// DefaultMaxRuleListSize if c is nil or unset.
func (c *Config) EffectiveMaxRuleListSize() (size datasize.ByteSize) {
	if c == nil || c.MaxRuleListSize <= 0 {
		return DefaultMaxRuleListSize
	}

	return c.MaxRuleListSize
}

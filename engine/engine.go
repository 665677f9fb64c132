// Package engine is the matching engine's façade: it owns the rule-text
// memo and the CombinedMatcher, and translates between raw strings (a URL, a
// rule-list line) and the typed values the lower layers operate on. It is
// grounded on the teacher's internal/filter/internal/rulelist.baseFilter and
// internal/filter.Storage: a loader that reads a rule-list body into a
// matcher, and a thin set of request-shaped methods over it.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/c2h5oh/datasize"

	"github.com/go-adblock/urlfilter-engine/combinedmatcher"
	"github.com/go-adblock/urlfilter-engine/enginecfg"
	"github.com/go-adblock/urlfilter-engine/internal/agdurlflt"
	"github.com/go-adblock/urlfilter-engine/rules"
	"github.com/go-adblock/urlfilter-engine/urlreq"
)

// Observer receives signals from the engine's matching pipeline — result-
// cache lookups and keyword-bucket sizes — letting a caller (the demo CLI's
// engineobs.Metrics) wire them into whatever observability backend it uses
// without this package importing it directly, the same pattern
// engineobs.ErrorCollector follows in the other direction.
type Observer interface {
	ObserveCacheLookup(hit bool)
	ObserveKeywordBucketSize(n int)
}

// Engine is the URL filter matching engine. It is not safe for concurrent
// use without external synchronization, same as CombinedMatcher.
type Engine struct {
	logger      *slog.Logger
	matcher     *combinedmatcher.CombinedMatcher
	textCache   *rules.TextCache
	maxListSize datasize.ByteSize
	obs         Observer
}

// SetObserver installs obs to receive cache-lookup and keyword-bucket-size
// signals. A nil obs (the default) disables reporting.
func (e *Engine) SetObserver(obs Observer) {
	e.obs = obs
	e.matcher.SetCacheObserver(obs)
}

// New returns a new, empty Engine. A nil cfg uses every package default.
func New(cfg *enginecfg.Config, logger *slog.Logger) (e *Engine) {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		logger:      logger,
		matcher:     combinedmatcher.NewWithCacheSize(cfg.EffectiveResultCacheSize()),
		textCache:   rules.NewTextCache(cfg.EffectiveTextCacheSize()),
		maxListSize: cfg.EffectiveMaxRuleListSize(),
	}
}

// LoadStats reports how LoadRules classified the lines of a rule list.
type LoadStats struct {
	// Blocking is the number of lines admitted as blocking filters.
	Blocking int
	// Whitelist is the number of lines admitted as whitelist filters.
	Whitelist int
	// Skipped is the number of recognized-but-irrelevant lines (comments,
	// element hiding, snippets).
	Skipped int
	// Invalid is the number of lines that failed to parse as any recognized
	// shape.
	Invalid int
}

// Total returns the number of non-empty lines LoadRules classified; empty
// lines are skipped and not counted.
func (s LoadStats) Total() (n int) {
	return s.Blocking + s.Whitelist + s.Skipped + s.Invalid
}

// LoadRules reads r line by line, admitting every blocking or whitelist
// filter to the engine's matcher and discarding everything else (spec §12):
// comment, element-hiding, element-hiding-exception, element-hiding-
// emulation and snippet lines are recognized and skipped rather than
// treated as errors, since a real subscription list interleaves all of
// these kinds. listID names the list in the log line and in returned errors.
func (e *Engine) LoadRules(ctx context.Context, listID string, r io.Reader) (stats LoadStats, err error) {
	limit := int64(e.maxListSize)
	limited := &io.LimitedReader{R: r, N: limit + 1}

	scanner := bufio.NewScanner(limited)
	// Filter-list lines can run long (some generic element-hiding lines
	// exceed bufio.MaxScanTokenSize's default); grow the buffer accordingly.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if limited.N <= 0 {
			return stats, fmt.Errorf(
				"engine: rule list %q exceeds the %s size limit", listID, e.maxListSize,
			)
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		f := e.textCache.Get(line)
		switch f.Kind {
		case rules.KindBlocking, rules.KindWhitelist:
			e.matcher.Add(f)
			if f.Kind == rules.KindBlocking {
				stats.Blocking++
			} else {
				stats.Whitelist++
			}
		case rules.KindInvalid:
			stats.Invalid++
		default:
			stats.Skipped++
		}
	}

	err = scanner.Err()
	if err != nil {
		return stats, fmt.Errorf("engine: reading rule list %q: %w", listID, err)
	}

	e.logger.InfoContext(
		ctx,
		"loaded rule list",
		"id", listID,
		"blocking", stats.Blocking,
		"whitelist", stats.Whitelist,
		"skipped", stats.Skipped,
		"invalid", stats.Invalid,
	)

	if e.obs != nil {
		for _, n := range e.matcher.KeywordBucketSizes() {
			e.obs.ObserveKeywordBucketSize(n)
		}
	}

	return stats, nil
}

// Add admits a single filter to the engine, bypassing the rule-list loader.
// f should come from e.ParseRule or e.textCache; it is the caller's
// responsibility to only pass Blocking or Whitelist filters.
func (e *Engine) Add(f *rules.Filter) {
	e.matcher.Add(f)
}

// Remove is Add's inverse.
func (e *Engine) Remove(f *rules.Filter) {
	e.matcher.Remove(f)
}

// ParseRule parses a single rule-list line through the engine's shared text
// memo, the same path LoadRules uses.
func (e *Engine) ParseRule(text string) (f *rules.Filter) {
	return e.textCache.Get(text)
}

// Clear empties the engine's matcher entirely.
func (e *Engine) Clear() {
	e.matcher.Clear()
}

// LoadRulesFromTexts joins ruleStrs into a single newline-delimited buffer
// via agdurlflt.RulesToBytes and loads it the same way LoadRules does. It
// exists for callers that already hold rule lines in memory (e.g. a
// subscription fetched over HTTP and split into lines) and would otherwise
// have to re-join them themselves.
func (e *Engine) LoadRulesFromTexts(ctx context.Context, listID string, ruleStrs []string) (stats LoadStats, err error) {
	b := agdurlflt.RulesToBytes(ruleStrs)

	return e.LoadRules(ctx, listID, bytes.NewReader(b))
}

// Match reports the highest-precedence filter that applies to rawURL as
// seen from docDomain, or nil if none applies, per spec §4.6.
func (e *Engine) Match(
	rawURL, docDomain string,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
) (hit *rules.Filter, err error) {
	req, err := urlreq.From(rawURL, docDomain)
	if err != nil {
		return nil, fmt.Errorf("engine: building request: %w", err)
	}

	return e.matcher.Match(req, typeMask, sitekey, specificOnly), nil
}

// IsWhitelisted reports whether a whitelist filter applies to rawURL as seen
// from docDomain.
func (e *Engine) IsWhitelisted(
	rawURL, docDomain string,
	typeMask rules.ContentType,
	sitekey string,
) (ok bool, err error) {
	req, err := urlreq.From(rawURL, docDomain)
	if err != nil {
		return false, fmt.Errorf("engine: building request: %w", err)
	}

	return e.matcher.IsWhitelisted(req, typeMask, sitekey), nil
}

// Search returns every filter that applies to rawURL as seen from docDomain,
// restricted by filterType, per spec §4.6.
func (e *Engine) Search(
	rawURL, docDomain string,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
	filterType combinedmatcher.FilterType,
) (result combinedmatcher.SearchResult, err error) {
	req, err := urlreq.From(rawURL, docDomain)
	if err != nil {
		return combinedmatcher.SearchResult{}, fmt.Errorf("engine: building request: %w", err)
	}

	return e.matcher.Search(req, typeMask, sitekey, specificOnly, filterType), nil
}

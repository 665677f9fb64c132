// Command urlfilter-bench loads one or more filter rule lists and matches a
// stream of URLs against them, reporting hits and throughput. It is the
// demo/benchmark CLI for the matching engine, grounded on the teacher's
// top-level main.go plus internal/cmd's environment/logging/error-collector
// conventions, scaled down to a single-purpose tool.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-adblock/urlfilter-engine/engine"
	"github.com/go-adblock/urlfilter-engine/enginecfg"
	"github.com/go-adblock/urlfilter-engine/engineobs"
	"github.com/go-adblock/urlfilter-engine/rules"
)

func main() {
	manifestPath := flag.String("manifest", "", "path to the benchmark manifest (YAML)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := slogutil.New(&slogutil.Config{
		Output:       os.Stdout,
		Format:       slogutil.FormatAdGuardLegacy,
		AddTimestamp: true,
		Verbose:      *verbose,
	})

	ctx := context.Background()

	err := run(ctx, logger, *manifestPath)
	if err != nil {
		logger.ErrorContext(ctx, "urlfilter-bench: fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, manifestPath string) (err error) {
	if manifestPath == "" {
		return fmt.Errorf("usage: urlfilter-bench -manifest=<path.yaml>")
	}

	m, err := readManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	errColl := buildErrColl()

	reg := prometheus.NewRegistry()
	obs, err := engineobs.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	typeMask := rules.RESOURCE_TYPES
	if m.TypeMask != "" {
		ct, ok := rules.ParseContentTypeName(m.TypeMask)
		if !ok {
			return fmt.Errorf("manifest: unknown type_mask %q", m.TypeMask)
		}

		typeMask = ct
	}

	eng, err := loadEngine(ctx, logger, errColl, obs, m)
	if err != nil {
		return fmt.Errorf("loading engine: %w", err)
	}

	report, err := benchmark(eng, obs, m.URLsFile, typeMask)
	if err != nil {
		return fmt.Errorf("running benchmark: %w", err)
	}

	logger.InfoContext(
		ctx,
		"benchmark finished",
		"urls", report.total,
		"hits", report.hits,
		"elapsed", report.elapsed,
		"urls_per_sec", report.urlsPerSecond(),
	)

	return nil
}

// buildErrColl returns a Sentry collector when SENTRY_DSN is set in the
// environment, falling back to a stderr writer, as the teacher's
// environments.buildErrColl does for its SENTRY_DSN env var.
func buildErrColl() (coll engineobs.ErrorCollector) {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return engineobs.NewWriterErrorCollector(os.Stderr)
	}

	cli, err := sentry.NewClient(sentry.ClientOptions{Dsn: dsn})
	if err != nil {
		return engineobs.NewWriterErrorCollector(os.Stderr)
	}

	return engineobs.NewSentryErrorCollector(cli)
}

// loadEngine builds an Engine and loads every rule list named in m,
// recording per-list rule counts in obs.
func loadEngine(
	ctx context.Context,
	logger *slog.Logger,
	errColl engineobs.ErrorCollector,
	obs *engineobs.Metrics,
	m *manifest,
) (eng *engine.Engine, err error) {
	cfg, err := enginecfg.Read()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	eng = engine.New(cfg, logger)
	eng.SetObserver(obs)

	for listID, path := range m.Lists {
		f, openErr := os.Open(path)
		if openErr != nil {
			engineobs.CollectAndLog(ctx, errColl, logger, "opening rule list", openErr)

			return nil, fmt.Errorf("opening rule list %q: %w", listID, openErr)
		}

		stats, loadErr := eng.LoadRules(ctx, listID, f)
		_ = f.Close()
		if loadErr != nil {
			engineobs.CollectAndLog(ctx, errColl, logger, "loading rule list", loadErr)

			return nil, fmt.Errorf("loading rule list %q: %w", listID, loadErr)
		}

		obs.SetRulesLoaded(listID, "blocking", stats.Blocking)
		obs.SetRulesLoaded(listID, "whitelist", stats.Whitelist)
	}

	return eng, nil
}

// benchReport summarizes one benchmark run.
type benchReport struct {
	total   int
	hits    int
	elapsed time.Duration
}

func (r benchReport) urlsPerSecond() (rate float64) {
	if r.elapsed <= 0 {
		return 0
	}

	return float64(r.total) / r.elapsed.Seconds()
}

// benchmark reads "rawURL docDomain" pairs from path and matches each
// against eng, recording the outcome in obs.
func benchmark(
	eng *engine.Engine,
	obs *engineobs.Metrics,
	path string,
	typeMask rules.ContentType,
) (report benchReport, err error) {
	f, err := os.Open(path)
	if err != nil {
		return benchReport{}, fmt.Errorf("opening urls file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	start := time.Now()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rawURL, docDomain, ok := strings.Cut(line, " ")
		if !ok {
			rawURL, docDomain = line, ""
		}

		hit, matchErr := eng.Match(rawURL, docDomain, typeMask, "", false)
		if matchErr != nil {
			continue
		}

		report.total++
		obs.ObserveMatch(hit != nil)
		if hit != nil {
			report.hits++
		}
	}

	report.elapsed = time.Since(start)

	err = scanner.Err()
	if err != nil {
		return report, fmt.Errorf("reading urls file: %w", err)
	}

	return report, nil
}

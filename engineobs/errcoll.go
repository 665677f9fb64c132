package engineobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// ErrorCollector processes errors encountered while loading rule lists; the
// demo CLI reports through it a failure to open or load a rule list.  A
// filter line whose regex fails to build is not reported here: it becomes an
// Invalid filter and is counted in engine.LoadStats.Invalid.
type ErrorCollector interface {
	Collect(ctx context.Context, err error)
}

// WriterErrorCollector writes collected errors to w, grounded on the
// teacher's errcoll.WriterErrorCollector. It's the default used by the demo
// CLI when no Sentry DSN is configured.
type WriterErrorCollector struct {
	w io.Writer
}

// NewWriterErrorCollector returns a new WriterErrorCollector.
func NewWriterErrorCollector(w io.Writer) (c *WriterErrorCollector) {
	return &WriterErrorCollector{w: w}
}

// Collect implements the ErrorCollector interface for *WriterErrorCollector.
func (c *WriterErrorCollector) Collect(_ context.Context, err error) {
	_, _ = fmt.Fprintf(c.w, "%s: urlfilter-bench: caught error: %s\n", time.Now().Format(time.RFC3339), err)
}

// SentryErrorCollector sends collected errors to a Sentry-compatible HTTP
// API, grounded on the teacher's errcoll.SentryErrorCollector, trimmed down
// to the single-process demo CLI's needs (no request-context tag
// extraction).
type SentryErrorCollector struct {
	client *sentry.Client
}

// NewSentryErrorCollector returns a new SentryErrorCollector. cli must be
// non-nil.
func NewSentryErrorCollector(cli *sentry.Client) (c *SentryErrorCollector) {
	return &SentryErrorCollector{client: cli}
}

// Collect implements the ErrorCollector interface for *SentryErrorCollector.
func (c *SentryErrorCollector) Collect(ctx context.Context, err error) {
	c.client.CaptureException(err, &sentry.EventHint{Context: ctx}, sentry.NewScope())
}

// CollectAndLog writes err to logger and reports it to coll, the engine's
// equivalent of the teacher's errcoll.Collect helper.
func CollectAndLog(ctx context.Context, coll ErrorCollector, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(ctx, msg, "err", err)
	coll.Collect(ctx, fmt.Errorf("%s: %w", msg, err))
}

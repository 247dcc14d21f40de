// Package cli implements the orgchart command-line interface.
//
// Commands read the hierarchy from the configured source (see package
// config) and print it as a terminal tree, a roster table, an element
// table, or a positioned graph. browse opens an interactive view with
// collapsible nodes and serve starts the HTTP API.
//
// # Commands
//
//   - tree: the active hierarchy, reservists excluded
//   - roster: reservists grouped by element
//   - elements: the element tree with billets inlined
//   - graph: the positioned chart as JSON or DOT
//   - browse: interactive collapsible view
//   - serve: HTTP API with metrics
//   - cache: inspect and clear the record cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Otherwise the
// level comes from the [log] section of the configuration. The logger is
// attached to the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Built graph (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

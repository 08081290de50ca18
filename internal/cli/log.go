// Package cli implements the boolnet command-line interface.
//
// Commands generate random networks, load and display networks in the text
// format, step them, render them with Graphviz, run an interactive stepper,
// serve the HTTP API, and manage stored sessions and the render cache.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context, and the library instrumentation hooks in
// pkg/observability are bound to it, so loads, saves and cache lookups show
// up as debug lines.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond,
// e.g. "Stepped 100 generations (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// loggingHooks reports library events as debug log lines.
type loggingHooks struct {
	logger *log.Logger
}

func (h loggingHooks) OnGenerate(_ context.Context, nodes int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("generate failed", "nodes", nodes, "err", err)
		return
	}
	h.logger.Debug("generated network", "nodes", nodes, "duration", dur)
}

func (h loggingHooks) OnLoad(_ context.Context, source string, nodes int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("loaded network", "source", source, "nodes", nodes, "duration", dur)
}

func (h loggingHooks) OnStep(_ context.Context, gen uint64, nodes int, dur time.Duration) {
	h.logger.Debug("step", "generation", gen, "nodes", nodes, "duration", dur)
}

func (h loggingHooks) OnSave(_ context.Context, backend, id string, size int, err error) {
	h.logger.Debug("session save", "backend", backend, "id", id, "bytes", size, "err", err)
}

func (h loggingHooks) OnFetch(_ context.Context, backend, id string, found bool, err error) {
	h.logger.Debug("session fetch", "backend", backend, "id", id, "found", found, "err", err)
}

func (h loggingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h loggingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h loggingHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

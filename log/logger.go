// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Levels accepted by the verbosity flags.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// Logger writes key/value pairs through the root handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

// WithContext returns a logger carrying ctx. It is safe to create package level loggers with it:
// the root handler is resolved on every write, so a later SetDefault still applies.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

type logger struct {
	ctx []any
}

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &logger{ctx: append(merged, ctx...)}
}

func (l *logger) write(level slog.Level, msg string, ctx []any) {
	all := make([]any, 0, len(l.ctx)+len(ctx))
	all = append(all, l.ctx...)
	gethlog.Root().Log(level, msg, append(all, ctx...)...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }

var root = WithContext()

// SetDefault routes every logger to h.
func SetDefault(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// FromLegacyLevel converts a 0-5 verbosity into a slog level, larger values mean trace.
func FromLegacyLevel(lvl int) slog.Level {
	return gethlog.FromLegacyLevel(lvl)
}

func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// Package logifaceadapter adapts a github.com/joeycumines/logiface logger
// into the pthread.Logger interface, so a caller who already has a logiface
// pipeline configured for the rest of their program can point this
// runtime's diagnostics at it instead of writing a bespoke shim.
package logifaceadapter

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/logiface/stumpy"

	"github.com/jiuzhuaxiong/pthreads-go"
)

// Adapter wraps a *logiface.Logger[E] as a pthread.Logger. E is left
// generic rather than pinned to *stumpy.Event so a caller with their own
// Event implementation (zerolog, logrus, slog, or any other logiface
// backend) can reuse this adapter unchanged.
type Adapter[E logiface.Event] struct {
	logger *logiface.Logger[E]
}

// New wraps logger as a pthread.Logger.
func New[E logiface.Event](logger *logiface.Logger[E]) *Adapter[E] {
	return &Adapter[E]{logger: logger}
}

// NewStumpy is a convenience constructor wiring pthread's diagnostics
// straight to a stumpy (structured-JSON) writer, with no further
// configuration required.
func NewStumpy(opts ...stumpy.Option) *Adapter[*stumpy.Event] {
	return New(stumpy.L.New(stumpy.WithStumpy(opts...)))
}

// Log implements pthread.Logger.
func (a *Adapter[E]) Log(level pthread.Level, msg string, fields map[string]any) {
	b := a.logger.Build(toLogifaceLevel(level))
	if b == nil || !b.Enabled() {
		return
	}
	for k, v := range fields {
		b = b.Any(k, v)
	}
	b.Log(msg)
}

func toLogifaceLevel(level pthread.Level) logiface.Level {
	switch level {
	case pthread.LevelDebug:
		return logiface.LevelDebug
	case pthread.LevelInfo:
		return logiface.LevelInformational
	case pthread.LevelWarn:
		return logiface.LevelWarning
	case pthread.LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives a copy of every record emitted through package loggers.
// Used to fan out logs to an external collector without touching call sites.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirrorFn atomic.Pointer[MirrorFunc]

func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirrorFn.Store(nil)
		return
	}
	mirrorFn.Store(&fn)
}

func mirrorRecord(ctx context.Context, level Level, msg string, args []any) {
	ptr := mirrorFn.Load()
	if ptr == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	(*ptr)(ctx, level, msg, args...)
}

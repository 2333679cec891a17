package logging

import (
	"context"
	"log/slog"
)

// fanout delivers every record to a set of underlying handlers, so the
// pipeline can log to the console and the session file at once. Nil
// handlers are dropped at construction.
type fanout struct {
	targets []slog.Handler
}

func newFanout(handlers ...slog.Handler) *fanout {
	f := &fanout{targets: make([]slog.Handler, 0, len(handlers))}
	for _, h := range handlers {
		if h != nil {
			f.targets = append(f.targets, h)
		}
	}
	return f
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.targets {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers to every enabled target. A failing target does not stop
// delivery to the rest.
func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.targets {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		_ = h.Handle(ctx, r.Clone())
	}
	return nil
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	targets := make([]slog.Handler, len(f.targets))
	for i, h := range f.targets {
		targets[i] = h.WithAttrs(attrs)
	}
	return &fanout{targets: targets}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	targets := make([]slog.Handler, len(f.targets))
	for i, h := range f.targets {
		targets[i] = h.WithGroup(name)
	}
	return &fanout{targets: targets}
}

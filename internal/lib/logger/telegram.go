package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier delivers a plain-text alert to the service admin.
type Notifier interface {
	SendMessage(msg string)
}

// telegramHandler mirrors records at or above minLevel to a Notifier
// while delegating everything to the wrapped handler.
type telegramHandler struct {
	inner    slog.Handler
	notifier Notifier
	minLevel slog.Level
}

// SetupTelegramHandler wraps the logger so that records at or above
// level are also pushed to the admin chat.
func SetupTelegramHandler(log *slog.Logger, notifier Notifier, level slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		inner:    log.Handler(),
		notifier: notifier,
		minLevel: level,
	})
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= h.minLevel && h.notifier != nil {
		text := fmt.Sprintf("[%s] %s", record.Level, record.Message)
		record.Attrs(func(attr slog.Attr) bool {
			text += fmt.Sprintf("\n%s: %s", attr.Key, attr.Value)
			return true
		})
		h.notifier.SendMessage(text)
	}
	return h.inner.Handle(ctx, record)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{
		inner:    h.inner.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
	}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{
		inner:    h.inner.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
	}
}

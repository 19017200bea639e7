package middleware

import (
	"log/slog"

	"github.com/AsilbekWeb09/Reklama-bot/core/logger"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions configures admin gating for a handler or group.
type AdminOptions struct {
	AdminID int64
	// Silent suppresses the denial message, the update is just dropped.
	Silent bool
	// DeniedText overrides the default denial reply.
	DeniedText string
}

// AdminOnlyMiddleware drops updates from anyone but the configured admin.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return WithAdminCheck(next, opts)
	}
}

// WithAdminCheck wraps a single handler with the admin gate.
func WithAdminCheck(next tele.HandlerFunc, opts AdminOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil || sender.ID != opts.AdminID {
			ctx := helpers.BuildContext(c)
			logger.Debug(ctx, "tg", "access.denied",
				slog.String("cause", "not_admin"),
			)
			if opts.Silent {
				return nil
			}
			text := opts.DeniedText
			if text == "" {
				text = "⛔ Bu buyruq faqat admin uchun."
			}
			return c.Send(text)
		}
		return next(c)
	}
}

package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/AsilbekWeb09/Reklama-bot/core/config"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared middleware chain for bots.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited func(c tele.Context)) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		interval := time.Duration(cfg.Flood.IntervalMS) * time.Millisecond
		if interval > 0 {
			opts := middleware.RateLimitOptions{
				Interval:  interval,
				OnLimited: onLimited,
			}
			for _, t := range cfg.Flood.ExcludeUpdates {
				if strings.EqualFold(t, "callback") {
					opts.ExcludeCallbacks = true
				}
			}
			mws = append(mws, Middleware{
				Name: "flood_gate",
				Use:  middleware.RateLimitMiddleware(opts),
			})
		}
	}

	mws = append(mws, Middleware{Name: "logger", Use: middleware.LoggerMiddleware})

	return mws
}

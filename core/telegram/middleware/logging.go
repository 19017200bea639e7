package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/AsilbekWeb09/Reklama-bot/core/logger"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// recentUpdates dedupes update.received logs when Telegram redelivers
// the same update (e.g. after a long-poll timeout).
var recentUpdates = struct {
	sync.Mutex
	seen   map[int]time.Time
	lastGC time.Time
}{seen: make(map[int]time.Time)}

const (
	updateDedupeWindow = 2 * time.Minute
	updateDedupeGC     = 5 * time.Minute
)

func markUpdateSeen(id int) bool {
	recentUpdates.Lock()
	defer recentUpdates.Unlock()

	now := time.Now()
	if now.Sub(recentUpdates.lastGC) > updateDedupeGC {
		recentUpdates.lastGC = now
		for k, ts := range recentUpdates.seen {
			if now.Sub(ts) > updateDedupeWindow {
				delete(recentUpdates.seen, k)
			}
		}
	}

	if ts, ok := recentUpdates.seen[id]; ok && now.Sub(ts) <= updateDedupeWindow {
		return false
	}
	recentUpdates.seen[id] = now
	return true
}

// LoggerMiddleware assigns a request ID to every update and emits a debug
// record describing the inbound update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()

		var userID, chatID int64
		if s := c.Sender(); s != nil {
			userID = s.ID
		}
		if ch := c.Chat(); ch != nil {
			chatID = ch.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		ctx := helpers.BuildContext(c)

		if markUpdateSeen(upd.ID) && logger.ShouldSampleDebug() {
			logger.Debug(ctx, "tg", "update.received",
				slog.String("kind", updateKind(upd)),
			)
		}

		return next(c)
	}
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil && upd.Message.Photo != nil:
		return "photo"
	case upd.Message != nil:
		return "message"
	default:
		return "other"
	}
}

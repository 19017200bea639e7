package service

import (
	"context"
	"log/slog"

	"github.com/AsilbekWeb09/Reklama-bot/core/logger"
)

// RecipientsRepo lists the ids a broadcast fans out to.
type RecipientsRepo interface {
	ActiveIDs(ctx context.Context) ([]int64, error)
}

// SendFunc delivers one broadcast message to one user.
type SendFunc func(userID int64, text string) error

// Broadcast fans a message out to every non-banned user sequentially.
// Per-recipient failures (blocked bot, deleted account) are tallied and
// never abort the remaining sends.
type Broadcast struct {
	repo RecipientsRepo
}

// NewBroadcast returns the broadcast service.
func NewBroadcast(repo RecipientsRepo) *Broadcast {
	return &Broadcast{repo: repo}
}

// Run delivers text to all active users and returns the sent/failed tally.
func (s *Broadcast) Run(ctx context.Context, text string, send SendFunc) (sent, failed int, err error) {
	ids, err := s.repo.ActiveIDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return sent, failed, err
		}
		if err := send(id, text); err != nil {
			failed++
			continue
		}
		sent++
	}

	logger.LogEvent(ctx, logger.SVCBroadcast, slog.LevelInfo, "broadcast.done",
		slog.Int("sent", sent),
		slog.Int("failed", failed),
	)
	return sent, failed, nil
}

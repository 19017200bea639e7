package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
	"github.com/AsilbekWeb09/Reklama-bot/core/logger"
)

var (
	// ErrNoPrize reports an attempt to start a giveaway before a prize is set.
	ErrNoPrize = errors.New("giveaway prize not set")
	// ErrGiveawayOff reports winner selection while the giveaway is inactive.
	ErrGiveawayOff = errors.New("giveaway not active")
	// ErrNoParticipants reports winner selection over an empty user table.
	ErrNoParticipants = errors.New("no eligible participants")
)

// SettingsRepo is the persistence surface for the settings singleton.
type SettingsRepo interface {
	Get(ctx context.Context) (models.Settings, error)
	SetActive(ctx context.Context, active bool) error
	SetPrize(ctx context.Context, prize string) error
}

// WinnerRepo selects the ranking winner.
type WinnerRepo interface {
	TopUser(ctx context.Context) (models.User, error)
}

// Giveaway manages the on/off flag, the prize label and winner selection.
type Giveaway struct {
	settings SettingsRepo
	users    WinnerRepo
}

// NewGiveaway returns the giveaway service.
func NewGiveaway(settings SettingsRepo, users WinnerRepo) *Giveaway {
	return &Giveaway{settings: settings, users: users}
}

// Status returns the current settings.
func (s *Giveaway) Status(ctx context.Context) (models.Settings, error) {
	return s.settings.Get(ctx)
}

// TurnOn activates the giveaway. Refused while the prize still equals the
// sentinel label.
func (s *Giveaway) TurnOn(ctx context.Context) error {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if st.GiveawayPrize == models.PrizeSentinel {
		return ErrNoPrize
	}
	if err := s.settings.SetActive(ctx, true); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCGiveaway, slog.LevelInfo, "giveaway.on",
		slog.String("prize", st.GiveawayPrize),
	)
	return nil
}

// TurnOff deactivates the giveaway. Always allowed.
func (s *Giveaway) TurnOff(ctx context.Context) error {
	if err := s.settings.SetActive(ctx, false); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCGiveaway, slog.LevelInfo, "giveaway.off")
	return nil
}

// SetPrize replaces the prize label.
func (s *Giveaway) SetPrize(ctx context.Context, prize string) error {
	if err := s.settings.SetPrize(ctx, prize); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCGiveaway, slog.LevelInfo, "giveaway.prize_set",
		slog.String("prize", prize),
	)
	return nil
}

// Winner picks the highest-points non-banned user. Refused while the
// giveaway is off. Selection does not change giveaway state.
func (s *Giveaway) Winner(ctx context.Context) (models.User, models.Settings, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return models.User{}, models.Settings{}, err
	}
	if !st.GiveawayActive {
		return models.User{}, st, ErrGiveawayOff
	}

	winner, err := s.users.TopUser(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, st, ErrNoParticipants
	}
	if err != nil {
		return models.User{}, st, err
	}

	logger.LogEvent(ctx, logger.SVCGiveaway, slog.LevelInfo, "giveaway.winner",
		slog.Int64("user_id", winner.ID),
		slog.Int64("points", winner.Points),
		slog.String("prize", st.GiveawayPrize),
	)
	return winner, st, nil
}

// Package service contains the domain logic between the Telegram handlers
// and the repositories.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
	"github.com/AsilbekWeb09/Reklama-bot/core/logger"
)

// ErrUserNotFound reports a lookup for an id that was never registered.
var ErrUserNotFound = errors.New("user not found")

// UsersRepo is the persistence surface the users service relies on.
type UsersRepo interface {
	CreateIfAbsent(ctx context.Context, u models.User) (bool, error)
	Get(ctx context.Context, id int64) (models.User, error)
	AddPoints(ctx context.Context, id, delta int64) error
	SetBanned(ctx context.Context, id int64, banned bool) error
	IsBanned(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	BannedCount(ctx context.Context) (int64, error)
	Top(ctx context.Context, limit int) ([]models.User, error)
	Page(ctx context.Context, page, perPage int) ([]models.User, error)
	ActiveIDs(ctx context.Context) ([]int64, error)
	TopUser(ctx context.Context) (models.User, error)
}

// Users implements registration, referral crediting and the admin
// point/ban operations.
type Users struct {
	repo UsersRepo
}

// NewUsers returns the users service over repo.
func NewUsers(repo UsersRepo) *Users {
	return &Users{repo: repo}
}

// Register inserts the user on first contact and credits one point to the
// referrer. Re-registration is a no-op and never credits again; a referral
// code equal to the user's own id never credits.
func (s *Users) Register(ctx context.Context, id int64, username, firstName string, invitedBy int64) (created bool, err error) {
	u := models.User{
		ID:        id,
		Username:  nullString(username),
		FirstName: nullString(firstName),
	}
	referrer := invitedBy
	if referrer == id || referrer <= 0 {
		referrer = 0
	}
	if referrer != 0 {
		u.InvitedBy = sql.NullInt64{Int64: referrer, Valid: true}
	}

	created, err = s.repo.CreateIfAbsent(ctx, u)
	if err != nil {
		return false, err
	}
	if !created || referrer == 0 {
		return created, nil
	}

	// Second statement, not transactional with the insert.
	if err := s.repo.AddPoints(ctx, referrer, 1); err != nil {
		return true, err
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelInfo, "referral.credited",
		slog.Int64("user_id", id),
		slog.Int64("referrer_id", referrer),
	)
	return true, nil
}

// Info fetches a single user, mapping missing rows to ErrUserNotFound.
func (s *Users) Info(ctx context.Context, id int64) (models.User, error) {
	u, err := s.repo.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

// AddPoints applies a positive admin credit.
func (s *Users) AddPoints(ctx context.Context, id, delta int64) error {
	if err := s.repo.AddPoints(ctx, id, delta); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelInfo, "points.added",
		slog.Int64("user_id", id),
		slog.Int64("points", delta),
	)
	return nil
}

// RemovePoints applies an admin deduction. The balance may go negative.
func (s *Users) RemovePoints(ctx context.Context, id, delta int64) error {
	if err := s.repo.AddPoints(ctx, id, -delta); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelInfo, "points.removed",
		slog.Int64("user_id", id),
		slog.Int64("points", delta),
	)
	return nil
}

// Ban blocks the user from every surface except /admin.
func (s *Users) Ban(ctx context.Context, id int64) error {
	return s.repo.SetBanned(ctx, id, true)
}

// Unban lifts the block.
func (s *Users) Unban(ctx context.Context, id int64) error {
	return s.repo.SetBanned(ctx, id, false)
}

// IsBanned reports the ban flag; unknown users pass.
func (s *Users) IsBanned(ctx context.Context, id int64) (bool, error) {
	return s.repo.IsBanned(ctx, id)
}

// Count returns the total number of users.
func (s *Users) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// BannedCount returns the number of banned users.
func (s *Users) BannedCount(ctx context.Context) (int64, error) {
	return s.repo.BannedCount(ctx)
}

// Top lists the ranking shown to users.
func (s *Users) Top(ctx context.Context, limit int) ([]models.User, error) {
	return s.repo.Top(ctx, limit)
}

// Page lists one admin listing page (1-based).
func (s *Users) Page(ctx context.Context, page, perPage int) ([]models.User, error) {
	return s.repo.Page(ctx, page, perPage)
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// Package storage implements sqlx repositories over the bot schema. Every
// method is a single statement, there are no multi-statement transactions.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
)

// UsersRepo persists bot participants.
type UsersRepo struct {
	db *sqlx.DB
}

// NewUsersRepo returns a users repository over db.
func NewUsersRepo(db *sqlx.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

// CreateIfAbsent inserts the user unless a row with the same id exists.
// It reports whether a row was actually inserted.
func (r *UsersRepo) CreateIfAbsent(ctx context.Context, u models.User) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, first_name, points, invited_by, is_banned)
		VALUES ($1, $2, $3, 0, $4, FALSE)
		ON CONFLICT (user_id) DO NOTHING`,
		u.ID, u.Username, u.FirstName, u.InvitedBy,
	)
	if err != nil {
		return false, fmt.Errorf("users: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("users: insert rows: %w", err)
	}
	return n > 0, nil
}

// Get fetches a single user by id. sql.ErrNoRows passes through.
func (r *UsersRepo) Get(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `
		SELECT user_id, username, first_name, points, invited_by, is_banned
		FROM users WHERE user_id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("users: get %d: %w", id, err)
	}
	return u, nil
}

// AddPoints applies a signed delta to the balance. Negative balances are allowed.
func (r *UsersRepo) AddPoints(ctx context.Context, id, delta int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET points = points + $2 WHERE user_id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("users: add points: %w", err)
	}
	return nil
}

// SetBanned flips the ban flag.
func (r *UsersRepo) SetBanned(ctx context.Context, id int64, banned bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_banned = $2 WHERE user_id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("users: set banned: %w", err)
	}
	return nil
}

// IsBanned reports the ban flag; unknown users are not banned.
func (r *UsersRepo) IsBanned(ctx context.Context, id int64) (bool, error) {
	var banned bool
	err := r.db.GetContext(ctx, &banned,
		`SELECT is_banned FROM users WHERE user_id = $1`, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("users: is banned: %w", err)
	}
	return banned, nil
}

// Count returns the total number of users.
func (r *UsersRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("users: count: %w", err)
	}
	return n, nil
}

// BannedCount returns the number of banned users.
func (r *UsersRepo) BannedCount(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM users WHERE is_banned`); err != nil {
		return 0, fmt.Errorf("users: banned count: %w", err)
	}
	return n, nil
}

// Top lists up to limit non-banned users ranked by points.
func (r *UsersRepo) Top(ctx context.Context, limit int) ([]models.User, error) {
	var list []models.User
	err := r.db.SelectContext(ctx, &list, `
		SELECT user_id, username, first_name, points, invited_by, is_banned
		FROM users WHERE NOT is_banned
		ORDER BY points DESC, user_id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("users: top: %w", err)
	}
	return list, nil
}

// Page lists one page of users ranked by points. Pages are 1-based.
func (r *UsersRepo) Page(ctx context.Context, page, perPage int) ([]models.User, error) {
	if page < 1 {
		page = 1
	}
	var list []models.User
	err := r.db.SelectContext(ctx, &list, `
		SELECT user_id, username, first_name, points, invited_by, is_banned
		FROM users
		ORDER BY points DESC, user_id ASC
		LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("users: page %d: %w", page, err)
	}
	return list, nil
}

// ActiveIDs lists all non-banned user ids for broadcast fan-out.
func (r *UsersRepo) ActiveIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM users WHERE NOT is_banned ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("users: active ids: %w", err)
	}
	return ids, nil
}

// TopUser returns the highest-ranked non-banned user. Ties are broken by
// the lower user id so the result is deterministic. sql.ErrNoRows passes
// through when the table holds no eligible users.
func (r *UsersRepo) TopUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `
		SELECT user_id, username, first_name, points, invited_by, is_banned
		FROM users WHERE NOT is_banned
		ORDER BY points DESC, user_id ASC
		LIMIT 1`)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("users: top user: %w", err)
	}
	return u, nil
}

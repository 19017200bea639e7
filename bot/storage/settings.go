package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
)

// SettingsRepo persists the singleton settings row (id = 1, seeded by the
// init migration).
type SettingsRepo struct {
	db *sqlx.DB
}

// NewSettingsRepo returns a settings repository over db.
func NewSettingsRepo(db *sqlx.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get fetches the settings row.
func (r *SettingsRepo) Get(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := r.db.GetContext(ctx, &s,
		`SELECT id, giveaway_active, giveaway_prize FROM settings WHERE id = 1`)
	if err != nil {
		return models.Settings{}, fmt.Errorf("settings: get: %w", err)
	}
	return s, nil
}

// SetActive flips the giveaway flag.
func (r *SettingsRepo) SetActive(ctx context.Context, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET giveaway_active = $1 WHERE id = 1`, active)
	if err != nil {
		return fmt.Errorf("settings: set active: %w", err)
	}
	return nil
}

// SetPrize replaces the prize label.
func (r *SettingsRepo) SetPrize(ctx context.Context, prize string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET giveaway_prize = $1 WHERE id = 1`, prize)
	if err != nil {
		return fmt.Errorf("settings: set prize: %w", err)
	}
	return nil
}

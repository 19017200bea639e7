package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
)

// OrdersRepo persists advertisement orders.
type OrdersRepo struct {
	db *sqlx.DB
}

// NewOrdersRepo returns an orders repository over db.
func NewOrdersRepo(db *sqlx.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

// Create inserts a pending order and returns its id.
func (r *OrdersRepo) Create(ctx context.Context, o models.AdOrder) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO ads_orders (user_id, package, price, ad_text, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id`,
		o.UserID, o.Package, o.Price, o.AdText,
	)
	if err != nil {
		return 0, fmt.Errorf("orders: create: %w", err)
	}
	return id, nil
}

// ByID fetches a single order. sql.ErrNoRows passes through.
func (r *OrdersRepo) ByID(ctx context.Context, id int64) (models.AdOrder, error) {
	var o models.AdOrder
	err := r.db.GetContext(ctx, &o, `
		SELECT id, user_id, package, price, ad_text, receipt_file_id, status, created_at
		FROM ads_orders WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.AdOrder{}, err
		}
		return models.AdOrder{}, fmt.Errorf("orders: by id %d: %w", id, err)
	}
	return o, nil
}

// LastPending returns the user's most recent pending order.
// sql.ErrNoRows passes through when none is open.
func (r *OrdersRepo) LastPending(ctx context.Context, userID int64) (models.AdOrder, error) {
	var o models.AdOrder
	err := r.db.GetContext(ctx, &o, `
		SELECT id, user_id, package, price, ad_text, receipt_file_id, status, created_at
		FROM ads_orders
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY id DESC
		LIMIT 1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.AdOrder{}, err
		}
		return models.AdOrder{}, fmt.Errorf("orders: last pending for %d: %w", userID, err)
	}
	return o, nil
}

// AttachReceipt stores the receipt file id and moves the order to
// waiting_admin. Only a pending order accepts a receipt; the result reports
// whether a row changed.
func (r *OrdersRepo) AttachReceipt(ctx context.Context, id int64, fileID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ads_orders
		SET receipt_file_id = $2, status = 'waiting_admin'
		WHERE id = $1 AND status = 'pending'`, id, fileID)
	if err != nil {
		return false, fmt.Errorf("orders: attach receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("orders: attach receipt rows: %w", err)
	}
	return n > 0, nil
}

// Decide moves a waiting_admin order to a terminal status. The guard in the
// WHERE clause makes terminal transitions single-shot: a second decision on
// the same order changes no row.
func (r *OrdersRepo) Decide(ctx context.Context, id int64, to models.OrderStatus) (bool, error) {
	if !to.Terminal() {
		return false, fmt.Errorf("orders: decide to non-terminal status %q", to)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE ads_orders SET status = $2
		WHERE id = $1 AND status = 'waiting_admin'`, id, string(to))
	if err != nil {
		return false, fmt.Errorf("orders: decide: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("orders: decide rows: %w", err)
	}
	return n > 0, nil
}

// WaitingReview lists up to limit orders awaiting an admin decision,
// oldest first.
func (r *OrdersRepo) WaitingReview(ctx context.Context, limit int) ([]models.AdOrder, error) {
	var list []models.AdOrder
	err := r.db.SelectContext(ctx, &list, `
		SELECT id, user_id, package, price, ad_text, receipt_file_id, status, created_at
		FROM ads_orders
		WHERE status = 'waiting_admin'
		ORDER BY id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("orders: waiting review: %w", err)
	}
	return list, nil
}

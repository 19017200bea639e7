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
	// ErrNoOpenOrder reports a receipt arriving with no pending order to bind to.
	ErrNoOpenOrder = errors.New("no open order")
	// ErrAlreadyDecided reports a decision on an order that is already terminal.
	ErrAlreadyDecided = errors.New("order already decided")
	// ErrOrderNotFound reports a decision on an unknown order id.
	ErrOrderNotFound = errors.New("order not found")
)

// OrdersRepo is the persistence surface the orders service relies on.
type OrdersRepo interface {
	Create(ctx context.Context, o models.AdOrder) (int64, error)
	ByID(ctx context.Context, id int64) (models.AdOrder, error)
	LastPending(ctx context.Context, userID int64) (models.AdOrder, error)
	AttachReceipt(ctx context.Context, id int64, fileID string) (bool, error)
	Decide(ctx context.Context, id int64, to models.OrderStatus) (bool, error)
	WaitingReview(ctx context.Context, limit int) ([]models.AdOrder, error)
}

// Notifier delivers outbound messages for order decisions. Channel sends
// publish the approved ad; user sends carry the decision notice.
type Notifier interface {
	SendUser(userID int64, text string) error
	SendChannel(text string) error
}

// Orders drives the advertisement order lifecycle.
type Orders struct {
	repo     OrdersRepo
	notifier Notifier
}

// NewOrders returns the orders service.
func NewOrders(repo OrdersRepo, notifier Notifier) *Orders {
	return &Orders{repo: repo, notifier: notifier}
}

// Create opens a pending order for the captured ad text.
func (s *Orders) Create(ctx context.Context, userID int64, pkg models.AdPackage, adText string) (int64, error) {
	id, err := s.repo.Create(ctx, models.AdOrder{
		UserID:  userID,
		Package: pkg.Label,
		Price:   pkg.Price,
		AdText:  adText,
	})
	if err != nil {
		return 0, err
	}
	logger.LogEvent(ctx, logger.SVCOrders, slog.LevelInfo, "order.created",
		slog.Int64("order_id", id),
		slog.Int64("user_id", userID),
		slog.String("package", pkg.Label),
		slog.Int64("price", pkg.Price),
	)
	return id, nil
}

// SubmitReceipt binds a payment receipt to the order the conversation
// carries. When the binding is missing (restart mid-flow) it falls back to
// the user's most recent pending order. The order moves to waiting_admin.
func (s *Orders) SubmitReceipt(ctx context.Context, userID, orderID int64, fileID string) (models.AdOrder, error) {
	if orderID == 0 {
		last, err := s.repo.LastPending(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.AdOrder{}, ErrNoOpenOrder
		}
		if err != nil {
			return models.AdOrder{}, err
		}
		orderID = last.ID
	}

	changed, err := s.repo.AttachReceipt(ctx, orderID, fileID)
	if err != nil {
		return models.AdOrder{}, err
	}
	if !changed {
		return models.AdOrder{}, ErrNoOpenOrder
	}

	order, err := s.repo.ByID(ctx, orderID)
	if err != nil {
		return models.AdOrder{}, err
	}
	logger.LogEvent(ctx, logger.SVCOrders, slog.LevelInfo, "order.receipt_attached",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", userID),
		slog.String("order_status", string(order.Status)),
	)
	return order, nil
}

// Approve moves the order to approved, publishes the ad text to the channel
// and notifies the submitter. A second approval of the same order returns
// ErrAlreadyDecided and neither publishes nor notifies again.
func (s *Orders) Approve(ctx context.Context, orderID int64) (models.AdOrder, error) {
	order, err := s.decide(ctx, orderID, models.OrderApproved)
	if err != nil {
		return order, err
	}

	if err := s.notifier.SendChannel(order.AdText); err != nil {
		logger.LogEvent(ctx, logger.SVCOrders, slog.LevelWarn, "order.publish_failed",
			slog.Int64("order_id", order.ID),
			slog.String("err", err.Error()),
		)
	}
	s.notifyUser(ctx, order, "✅ Reklamangiz tasdiqlandi va kanalga joylandi!")
	return order, nil
}

// Reject moves the order to rejected and notifies the submitter, with the
// same single-shot guarantee as Approve.
func (s *Orders) Reject(ctx context.Context, orderID int64) (models.AdOrder, error) {
	order, err := s.decide(ctx, orderID, models.OrderRejected)
	if err != nil {
		return order, err
	}
	s.notifyUser(ctx, order, "❌ Reklama buyurtmangiz admin tomonidan rad etildi.")
	return order, nil
}

// WaitingReview lists orders pending an admin decision.
func (s *Orders) WaitingReview(ctx context.Context, limit int) ([]models.AdOrder, error) {
	return s.repo.WaitingReview(ctx, limit)
}

func (s *Orders) decide(ctx context.Context, orderID int64, to models.OrderStatus) (models.AdOrder, error) {
	changed, err := s.repo.Decide(ctx, orderID, to)
	if err != nil {
		return models.AdOrder{}, err
	}

	order, err := s.repo.ByID(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AdOrder{}, ErrOrderNotFound
	}
	if err != nil {
		return models.AdOrder{}, err
	}

	if !changed {
		return order, ErrAlreadyDecided
	}

	logger.LogEvent(ctx, logger.SVCOrders, slog.LevelInfo, "order.decided",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", order.UserID),
		slog.String("order_status", string(to)),
	)
	return order, nil
}

func (s *Orders) notifyUser(ctx context.Context, order models.AdOrder, text string) {
	if err := s.notifier.SendUser(order.UserID, text); err != nil {
		logger.LogEvent(ctx, logger.SVCOrders, slog.LevelWarn, "order.notify_failed",
			slog.Int64("order_id", order.ID),
			slog.Int64("user_id", order.UserID),
			slog.String("err", err.Error()),
		)
	}
}

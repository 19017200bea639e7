package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
)

func oneHour(t *testing.T) models.AdPackage {
	t.Helper()
	pkg, ok := models.PackageByKey("ads_1h")
	require.True(t, ok)
	return pkg
}

func TestOrderHappyPath(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	notifier := newFakeNotifier()
	svc := NewOrders(repo, notifier)

	id, err := svc.Create(ctx, 42, oneHour(t), "Buy now")
	require.NoError(t, err)

	order, err := svc.SubmitReceipt(ctx, 42, id, "file-123")
	require.NoError(t, err)
	assert.Equal(t, models.OrderWaitingAdmin, order.Status)
	assert.Equal(t, "1 soat", order.Package)
	assert.Equal(t, int64(10000), order.Price)

	approved, err := svc.Approve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderApproved, approved.Status)
	require.Len(t, notifier.channel, 1)
	assert.Equal(t, "Buy now", notifier.channel[0])
	require.Len(t, notifier.userMsgs[42], 1)
}

func TestApproveTwiceDoesNotRepublish(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	notifier := newFakeNotifier()
	svc := NewOrders(repo, notifier)

	id, err := svc.Create(ctx, 42, oneHour(t), "Buy now")
	require.NoError(t, err)
	_, err = svc.SubmitReceipt(ctx, 42, id, "file-123")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, id)
	require.NoError(t, err)

	order, err := svc.Approve(ctx, id)
	require.ErrorIs(t, err, ErrAlreadyDecided)
	assert.Equal(t, models.OrderApproved, order.Status)
	assert.Len(t, notifier.channel, 1, "second approval must not republish")
	assert.Len(t, notifier.userMsgs[42], 1, "second approval must not re-notify")
}

func TestRejectAfterApproveKeepsStatus(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	notifier := newFakeNotifier()
	svc := NewOrders(repo, notifier)

	id, err := svc.Create(ctx, 42, oneHour(t), "Buy now")
	require.NoError(t, err)
	_, err = svc.SubmitReceipt(ctx, 42, id, "f")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, id)
	require.NoError(t, err)

	order, err := svc.Reject(ctx, id)
	require.ErrorIs(t, err, ErrAlreadyDecided)
	assert.Equal(t, models.OrderApproved, order.Status)
}

func TestRejectNotifiesWithoutPublishing(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	notifier := newFakeNotifier()
	svc := NewOrders(repo, notifier)

	id, err := svc.Create(ctx, 7, oneHour(t), "Spam")
	require.NoError(t, err)
	_, err = svc.SubmitReceipt(ctx, 7, id, "f")
	require.NoError(t, err)

	order, err := svc.Reject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderRejected, order.Status)
	assert.Empty(t, notifier.channel)
	assert.Len(t, notifier.userMsgs[7], 1)
}

func TestApproveSkipsWaitingAdminNever(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	svc := NewOrders(repo, newFakeNotifier())

	// Still pending, no receipt attached.
	id, err := svc.Create(ctx, 7, oneHour(t), "text")
	require.NoError(t, err)

	order, err := svc.Approve(ctx, id)
	require.ErrorIs(t, err, ErrAlreadyDecided)
	assert.Equal(t, models.OrderPending, order.Status)
}

func TestSubmitReceiptFallsBackToLastPending(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	svc := NewOrders(repo, newFakeNotifier())

	first, err := svc.Create(ctx, 9, oneHour(t), "first")
	require.NoError(t, err)
	second, err := svc.Create(ctx, 9, oneHour(t), "second")
	require.NoError(t, err)

	order, err := svc.SubmitReceipt(ctx, 9, 0, "file")
	require.NoError(t, err)
	assert.Equal(t, second, order.ID, "fallback binds the most recent pending order")

	firstOrder, err := repo.ByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, firstOrder.Status)
}

func TestSubmitReceiptExplicitBindingWins(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	svc := NewOrders(repo, newFakeNotifier())

	first, err := svc.Create(ctx, 9, oneHour(t), "first")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 9, oneHour(t), "second")
	require.NoError(t, err)

	order, err := svc.SubmitReceipt(ctx, 9, first, "file")
	require.NoError(t, err)
	assert.Equal(t, first, order.ID, "carried order id beats recency")
}

func TestSubmitReceiptNoOpenOrder(t *testing.T) {
	svc := NewOrders(newFakeOrdersRepo(), newFakeNotifier())
	_, err := svc.SubmitReceipt(context.Background(), 9, 0, "file")
	require.ErrorIs(t, err, ErrNoOpenOrder)
}

func TestApproveUnknownOrder(t *testing.T) {
	svc := NewOrders(newFakeOrdersRepo(), newFakeNotifier())
	_, err := svc.Approve(context.Background(), 404)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestApproveSurvivesNotifyFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrdersRepo()
	notifier := newFakeNotifier()
	notifier.failUsers[42] = true
	svc := NewOrders(repo, notifier)

	id, err := svc.Create(ctx, 42, oneHour(t), "Buy now")
	require.NoError(t, err)
	_, err = svc.SubmitReceipt(ctx, 42, id, "f")
	require.NoError(t, err)

	order, err := svc.Approve(ctx, id)
	require.NoError(t, err, "blocked submitter must not fail the approval")
	assert.Equal(t, models.OrderApproved, order.Status)
	assert.Len(t, notifier.channel, 1)
}

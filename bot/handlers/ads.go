package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
	"github.com/AsilbekWeb09/Reklama-bot/bot/service"
	"github.com/AsilbekWeb09/Reklama-bot/core/logger"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/callbacks"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/keyboard"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/state"
)

// Session keys carried through the ads flow.
const (
	dataPackageKey = "package_key"
	dataOrderID    = "order_id"
)

// AdsMenu shows the package tiers.
func (h *Handlers) AdsMenu(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🕐 1 soat - 10 000 so‘m", Unique: "ads_1h"},
		{Text: "🕕 6 soat - 30 000 so‘m", Unique: "ads_6h"},
		{Text: "🕛 24 soat - 60 000 so‘m", Unique: "ads_24h"},
		{Text: "📌 Pinned 24h - 100 000 so‘m", Unique: "ads_pin"},
	})
	return helpers.SendText(c, "📢 Reklama paketini tanlang:", markup)
}

// SelectPackage arms the ad-text capture mode for the chosen tier.
func (h *Handlers) SelectPackage(c tele.Context) error {
	key := callbacks.Key(c)
	pkg, ok := models.PackageByKey(key)
	if !ok {
		return helpers.SendText(c, "❌ Noma'lum paket.")
	}

	userID := c.Sender().ID
	h.sessions.SetState(userID, state.StateAwaitingAdText)
	h.sessions.SetData(userID, dataPackageKey, pkg.Key)

	return helpers.SendText(c, fmt.Sprintf(
		"✅ Paket: %s\n"+
			"💰 Narx: %d so‘m\n\n"+
			"📌 Endi reklama matnini yuboring:",
		pkg.Label, pkg.Price,
	))
}

// CaptureAdText consumes the next text message as the ad body. A non-text
// payload re-prompts and keeps the mode armed.
func (h *Handlers) CaptureAdText(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	text := strings.TrimSpace(c.Text())
	if text == "" || (c.Message() != nil && c.Message().Photo != nil) {
		return helpers.SendText(c, "❗ Reklama matnini TEXT qilib yuboring.")
	}

	pkgKey, _ := h.sessions.Data(userID, dataPackageKey)
	pkg, ok := models.PackageByKey(fmt.Sprint(pkgKey))
	if !ok {
		// Session lost its package, restart the flow.
		h.sessions.Clear(userID)
		return helpers.SendText(c, "❌ Paket tanlanmagan. Qaytadan tanlang.")
	}

	orderID, err := h.orders.Create(ctx, userID, pkg, text)
	if err != nil {
		h.sessions.Clear(userID)
		return err
	}

	h.sessions.SetState(userID, state.StateAwaitingReceipt)
	h.sessions.SetData(userID, dataOrderID, orderID)

	return helpers.SendText(c, fmt.Sprintf(
		"✅ Reklama buyurtmangiz yaratildi!\n\n"+
			"📦 Paket: %s\n"+
			"💰 Narx: %d so‘m\n\n"+
			"💳 To‘lov:\n"+
			"👤 Egasi: %s\n"+
			"💳 Karta: %s\n\n"+
			"📌 Endi chek screenshot yuboring!",
		pkg.Label, pkg.Price, h.cfg.PaymentOwner, h.cfg.PaymentCard,
	))
}

// CaptureReceipt consumes the next photo as the payment receipt, moves the
// bound order to waiting_admin and sends the review card to the admin.
// A non-photo payload re-prompts and keeps the mode armed.
func (h *Handlers) CaptureReceipt(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return helpers.SendText(c, "❗ Chekni rasm ko‘rinishida yuboring (screenshot).")
	}

	var orderID int64
	if v, ok := h.sessions.Data(userID, dataOrderID); ok {
		if id, ok := v.(int64); ok {
			orderID = id
		}
	}
	h.sessions.Clear(userID)

	order, err := h.orders.SubmitReceipt(ctx, userID, orderID, msg.Photo.FileID)
	if errors.Is(err, service.ErrNoOpenOrder) {
		return helpers.SendText(c, "❌ Sizda aktiv reklama order yo‘q.")
	}
	if err != nil {
		return err
	}

	if err := helpers.SendText(c, "✅ Chek qabul qilindi! Admin tekshiradi."); err != nil {
		return err
	}

	if err := h.reviewCard(order); err != nil {
		logger.Warn(ctx, "tg", "review_card.failed",
			slog.Int64("order_id", order.ID),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

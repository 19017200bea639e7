package handlers

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/bot/service"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/callbacks"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/keyboard"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/state"
)

const waitingOrdersLimit = 5

// AdminPanel renders the admin console with live counters.
func (h *Handlers) AdminPanel(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	usersCount, err := h.users.Count(ctx)
	if err != nil {
		return err
	}
	bannedCount, err := h.users.BannedCount(ctx)
	if err != nil {
		return err
	}
	settings, err := h.giveaway.Status(ctx)
	if err != nil {
		return err
	}

	status := "OFF"
	if settings.GiveawayActive {
		status = "ON"
	}

	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "👥 User ro‘yxati", Unique: "admin_users", Data: "1"}},
		[]keyboard.InlineBtn{{Text: "📦 Reklama orderlar", Unique: "admin_ads"}},
		[]keyboard.InlineBtn{{Text: "📢 Broadcast", Unique: "admin_broadcast"}},
		[]keyboard.InlineBtn{
			{Text: "🎁 Giveaway ON", Unique: "admin_giveaway_on"},
			{Text: "❌ Giveaway OFF", Unique: "admin_giveaway_off"},
		},
		[]keyboard.InlineBtn{{Text: "🎁 Prize tanlash", Unique: "admin_set_prize"}},
		[]keyboard.InlineBtn{{Text: "🏆 Winner (Top ball)", Unique: "admin_winner_top"}},
		[]keyboard.InlineBtn{{Text: "🚫 Ban user", Unique: "admin_ban"}},
		[]keyboard.InlineBtn{{Text: "✅ Unban user", Unique: "admin_unban"}},
		[]keyboard.InlineBtn{{Text: "➕ Ball qo‘shish", Unique: "admin_add_points"}},
		[]keyboard.InlineBtn{{Text: "➖ Ball ayirish", Unique: "admin_remove_points"}},
		[]keyboard.InlineBtn{{Text: "🔍 User info", Unique: "admin_userinfo"}},
	)

	return helpers.SendText(c, fmt.Sprintf(
		"👑 ADMIN PANEL\n\n"+
			"👥 Userlar: %d\n"+
			"🚫 Ban: %d\n\n"+
			"🎁 Giveaway: %s\n"+
			"🏆 Prize: %s",
		usersCount, bannedCount, status, settings.GiveawayPrize,
	), markup)
}

// AdminUsersPage renders one page of the ranked user listing with
// prev/next navigation carrying the page number in the callback payload.
func (h *Handlers) AdminUsersPage(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	page, err := callbacks.PayloadInt(c)
	if err != nil || page < 1 {
		page = 1
	}

	users, err := h.users.Page(ctx, page, h.cfg.UsersPerPage)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return helpers.SendText(c, "❌ User yo‘q.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 USER RO‘YXATI (Page %d)\n\n", page)
	for _, u := range users {
		fmt.Fprintf(&b, "🆔 %d | %s | 🎯 %d\n", u.ID, u.DisplayName(), u.Points)
	}

	var nav []keyboard.InlineBtn
	if page > 1 {
		nav = append(nav, keyboard.InlineBtn{
			Text: "⬅️ Oldingi", Unique: "admin_users", Data: fmt.Sprintf("%d", page-1),
		})
	}
	nav = append(nav, keyboard.InlineBtn{
		Text: "➡️ Keyingi", Unique: "admin_users", Data: fmt.Sprintf("%d", page+1),
	})

	return helpers.SendText(c, b.String(), keyboard.InlineButtonsRows(nav))
}

// AdminAdsOrders sends every order awaiting a decision as a review card.
func (h *Handlers) AdminAdsOrders(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	orders, err := h.orders.WaitingReview(ctx, waitingOrdersLimit)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return helpers.SendText(c, "📦 Tasdiqlash uchun reklama order yo‘q.")
	}

	for _, order := range orders {
		if err := h.reviewCard(order); err != nil {
			return err
		}
	}
	return nil
}

// AdminApprove finalizes an order as approved. The transition is
// single-shot: repeating the decision only acknowledges.
func (h *Handlers) AdminApprove(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	orderID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.SendText(c, "❌ Order topilmadi.")
	}

	order, err := h.orders.Approve(ctx, orderID)
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return helpers.SendText(c, "❌ Order topilmadi.")
	case errors.Is(err, service.ErrAlreadyDecided):
		return helpers.SendText(c, fmt.Sprintf("⚠️ Order allaqachon ko‘rib chiqilgan. (ID: %d)", order.ID))
	case err != nil:
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("✅ Order tasdiqlandi! (ID: %d)", order.ID))
}

// AdminReject finalizes an order as rejected, with the same guard.
func (h *Handlers) AdminReject(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	orderID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.SendText(c, "❌ Order topilmadi.")
	}

	order, err := h.orders.Reject(ctx, orderID)
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return helpers.SendText(c, "❌ Order topilmadi.")
	case errors.Is(err, service.ErrAlreadyDecided):
		return helpers.SendText(c, fmt.Sprintf("⚠️ Order allaqachon ko‘rib chiqilgan. (ID: %d)", order.ID))
	case err != nil:
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("❌ Order rad etildi. (ID: %d)", order.ID))
}

// AdminBroadcastPrompt arms the broadcast capture mode.
func (h *Handlers) AdminBroadcastPrompt(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, state.StateAwaitingBroadcast)
	return helpers.SendText(c, "📢 Broadcast matnini yuboring:")
}

// AdminGiveawayOn activates the giveaway unless the prize is still unset.
func (h *Handlers) AdminGiveawayOn(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	if err := h.giveaway.TurnOn(ctx); err != nil {
		if errors.Is(err, service.ErrNoPrize) {
			return helpers.SendText(c, "❌ Prize tanlanmagan!\n\nAvval 🎁 Prize tanlang.")
		}
		return err
	}
	settings, err := h.giveaway.Status(ctx)
	if err != nil {
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("✅ Giveaway yoqildi!\n🎁 Prize: %s", settings.GiveawayPrize))
}

// AdminGiveawayOff deactivates the giveaway.
func (h *Handlers) AdminGiveawayOff(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	if err := h.giveaway.TurnOff(ctx); err != nil {
		return err
	}
	return helpers.SendText(c, "❌ Giveaway o‘chirildi!")
}

// AdminSetPrizeMenu shows the prize presets.
func (h *Handlers) AdminSetPrizeMenu(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🖼 NFT", Unique: "prize_nft"},
		{Text: "🎁 Gift", Unique: "prize_gift"},
		{Text: "⭐ Stars", Unique: "prize_stars"},
		{Text: "✍️ Custom prize", Unique: "prize_custom"},
	})
	return helpers.SendText(c, "🎁 Sovg‘ani tanlang:", markup)
}

// AdminPrizePreset stores a fixed prize label.
func (h *Handlers) AdminPrizePreset(label string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := helpers.BuildContext(c)
		if err := h.giveaway.SetPrize(ctx, label); err != nil {
			return err
		}
		return helpers.SendText(c, "✅ Prize tanlandi: "+label)
	}
}

// AdminPrizeCustomPrompt arms the custom prize capture mode.
func (h *Handlers) AdminPrizeCustomPrompt(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, state.StateAwaitingPrize)
	return helpers.SendText(c, "✍️ Prize nomini yozing (misol: ⭐ 200 Stars yoki 🎁 Premium 1 oy)")
}

// AdminWinner announces the ranking winner and tries to notify them.
// A failed winner DM is reported to the admin and changes nothing.
func (h *Handlers) AdminWinner(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	winner, settings, err := h.giveaway.Winner(ctx)
	switch {
	case errors.Is(err, service.ErrGiveawayOff):
		return helpers.SendText(c, "❌ Giveaway OFF.")
	case errors.Is(err, service.ErrNoParticipants):
		return helpers.SendText(c, "❌ User topilmadi.")
	case err != nil:
		return err
	}

	if err := helpers.SendText(c, fmt.Sprintf(
		"🏆 TOP WINNER!\n\n"+
			"👤 Ism: %s\n"+
			"🆔 ID: %d\n"+
			"🎯 Ball: %d\n\n"+
			"🎁 Sovg‘a: %s",
		winner.DisplayName(), winner.ID, winner.Points, settings.GiveawayPrize,
	)); err != nil {
		return err
	}

	dm := fmt.Sprintf(
		"🎉 TABRIKLAYMIZ!\n\n"+
			"🏆 Siz eng ko‘p ball yig‘ib winner bo‘ldingiz!\n\n"+
			"🎯 Ball: %d\n"+
			"🎁 Sovg‘a: %s\n\n"+
			"📌 Admin siz bilan bog‘lanadi.",
		winner.Points, settings.GiveawayPrize,
	)
	if err := h.sendToUser(winner.ID, dm); err != nil {
		return helpers.SendText(c, "⚠️ Winnerga xabar yuborilmadi (user botni bloklagan).")
	}
	return nil
}

// AdminBanPrompt arms the ban-id capture mode.
func (h *Handlers) AdminBanPrompt(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, state.StateAwaitingBanID)
	return helpers.SendText(c, "🚫 Ban qilinadigan user ID yuboring:")
}

// AdminUnbanPrompt arms the unban-id capture mode.
func (h *Handlers) AdminUnbanPrompt(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, state.StateAwaitingUnbanID)
	return helpers.SendText(c, "✅ Unban qilinadigan user ID yuboring:")
}

// AdminAddPointsPrompt arms the add-points capture mode.
func (h *Handlers) AdminAddPointsPrompt(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, state.StateAwaitingAddPoints)
	return helpers.SendText(c, "➕ Format: user_id ball")
}

// AdminRemovePointsPrompt arms the remove-points capture mode.
func (h *Handlers) AdminRemovePointsPrompt(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, state.StateAwaitingRemovePoints)
	return helpers.SendText(c, "➖ Format: user_id ball")
}

// AdminUserInfoPrompt arms the user-lookup capture mode.
func (h *Handlers) AdminUserInfoPrompt(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, state.StateAwaitingUserLookup)
	return helpers.SendText(c, "🔍 User ID yuboring:")
}

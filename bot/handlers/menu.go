package handlers

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"
)

// Profile shows the sender's name, id and point balance.
func (h *Handlers) Profile(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sender := c.Sender()

	var points int64
	if u, err := h.users.Info(ctx, sender.ID); err == nil {
		points = u.Points
	}

	return helpers.SendText(c, fmt.Sprintf(
		"👤 Profil\n\n"+
			"👨 Ism: %s\n"+
			"🆔 ID: %d\n"+
			"🎯 Ball: %d",
		sender.FirstName, sender.ID, points,
	))
}

// Top lists the ten highest-ranked users.
func (h *Handlers) Top(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	top, err := h.users.Top(ctx, 10)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("🏆 Top 10:\n\n")
	for i, u := range top {
		fmt.Fprintf(&b, "%d) %s — %d\n", i+1, u.DisplayName(), u.Points)
	}
	return helpers.SendText(c, b.String())
}

// GiveawayInfo shows the giveaway status and rules to a user.
func (h *Handlers) GiveawayInfo(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	settings, err := h.giveaway.Status(ctx)
	if err != nil {
		return err
	}
	if !settings.GiveawayActive {
		return helpers.SendText(c, "❌ Giveaway OFF.")
	}

	return helpers.SendText(c, fmt.Sprintf(
		"🎁 Giveaway ACTIVE!\n\n"+
			"🏆 Sovg‘a: %s\n\n"+
			"📌 Qoidalar:\n"+
			"• Referral orqali ball yig‘ing\n"+
			"• Kimning bali ko‘p bo‘lsa o‘sha sovg‘a oladi",
		settings.GiveawayPrize,
	))
}

// UserStats shows the total user count.
func (h *Handlers) UserStats(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	count, err := h.users.Count(ctx)
	if err != nil {
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("📊 Statistika\n\n👥 Jami userlar: %d", count))
}

// Referral shows the sender's deep link.
func (h *Handlers) Referral(c tele.Context) error {
	return helpers.SendText(c,
		fmt.Sprintf("🔗 Referral link:\n\n%s", h.referralLink(c.Sender().ID)))
}

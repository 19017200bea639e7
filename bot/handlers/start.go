package handlers

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"
)

// Start registers the user (crediting the referrer on first contact),
// enforces the subscription gate and shows the main menu.
func (h *Handlers) Start(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sender := c.Sender()

	// /start <referral_id>; a malformed payload means no referrer.
	var invitedBy int64
	if msg := c.Message(); msg != nil {
		payload := strings.TrimSpace(msg.Payload)
		if payload != "" {
			if id, err := strconv.ParseInt(payload, 10, 64); err == nil {
				invitedBy = id
			}
		}
	}

	if _, err := h.users.Register(ctx, sender.ID, sender.Username, sender.FirstName, invitedBy); err != nil {
		return err
	}

	subscribed, err := h.subs.IsSubscribed(sender.ID)
	if err != nil {
		// Lookup failures close the gate rather than letting everyone in.
		subscribed = false
	}
	if !subscribed {
		return h.sendSubscribePrompt(c)
	}

	return h.sendMenu(c, sender.ID, sender.FirstName)
}

// CheckSub re-runs the subscription check from the prompt keyboard.
func (h *Handlers) CheckSub(c tele.Context) error {
	sender := c.Sender()

	subscribed, err := h.subs.IsSubscribed(sender.ID)
	if err != nil {
		subscribed = false
	}
	if !subscribed {
		return helpers.SendText(c, "❌ Siz hali kanalga obuna bo‘lmagansiz!")
	}

	if err := helpers.SendText(c, "✅ Obuna tasdiqlandi!"); err != nil {
		return err
	}
	return h.sendMenu(c, sender.ID, sender.FirstName)
}

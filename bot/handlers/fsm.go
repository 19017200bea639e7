package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/bot/service"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/state"
)

// RegisterStates binds every conversation state to its handler. The ad-text
// and receipt modes stay armed on a wrong payload kind; the admin value
// modes consume exactly one message and clear themselves regardless of
// payload validity.
func (h *Handlers) RegisterStates() {
	state.RegisterHandler(state.StateAwaitingAdText, h.CaptureAdText)
	state.RegisterHandler(state.StateAwaitingReceipt, h.CaptureReceipt)
	state.RegisterHandler(state.StateAwaitingBroadcast, h.adminOnlyState(h.RunBroadcast))
	state.RegisterHandler(state.StateAwaitingBanID, h.adminOnlyState(h.ConsumeBanID))
	state.RegisterHandler(state.StateAwaitingUnbanID, h.adminOnlyState(h.ConsumeUnbanID))
	state.RegisterHandler(state.StateAwaitingAddPoints, h.adminOnlyState(h.ConsumeAddPoints))
	state.RegisterHandler(state.StateAwaitingRemovePoints, h.adminOnlyState(h.ConsumeRemovePoints))
	state.RegisterHandler(state.StateAwaitingUserLookup, h.adminOnlyState(h.ConsumeUserLookup))
	state.RegisterHandler(state.StateAwaitingPrize, h.adminOnlyState(h.ConsumePrize))
}

// adminOnlyState drops the session and the update when a non-admin somehow
// reaches an admin input state.
func (h *Handlers) adminOnlyState(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Sender().ID != h.cfg.AdminID {
			h.sessions.Clear(c.Sender().ID)
			return nil
		}
		return next(c)
	}
}

// RunBroadcast consumes the captured text and fans it out sequentially.
func (h *Handlers) RunBroadcast(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	h.sessions.Clear(c.Sender().ID)

	text := strings.TrimSpace(c.Text())
	if text == "" {
		return helpers.SendText(c, "❌ Broadcast matni bo‘sh.")
	}

	if err := helpers.SendText(c, "⏳ Broadcast yuborilmoqda..."); err != nil {
		return err
	}

	sent, failed, err := h.broadcast.Run(ctx, text, func(userID int64, text string) error {
		return h.sendToUser(userID, text)
	})
	if err != nil {
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("✅ Tugadi!\n\nYuborildi: %d\nXato: %d", sent, failed))
}

// ConsumeBanID bans the user named by the next message.
func (h *Handlers) ConsumeBanID(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	h.sessions.Clear(c.Sender().ID)

	id, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil {
		return helpers.SendText(c, "❌ ID xato!")
	}
	if err := h.users.Ban(ctx, id); err != nil {
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("🚫 Ban qilindi: %d", id))
}

// ConsumeUnbanID lifts a ban.
func (h *Handlers) ConsumeUnbanID(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	h.sessions.Clear(c.Sender().ID)

	id, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil {
		return helpers.SendText(c, "❌ ID xato!")
	}
	if err := h.users.Unban(ctx, id); err != nil {
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("✅ Unban qilindi: %d", id))
}

// ConsumeAddPoints applies a "user_id ball" credit.
func (h *Handlers) ConsumeAddPoints(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	h.sessions.Clear(c.Sender().ID)

	id, delta, err := parseIDDelta(c.Text())
	if err != nil {
		return helpers.SendText(c, "❌ Format: user_id ball")
	}
	if err := h.users.AddPoints(ctx, id, delta); err != nil {
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("➕ %d ga %d ball qo‘shildi.", id, delta))
}

// ConsumeRemovePoints applies a "user_id ball" deduction.
func (h *Handlers) ConsumeRemovePoints(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	h.sessions.Clear(c.Sender().ID)

	id, delta, err := parseIDDelta(c.Text())
	if err != nil {
		return helpers.SendText(c, "❌ Format: user_id ball")
	}
	if err := h.users.RemovePoints(ctx, id, delta); err != nil {
		return err
	}
	return helpers.SendText(c, fmt.Sprintf("➖ %d dan %d ball ayirildi.", id, delta))
}

// ConsumeUserLookup renders one user card by id.
func (h *Handlers) ConsumeUserLookup(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	h.sessions.Clear(c.Sender().ID)

	id, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil {
		return helpers.SendText(c, "❌ ID xato!")
	}

	u, err := h.users.Info(ctx, id)
	if errors.Is(err, service.ErrUserNotFound) {
		return helpers.SendText(c, "❌ User topilmadi.")
	}
	if err != nil {
		return err
	}

	banned := "Yo‘q"
	if u.IsBanned {
		banned = "Ha"
	}
	return helpers.SendText(c, fmt.Sprintf(
		"👤 USER INFO\n\n"+
			"🆔 ID: %d\n"+
			"👨 Ism: %s\n"+
			"🔗 Username: @%s\n"+
			"🎯 Ball: %d\n"+
			"🚫 Ban: %s",
		u.ID, u.FirstName.String, u.Username.String, u.Points, banned,
	))
}

// ConsumePrize stores a custom prize label.
func (h *Handlers) ConsumePrize(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	h.sessions.Clear(c.Sender().ID)

	prize := strings.TrimSpace(c.Text())
	if prize == "" {
		return helpers.SendText(c, "❌ Prize nomi bo‘sh.")
	}
	if err := h.giveaway.SetPrize(ctx, prize); err != nil {
		return err
	}
	return helpers.SendText(c, "✅ Prize saqlandi: "+prize)
}

func parseIDDelta(text string) (int64, int64, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want two fields, got %d", len(fields))
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	delta, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return id, delta, nil
}

// Package handlers implements the Telegram surface of the bot: the user
// menu, the ads order flow and the admin console.
package handlers

import (
	"fmt"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
	"github.com/AsilbekWeb09/Reklama-bot/bot/service"
	"github.com/AsilbekWeb09/Reklama-bot/bot/subs"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/keyboard"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/state"
)

// Config carries the handler-level settings copied from the app config.
type Config struct {
	AdminID      int64
	Channel      string // without the leading @
	PaymentOwner string
	PaymentCard  string
	UsersPerPage int
}

// Handlers bundles the services behind the Telegram routes. The bot
// instance is attached once the runtime has built it.
type Handlers struct {
	cfg       Config
	users     *service.Users
	orders    *service.Orders
	giveaway  *service.Giveaway
	broadcast *service.Broadcast
	subs      *subs.Checker
	sessions  state.Manager

	bot atomic.Pointer[tele.Bot]
}

// New returns the handler set.
func New(cfg Config, users *service.Users, orders *service.Orders, giveaway *service.Giveaway, broadcast *service.Broadcast, subsChecker *subs.Checker, sessions state.Manager) *Handlers {
	return &Handlers{
		cfg:       cfg,
		users:     users,
		orders:    orders,
		giveaway:  giveaway,
		broadcast: broadcast,
		subs:      subsChecker,
		sessions:  sessions,
	}
}

// AttachBot wires the live bot instance for proactive sends.
func (h *Handlers) AttachBot(b *tele.Bot) {
	h.bot.Store(b)
}

func (h *Handlers) botRef() *tele.Bot {
	return h.bot.Load()
}

func (h *Handlers) botUsername() string {
	if b := h.botRef(); b != nil && b.Me != nil {
		return b.Me.Username
	}
	return ""
}

// sendToUser delivers a proactive message to a user id.
func (h *Handlers) sendToUser(userID int64, what any, opts ...any) error {
	b := h.botRef()
	if b == nil {
		return fmt.Errorf("handlers: bot not attached")
	}
	_, err := b.Send(tele.ChatID(userID), what, opts...)
	return err
}

// sendToAdmin delivers a proactive message to the administrator.
func (h *Handlers) sendToAdmin(what any, opts ...any) error {
	return h.sendToUser(h.cfg.AdminID, what, opts...)
}

func (h *Handlers) referralLink(userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", h.botUsername(), userID)
}

// sendMenu renders the main user menu with the live counters.
func (h *Handlers) sendMenu(c tele.Context, userID int64, firstName string) error {
	ctx := helpers.BuildContext(c)

	var points int64
	if u, err := h.users.Info(ctx, userID); err == nil {
		points = u.Points
	}
	usersCount, err := h.users.Count(ctx)
	if err != nil {
		return err
	}
	settings, err := h.giveaway.Status(ctx)
	if err != nil {
		return err
	}

	status := "❌ OFF"
	if settings.GiveawayActive {
		status = "✅ ACTIVE"
	}
	if firstName == "" {
		firstName = "User"
	}

	text := fmt.Sprintf(
		"✅ Xush kelibsiz, %s!\n\n"+
			"📢 Kanal: @%s\n\n"+
			"👥 Userlar: %d\n"+
			"🎯 Ballaringiz: %d\n\n"+
			"🎁 Giveaway: %s\n"+
			"🏆 Sovg‘a: %s\n\n"+
			"🔗 Referral link:\n%s\n\n"+
			"📌 Odam chaqiring → ball yig‘ing!",
		firstName, h.cfg.Channel, usersCount, points,
		status, settings.GiveawayPrize, h.referralLink(userID),
	)

	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "👤 Profil", Unique: "profile"},
		{Text: "🏆 Top 10", Unique: "top"},
		{Text: "🎁 Giveaway", Unique: "giveaway"},
		{Text: "📊 Statistika", Unique: "stats_user"},
		{Text: "📢 Reklama berish", Unique: "ads_menu"},
		{Text: "🔗 Referral Link", Unique: "referral"},
	})
	return helpers.SendText(c, text, markup)
}

// sendSubscribePrompt asks the user to join the channel before using the bot.
func (h *Handlers) sendSubscribePrompt(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "📢 Kanalga obuna bo‘lish", URL: "https://t.me/" + h.cfg.Channel},
		{Text: "✅ Tekshirish", Unique: "check_sub"},
	})
	return helpers.SendText(c,
		"❌ Botdan foydalanish uchun kanalga obuna bo‘lish shart!\n\n"+
			"📌 Kanalga obuna bo‘ling va keyin 'Tekshirish' tugmasini bosing.",
		markup)
}

// reviewCard sends one waiting order to the admin as a receipt photo with
// the approve/reject buttons.
func (h *Handlers) reviewCard(order models.AdOrder) error {
	caption := fmt.Sprintf(
		"📦 Order ID: %d\n"+
			"👤 User: %d\n"+
			"📦 Paket: %s\n"+
			"💰 Narx: %d so‘m\n\n"+
			"📝 Reklama:\n%s",
		order.ID, order.UserID, order.Package, order.Price, order.AdText,
	)
	orderID := fmt.Sprintf("%d", order.ID)
	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Tasdiqlash", Unique: "approve", Data: orderID},
		{Text: "❌ Rad etish", Unique: "reject", Data: orderID},
	})

	if order.ReceiptFileID.Valid {
		photo := &tele.Photo{
			File:    tele.File{FileID: order.ReceiptFileID.String},
			Caption: caption,
		}
		return h.sendToAdmin(photo, markup)
	}
	return h.sendToAdmin(caption, markup)
}

package bot

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/bot/handlers"
	"github.com/AsilbekWeb09/Reklama-bot/bot/service"
	"github.com/AsilbekWeb09/Reklama-bot/bot/storage"
	"github.com/AsilbekWeb09/Reklama-bot/bot/subs"
	coretelegram "github.com/AsilbekWeb09/Reklama-bot/core/telegram"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/commands"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/middleware"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/router"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/state"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
)

// channelRecipient addresses a public channel by username.
type channelRecipient string

// Recipient implements tele.Recipient.
func (r channelRecipient) Recipient() string { return "@" + string(r) }

// telegramNotifier sends order decisions through the live bot instance.
// The bot is attached once the runtime has built it.
type telegramNotifier struct {
	channel string
	bot     atomic.Pointer[tele.Bot]
}

func (n *telegramNotifier) Attach(b *tele.Bot) { n.bot.Store(b) }

func (n *telegramNotifier) SendUser(userID int64, text string) error {
	b := n.bot.Load()
	if b == nil {
		return errors.New("notifier: bot not attached")
	}
	_, err := b.Send(tele.ChatID(userID), text)
	return err
}

func (n *telegramNotifier) SendChannel(text string) error {
	b := n.bot.Load()
	if b == nil {
		return errors.New("notifier: bot not attached")
	}
	_, err := b.Send(channelRecipient(n.channel), text)
	return err
}

// App assembles repositories, services and handlers into the Telegram
// runtime options.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	users    *service.Users
	notifier *telegramNotifier
	subs     *subs.Checker
	sessions state.Manager
	handlers *handlers.Handlers
}

// NewApp wires the application over an initialized database.
func NewApp(cfg *Config, db *sqlx.DB) *App {
	usersRepo := storage.NewUsersRepo(db)
	settingsRepo := storage.NewSettingsRepo(db)
	ordersRepo := storage.NewOrdersRepo(db)

	notifier := &telegramNotifier{channel: cfg.Channel}

	usersSvc := service.NewUsers(usersRepo)
	ordersSvc := service.NewOrders(ordersRepo, notifier)
	giveawaySvc := service.NewGiveaway(settingsRepo, usersRepo)
	broadcastSvc := service.NewBroadcast(usersRepo)

	sessions := state.NewMemoryManager()

	app := &App{
		cfg:      cfg,
		db:       db,
		users:    usersSvc,
		notifier: notifier,
		sessions: sessions,
	}
	app.subs = subs.NewChecker(app.isChannelMember,
		time.Duration(cfg.SubCacheTTLMinutes)*time.Minute)

	app.handlers = handlers.New(handlers.Config{
		AdminID:      cfg.Telegram.AdminID,
		Channel:      cfg.Channel,
		PaymentOwner: cfg.Payment.Owner,
		PaymentCard:  cfg.Payment.Card,
		UsersPerPage: cfg.UsersPerPage,
	}, usersSvc, ordersSvc, giveawaySvc, broadcastSvc, app.subs, sessions)

	return app
}

// isChannelMember queries Telegram for the user's channel membership.
func (a *App) isChannelMember(userID int64) (bool, error) {
	b := a.notifier.bot.Load()
	if b == nil {
		return false, errors.New("bot not attached")
	}
	member, err := b.ChatMemberOf(channelRecipient(a.cfg.Channel), tele.ChatID(userID))
	if err != nil {
		return false, err
	}
	switch member.Role {
	case tele.Creator, tele.Administrator, tele.Member:
		return true, nil
	}
	return false, nil
}

// banGate blocks every surface for banned users. The admin and unknown
// senders pass through.
func (a *App) banGate() coretelegram.Middleware {
	return coretelegram.Middleware{
		Name: "ban_gate",
		Use: func(next tele.HandlerFunc) tele.HandlerFunc {
			return func(c tele.Context) error {
				sender := c.Sender()
				if sender == nil || sender.ID == a.cfg.Telegram.AdminID {
					return next(c)
				}
				banned, err := a.users.IsBanned(helpers.BuildContext(c), sender.ID)
				if err != nil {
					return err
				}
				if banned {
					return helpers.SendText(c, "❌ Siz bloklangansiz.")
				}
				return next(c)
			}
		},
	}
}

// TelegramRunOptions builds the registry, routes and middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	h := a.handlers
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Botni ishga tushirish",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.AdminPanel,
		Description: "Admin panel",
		AdminOnly:   true,
		Hidden:      true,
	})

	userCallbacks := map[string]tele.HandlerFunc{
		"check_sub":  h.CheckSub,
		"profile":    h.Profile,
		"top":        h.Top,
		"giveaway":   h.GiveawayInfo,
		"stats_user": h.UserStats,
		"referral":   h.Referral,
		"ads_menu":   h.AdsMenu,
	}
	for _, pkg := range models.AdPackages {
		userCallbacks[pkg.Key] = h.SelectPackage
	}
	for key, handler := range userCallbacks {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}

	// Admin callbacks drop silently for everyone else, matching the
	// authorization behaviour of the admin command surface.
	adminOpts := middleware.AdminOptions{
		AdminID: a.cfg.Telegram.AdminID,
		Silent:  true,
	}
	adminCallbacks := map[string]tele.HandlerFunc{
		"admin_users":         h.AdminUsersPage,
		"admin_ads":           h.AdminAdsOrders,
		"approve":             h.AdminApprove,
		"reject":              h.AdminReject,
		"admin_broadcast":     h.AdminBroadcastPrompt,
		"admin_giveaway_on":   h.AdminGiveawayOn,
		"admin_giveaway_off":  h.AdminGiveawayOff,
		"admin_set_prize":     h.AdminSetPrizeMenu,
		"prize_nft":           h.AdminPrizePreset("🖼 NFT"),
		"prize_gift":          h.AdminPrizePreset("🎁 Telegram Gift"),
		"prize_stars":         h.AdminPrizePreset("⭐ Telegram Stars"),
		"prize_custom":        h.AdminPrizeCustomPrompt,
		"admin_winner_top":    h.AdminWinner,
		"admin_ban":           h.AdminBanPrompt,
		"admin_unban":         h.AdminUnbanPrompt,
		"admin_add_points":    h.AdminAddPointsPrompt,
		"admin_remove_points": h.AdminRemovePointsPrompt,
		"admin_userinfo":      h.AdminUserInfoPrompt,
	}
	for key, handler := range adminCallbacks {
		if err := reg.RegisterCallback(key, middleware.WithAdminCheck(handler, adminOpts)); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}

	h.RegisterStates()
	fsm := &state.Dispatcher{Manager: a.sessions}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:    a.cfg.Telegram.AdminID,
		DeniedText: "❌ Admin emassiz.",
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(fsm, reg, router.TextOptions{})...)

	middlewares := coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil)
	middlewares = append(middlewares, a.banGate())

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.notifier.Attach(rt.Bot)
			a.handlers.AttachBot(rt.Bot)
			return nil
		},
	}, nil
}

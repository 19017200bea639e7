// Package models declares the persistent records of the bot.
package models

import (
	"database/sql"
	"strconv"
	"time"
)

// User is a bot participant. Points may go negative through admin
// deductions, no floor is enforced.
type User struct {
	ID        int64          `db:"user_id"`
	Username  sql.NullString `db:"username"`
	FirstName sql.NullString `db:"first_name"`
	Points    int64          `db:"points"`
	InvitedBy sql.NullInt64  `db:"invited_by"`
	IsBanned  bool           `db:"is_banned"`
}

// DisplayName returns the user's first name falling back to the username
// and finally to the numeric id.
func (u User) DisplayName() string {
	if u.FirstName.Valid && u.FirstName.String != "" {
		return u.FirstName.String
	}
	if u.Username.Valid && u.Username.String != "" {
		return "@" + u.Username.String
	}
	return "id:" + strconv.FormatInt(u.ID, 10)
}

// PrizeSentinel marks the "no prize configured" settings state.
const PrizeSentinel = "🎁 Sovg‘a yo‘q"

// Settings is the singleton row holding global giveaway state.
type Settings struct {
	ID             int    `db:"id"`
	GiveawayActive bool   `db:"giveaway_active"`
	GiveawayPrize  string `db:"giveaway_prize"`
}

// OrderStatus tracks an ad order through its lifecycle.
type OrderStatus string

const (
	OrderPending      OrderStatus = "pending"
	OrderWaitingAdmin OrderStatus = "waiting_admin"
	OrderApproved     OrderStatus = "approved"
	OrderRejected     OrderStatus = "rejected"
)

// Terminal reports whether the status accepts no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderApproved || s == OrderRejected
}

// AdOrder is a paid advertisement submission.
type AdOrder struct {
	ID            int64          `db:"id"`
	UserID        int64          `db:"user_id"`
	Package       string         `db:"package"`
	Price         int64          `db:"price"`
	AdText        string         `db:"ad_text"`
	ReceiptFileID sql.NullString `db:"receipt_file_id"`
	Status        OrderStatus    `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
}

// AdPackage is one of the fixed advertisement tiers.
type AdPackage struct {
	Key   string
	Label string
	Price int64
}

// AdPackages lists the selectable tiers in menu order.
var AdPackages = []AdPackage{
	{Key: "ads_1h", Label: "1 soat", Price: 10000},
	{Key: "ads_6h", Label: "6 soat", Price: 30000},
	{Key: "ads_24h", Label: "24 soat", Price: 60000},
	{Key: "ads_pin", Label: "Pinned 24 soat", Price: 100000},
}

// PackageByKey resolves a callback key to its tier.
func PackageByKey(key string) (AdPackage, bool) {
	for _, p := range AdPackages {
		if p.Key == key {
			return p, true
		}
	}
	return AdPackage{}, false
}

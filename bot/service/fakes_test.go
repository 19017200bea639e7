package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/AsilbekWeb09/Reklama-bot/bot/models"
)

// fakeUsersRepo is an in-memory UsersRepo for hermetic service tests.
type fakeUsersRepo struct {
	users map[int64]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUsersRepo) CreateIfAbsent(_ context.Context, u models.User) (bool, error) {
	if _, ok := f.users[u.ID]; ok {
		return false, nil
	}
	cp := u
	f.users[u.ID] = &cp
	return true, nil
}

func (f *fakeUsersRepo) Get(_ context.Context, id int64) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, sql.ErrNoRows
	}
	return *u, nil
}

func (f *fakeUsersRepo) AddPoints(_ context.Context, id, delta int64) error {
	if u, ok := f.users[id]; ok {
		u.Points += delta
	}
	return nil
}

func (f *fakeUsersRepo) SetBanned(_ context.Context, id int64, banned bool) error {
	if u, ok := f.users[id]; ok {
		u.IsBanned = banned
	}
	return nil
}

func (f *fakeUsersRepo) IsBanned(_ context.Context, id int64) (bool, error) {
	if u, ok := f.users[id]; ok {
		return u.IsBanned, nil
	}
	return false, nil
}

func (f *fakeUsersRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUsersRepo) BannedCount(_ context.Context) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.IsBanned {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsersRepo) ranked() []models.User {
	list := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		if !u.IsBanned {
			list = append(list, *u)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Points != list[j].Points {
			return list[i].Points > list[j].Points
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (f *fakeUsersRepo) Top(_ context.Context, limit int) ([]models.User, error) {
	list := f.ranked()
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeUsersRepo) Page(_ context.Context, page, perPage int) ([]models.User, error) {
	list := f.ranked()
	start := (page - 1) * perPage
	if start >= len(list) {
		return nil, nil
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], nil
}

func (f *fakeUsersRepo) ActiveIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	for _, u := range f.users {
		if !u.IsBanned {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeUsersRepo) TopUser(_ context.Context) (models.User, error) {
	list := f.ranked()
	if len(list) == 0 {
		return models.User{}, sql.ErrNoRows
	}
	return list[0], nil
}

// fakeOrdersRepo is an in-memory OrdersRepo.
type fakeOrdersRepo struct {
	nextID int64
	orders map[int64]*models.AdOrder
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{nextID: 1, orders: make(map[int64]*models.AdOrder)}
}

func (f *fakeOrdersRepo) Create(_ context.Context, o models.AdOrder) (int64, error) {
	o.ID = f.nextID
	o.Status = models.OrderPending
	f.nextID++
	f.orders[o.ID] = &o
	return o.ID, nil
}

func (f *fakeOrdersRepo) ByID(_ context.Context, id int64) (models.AdOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.AdOrder{}, sql.ErrNoRows
	}
	return *o, nil
}

func (f *fakeOrdersRepo) LastPending(_ context.Context, userID int64) (models.AdOrder, error) {
	var found *models.AdOrder
	for _, o := range f.orders {
		if o.UserID == userID && o.Status == models.OrderPending {
			if found == nil || o.ID > found.ID {
				found = o
			}
		}
	}
	if found == nil {
		return models.AdOrder{}, sql.ErrNoRows
	}
	return *found, nil
}

func (f *fakeOrdersRepo) AttachReceipt(_ context.Context, id int64, fileID string) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != models.OrderPending {
		return false, nil
	}
	o.ReceiptFileID = sql.NullString{String: fileID, Valid: true}
	o.Status = models.OrderWaitingAdmin
	return true, nil
}

func (f *fakeOrdersRepo) Decide(_ context.Context, id int64, to models.OrderStatus) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != models.OrderWaitingAdmin {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (f *fakeOrdersRepo) WaitingReview(_ context.Context, limit int) ([]models.AdOrder, error) {
	var list []models.AdOrder
	for _, o := range f.orders {
		if o.Status == models.OrderWaitingAdmin {
			list = append(list, *o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// fakeSettingsRepo is an in-memory SettingsRepo seeded like the migration.
type fakeSettingsRepo struct {
	s models.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{s: models.Settings{ID: 1, GiveawayPrize: models.PrizeSentinel}}
}

func (f *fakeSettingsRepo) Get(_ context.Context) (models.Settings, error) { return f.s, nil }

func (f *fakeSettingsRepo) SetActive(_ context.Context, active bool) error {
	f.s.GiveawayActive = active
	return nil
}

func (f *fakeSettingsRepo) SetPrize(_ context.Context, prize string) error {
	f.s.GiveawayPrize = prize
	return nil
}

// fakeNotifier records deliveries and can simulate blocked users.
type fakeNotifier struct {
	userMsgs    map[int64][]string
	channel     []string
	failUsers   map[int64]bool
	failChannel bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		userMsgs:  make(map[int64][]string),
		failUsers: make(map[int64]bool),
	}
}

func (f *fakeNotifier) SendUser(userID int64, text string) error {
	if f.failUsers[userID] {
		return sql.ErrConnDone
	}
	f.userMsgs[userID] = append(f.userMsgs[userID], text)
	return nil
}

func (f *fakeNotifier) SendChannel(text string) error {
	if f.failChannel {
		return sql.ErrConnDone
	}
	f.channel = append(f.channel, text)
	return nil
}

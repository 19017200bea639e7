package state

// State names the step a user currently occupies in a multi-message flow.
type State string

const (
	// StateIdle means no flow is active; plain messages fall through.
	StateIdle State = "idle"

	// Ad order flow.
	StateAwaitingAdText  State = "awaiting_ad_text"
	StateAwaitingReceipt State = "awaiting_receipt"

	// Admin input flows.
	StateAwaitingBroadcast    State = "awaiting_broadcast"
	StateAwaitingBanID        State = "awaiting_ban_id"
	StateAwaitingUnbanID      State = "awaiting_unban_id"
	StateAwaitingAddPoints    State = "awaiting_add_points"
	StateAwaitingRemovePoints State = "awaiting_remove_points"
	StateAwaitingUserLookup   State = "awaiting_user_lookup"
	StateAwaitingPrize        State = "awaiting_prize"
)

// Session carries per-user flow state and scratch data between updates.
type Session struct {
	State    State
	TempData map[string]any
}

// Manager stores and retrieves per-user sessions.
type Manager interface {
	Get(userID int64) *Session
	SetState(userID int64, st State)
	SetData(userID int64, key string, value any)
	Data(userID int64, key string) (any, bool)
	Clear(userID int64)
}

package state

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// fsmHandlers maps a state to the handler consuming the next update in it.
var fsmHandlers = struct {
	sync.RWMutex
	m map[State]tele.HandlerFunc
}{m: make(map[State]tele.HandlerFunc)}

// RegisterHandler binds a handler to a state. Later registrations win.
func RegisterHandler(st State, h tele.HandlerFunc) {
	fsmHandlers.Lock()
	defer fsmHandlers.Unlock()
	fsmHandlers.m[st] = h
}

// HandlerFor returns the handler registered for st, if any.
func HandlerFor(st State) (tele.HandlerFunc, bool) {
	fsmHandlers.RLock()
	defer fsmHandlers.RUnlock()
	h, ok := fsmHandlers.m[st]
	return h, ok
}

// Dispatcher adapts a Manager to the message router: it answers whether a
// flow is in progress for a user and forwards the update to the handler of
// the user's current state.
type Dispatcher struct {
	Manager Manager
}

func (d *Dispatcher) InProgress(userID int64) bool {
	return d.Manager.Get(userID).State != StateIdle
}

func (d *Dispatcher) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	st := d.Manager.Get(userID).State
	if h, ok := HandlerFor(st); ok && h != nil {
		return h(c)
	}
	// A state without a handler is a wiring bug, drop back to idle.
	d.Manager.SetState(userID, StateIdle)
	return nil
}

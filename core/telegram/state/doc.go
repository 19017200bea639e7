// Package state implements a minimal per-user finite state machine for
// multi-message conversations: a user enters a state (e.g. waiting for an
// advertisement text), the next matching update is routed to the handler
// registered for that state, and the handler decides the next transition.
package state

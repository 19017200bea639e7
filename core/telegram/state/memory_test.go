package state

import "testing"

func TestMemoryManagerDefaultsToIdle(t *testing.T) {
	m := NewMemoryManager()
	if got := m.Get(1).State; got != StateIdle {
		t.Fatalf("unknown user state = %q, want %q", got, StateIdle)
	}
}

func TestMemoryManagerSetStateAndData(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(7, StateAwaitingReceipt)
	m.SetData(7, "order_id", int64(5))

	s := m.Get(7)
	if s.State != StateAwaitingReceipt {
		t.Fatalf("state = %q, want %q", s.State, StateAwaitingReceipt)
	}
	v, ok := m.Data(7, "order_id")
	if !ok || v.(int64) != 5 {
		t.Fatalf("data = %v (%v), want 5", v, ok)
	}
}

func TestMemoryManagerClear(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(7, StateAwaitingBroadcast)
	m.SetData(7, "k", "v")
	m.Clear(7)

	if got := m.Get(7).State; got != StateIdle {
		t.Fatalf("state after clear = %q, want %q", got, StateIdle)
	}
	if _, ok := m.Data(7, "k"); ok {
		t.Fatal("data survived clear")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, StateAwaitingAdText)
	if got := m.Get(2).State; got != StateIdle {
		t.Fatalf("user 2 state = %q, want %q", got, StateIdle)
	}
}

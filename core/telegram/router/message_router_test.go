package router

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type stubContext struct {
	tele.Context
	update tele.Update
	sender *tele.User
	text   string
	kv     map[string]any
}

func newStubContext(userID int64) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID},
		kv:     make(map[string]any),
	}
}

func (s *stubContext) Update() tele.Update   { return s.update }
func (s *stubContext) Sender() *tele.User    { return s.sender }
func (s *stubContext) Chat() *tele.Chat      { return nil }
func (s *stubContext) Text() string          { return s.text }
func (s *stubContext) Set(key string, v any) { s.kv[key] = v }
func (s *stubContext) Get(key string) any    { return s.kv[key] }

type stubFSM struct {
	active  bool
	handled int
}

func (f *stubFSM) InProgress(int64) bool { return f.active }

func (f *stubFSM) ManagerHandler(c tele.Context) error {
	f.handled++
	return nil
}

func findRoute(t *testing.T, fsm FSM, endpoint any) tele.HandlerFunc {
	t.Helper()
	for _, route := range TextRoutes(fsm, nil, TextOptions{}) {
		if route.Endpoint == endpoint {
			return route.Handler
		}
	}
	t.Fatalf("no route for endpoint %v", endpoint)
	return nil
}

func TestTextRoutesCoverMediaEndpoints(t *testing.T) {
	routes := TextRoutes(&stubFSM{}, nil, TextOptions{})

	want := map[any]bool{
		tele.OnText:  false,
		tele.OnPhoto: false,
		tele.OnMedia: false,
	}
	for _, route := range routes {
		if _, ok := want[route.Endpoint]; ok {
			want[route.Endpoint] = true
		}
	}
	for endpoint, seen := range want {
		if !seen {
			t.Errorf("endpoint %v not routed", endpoint)
		}
	}
}

func TestMediaDispatchedToActiveConversation(t *testing.T) {
	fsm := &stubFSM{active: true}
	handler := findRoute(t, fsm, tele.OnMedia)

	// A sticker, document or voice message lands here while a capture
	// mode is armed; the conversation handler must see it.
	if err := handler(newStubContext(7)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fsm.handled != 1 {
		t.Fatalf("conversation handled %d updates, want 1", fsm.handled)
	}
}

func TestMediaIgnoredWhenIdle(t *testing.T) {
	fsm := &stubFSM{active: false}
	handler := findRoute(t, fsm, tele.OnMedia)

	if err := handler(newStubContext(8)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fsm.handled != 0 {
		t.Fatalf("conversation handled %d updates, want 0", fsm.handled)
	}
}

func TestPhotoDispatchedToActiveConversation(t *testing.T) {
	fsm := &stubFSM{active: true}
	handler := findRoute(t, fsm, tele.OnPhoto)

	if err := handler(newStubContext(9)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fsm.handled != 1 {
		t.Fatalf("conversation handled %d updates, want 1", fsm.handled)
	}
}

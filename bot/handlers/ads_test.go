package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/state"
)

type stubContext struct {
	tele.Context
	sender *tele.User
	msg    *tele.Message
	kv     map[string]any
	sent   []string
}

func newStubContext(userID int64, msg *tele.Message) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID},
		msg:    msg,
		kv:     make(map[string]any),
	}
}

func (s *stubContext) Update() tele.Update    { return tele.Update{Message: s.msg} }
func (s *stubContext) Sender() *tele.User     { return s.sender }
func (s *stubContext) Chat() *tele.Chat       { return nil }
func (s *stubContext) Message() *tele.Message { return s.msg }
func (s *stubContext) Set(key string, v any)  { s.kv[key] = v }
func (s *stubContext) Get(key string) any     { return s.kv[key] }

// Text mirrors telebot's caption fallback for media messages.
func (s *stubContext) Text() string {
	if s.msg == nil {
		return ""
	}
	if s.msg.Caption != "" {
		return s.msg.Caption
	}
	return s.msg.Text
}

func (s *stubContext) Send(what any, _ ...any) error {
	if text, ok := what.(string); ok {
		s.sent = append(s.sent, text)
	}
	return nil
}

func newCaptureHandlers(sessions state.Manager) *Handlers {
	return New(Config{AdminID: 1}, nil, nil, nil, nil, nil, sessions)
}

func TestCaptureAdTextRepromptsOnNonText(t *testing.T) {
	sessions := state.NewMemoryManager()
	h := newCaptureHandlers(sessions)

	const userID int64 = 10
	sessions.SetState(userID, state.StateAwaitingAdText)
	sessions.SetData(userID, dataPackageKey, "ads_1h")

	// A sticker or voice message carries no text.
	c := newStubContext(userID, &tele.Message{})
	require.NoError(t, h.CaptureAdText(c))

	require.Equal(t, []string{"❗ Reklama matnini TEXT qilib yuboring."}, c.sent)
	require.Equal(t, state.StateAwaitingAdText, sessions.Get(userID).State)
}

func TestCaptureAdTextRepromptsOnPhoto(t *testing.T) {
	sessions := state.NewMemoryManager()
	h := newCaptureHandlers(sessions)

	const userID int64 = 11
	sessions.SetState(userID, state.StateAwaitingAdText)
	sessions.SetData(userID, dataPackageKey, "ads_1h")

	c := newStubContext(userID, &tele.Message{
		Photo:   &tele.Photo{File: tele.File{FileID: "ph-1"}},
		Caption: "caption text",
	})
	require.NoError(t, h.CaptureAdText(c))

	require.Equal(t, []string{"❗ Reklama matnini TEXT qilib yuboring."}, c.sent)
	require.Equal(t, state.StateAwaitingAdText, sessions.Get(userID).State)
}

func TestCaptureReceiptRepromptsOnNonPhoto(t *testing.T) {
	sessions := state.NewMemoryManager()
	h := newCaptureHandlers(sessions)

	const userID int64 = 12
	sessions.SetState(userID, state.StateAwaitingReceipt)
	sessions.SetData(userID, dataOrderID, int64(5))

	// Text, stickers and documents are all rejected the same way.
	c := newStubContext(userID, &tele.Message{Text: "mana chek"})
	require.NoError(t, h.CaptureReceipt(c))

	require.Equal(t, []string{"❗ Chekni rasm ko‘rinishida yuboring (screenshot)."}, c.sent)
	require.Equal(t, state.StateAwaitingReceipt, sessions.Get(userID).State)
}

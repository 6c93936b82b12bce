package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageEvent(t *testing.T) {
	tests := []struct {
		name    string
		msg     *telego.Message
		trigger Trigger
		data    string
	}{
		{name: "text", msg: &telego.Message{Text: "hello"}, trigger: TriggerText, data: "hello"},
		{name: "photo", msg: &telego.Message{Photo: []telego.PhotoSize{{FileID: "p"}}, Caption: "cap"}, trigger: TriggerPhoto, data: "cap"},
		{name: "document", msg: &telego.Message{Document: &telego.Document{FileID: "d"}}, trigger: TriggerFile},
		{name: "video", msg: &telego.Message{Video: &telego.Video{FileID: "v"}, Caption: "v cap"}, trigger: TriggerFile, data: "v cap"},
		{name: "sticker counts as text", msg: &telego.Message{Sticker: &telego.Sticker{FileID: "s"}}, trigger: TriggerText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := MessageEvent(tt.msg)
			assert.Equal(t, tt.trigger, ev.Trigger)
			assert.Equal(t, tt.data, ev.Data)
			assert.Same(t, tt.msg, ev.Message)
		})
	}
}

func TestCallbackEvent(t *testing.T) {
	q := &telego.CallbackQuery{ID: "1", Data: "confirm_send"}
	ev := CallbackEvent(q)
	assert.Equal(t, TriggerCallback, ev.Trigger)
	assert.Equal(t, "confirm_send", ev.Data)
	assert.Same(t, q, ev.Query)
}

func TestMachine_Fire(t *testing.T) {
	ctx := context.Background()
	m := NewMachine().
		On(StatePostSelectingType, TriggerCallback, func(_ context.Context, s *Session, ev Event) (State, error) {
			s.Set("post_type", ev.Data)
			return StatePostAwaitingText, nil
		}).
		On(StatePostAwaitingText, TriggerText, func(_ context.Context, s *Session, ev Event) (State, error) {
			s.Set("text", ev.Data)
			return StatePostAwaitingConfirm, nil
		})

	s := NewSession(1)
	s.State = StatePostSelectingType

	handled, err := m.Fire(ctx, s, Event{Trigger: TriggerCallback, Data: "news"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, StatePostAwaitingText, s.State)
	assert.Equal(t, "news", s.Get("post_type"))

	handled, err = m.Fire(ctx, s, Event{Trigger: TriggerPhoto})
	require.NoError(t, err)
	assert.False(t, handled, "photo is not expected while awaiting text")
	assert.Equal(t, StatePostAwaitingText, s.State)

	handled, err = m.Fire(ctx, s, Event{Trigger: TriggerText, Data: "body"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, StatePostAwaitingConfirm, s.State)
	assert.Equal(t, "body", s.Get("text"))
}

func TestMachine_ErrorKeepsState(t *testing.T) {
	m := NewMachine().On(StateMovieAwaitingFile, TriggerFile, func(context.Context, *Session, Event) (State, error) {
		return StateMovieAwaitingFinalConfirm, errors.New("boom")
	})
	s := NewSession(1)
	s.State = StateMovieAwaitingFile

	handled, err := m.Fire(context.Background(), s, Event{Trigger: TriggerFile})
	assert.True(t, handled)
	assert.Error(t, err)
	assert.Equal(t, StateMovieAwaitingFile, s.State)
}

func TestMachine_IdleResetsSession(t *testing.T) {
	m := NewMachine().On(StatePostAwaitingConfirm, TriggerCallback, func(context.Context, *Session, Event) (State, error) {
		return StateIdle, nil
	})
	s := NewSession(1)
	s.State = StatePostAwaitingConfirm
	s.Set("text", "body")
	oldID := s.ID

	handled, err := m.Fire(context.Background(), s, Event{Trigger: TriggerCallback})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, s.Idle())
	assert.Empty(t, s.Data)
	assert.NotEqual(t, oldID, s.ID)
}

func TestMachine_OnReplacesHandler(t *testing.T) {
	m := NewMachine().
		On(StateAdminMenu, TriggerCallback, func(context.Context, *Session, Event) (State, error) {
			return StateAdminMenu, nil
		}).
		On(StateAdminMenu, TriggerCallback, func(context.Context, *Session, Event) (State, error) {
			return StateAdminAwaitingTypeName, nil
		})

	s := NewSession(1)
	s.State = StateAdminMenu
	handled, err := m.Fire(context.Background(), s, Event{Trigger: TriggerCallback})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, StateAdminAwaitingTypeName, s.State)

	handled, err = m.Fire(context.Background(), s, Event{Trigger: TriggerCallback})
	require.NoError(t, err)
	assert.False(t, handled, "no transition registered for the new state")
}

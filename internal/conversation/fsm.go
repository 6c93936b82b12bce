package conversation

import (
	"context"
	"time"

	"github.com/mymmrac/telego"
	"github.com/pkg/errors"
)

// Trigger is the kind of input that drives a transition.
type Trigger string

const (
	TriggerText     Trigger = "text"
	TriggerPhoto    Trigger = "photo"
	TriggerFile     Trigger = "file"
	TriggerCallback Trigger = "callback"
)

// Event is a single user input delivered to the machine.
// Data holds the message text or the callback data.
type Event struct {
	Trigger Trigger
	Data    string
	Message *telego.Message
	Query   *telego.CallbackQuery
}

// MessageEvent classifies a message: photos first, then documents and videos, everything else is text.
func MessageEvent(msg *telego.Message) Event {
	ev := Event{Trigger: TriggerText, Data: msg.Text, Message: msg}
	switch {
	case len(msg.Photo) > 0:
		ev.Trigger = TriggerPhoto
		ev.Data = msg.Caption
	case msg.Document != nil || msg.Video != nil:
		ev.Trigger = TriggerFile
		ev.Data = msg.Caption
	}
	return ev
}

func CallbackEvent(query *telego.CallbackQuery) Event {
	return Event{Trigger: TriggerCallback, Data: query.Data, Query: query}
}

// Handler processes an event and returns the next state.
type Handler func(ctx context.Context, s *Session, ev Event) (State, error)

type transitionKey struct {
	state   State
	trigger Trigger
}

// Machine is a transition table keyed by state and trigger.
type Machine struct {
	transitions map[transitionKey]Handler
}

func NewMachine() *Machine {
	return &Machine{transitions: make(map[transitionKey]Handler)}
}

// On registers h for events of the given trigger in the given state. Registering twice replaces the handler.
func (m *Machine) On(state State, trigger Trigger, h Handler) *Machine {
	m.transitions[transitionKey{state: state, trigger: trigger}] = h
	return m
}

// Fire runs the handler registered for the session's state and the event's trigger.
// It returns false when there is none. On error the session state is left untouched.
func (m *Machine) Fire(ctx context.Context, s *Session, ev Event) (bool, error) {
	h, ok := m.transitions[transitionKey{state: s.State, trigger: ev.Trigger}]
	if !ok {
		return false, nil
	}
	next, err := h(ctx, s, ev)
	if err != nil {
		return true, errors.Wrapf(err, "transition from %q on %s failed", s.State, ev.Trigger)
	}
	if next == StateIdle {
		s.Reset()
		return true, nil
	}
	s.State = next
	s.UpdatedAt = time.Now()
	return true, nil
}

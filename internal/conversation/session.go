// Package conversation holds the per-user dialog state of the bot.
package conversation

import (
	"time"

	"github.com/google/uuid"
)

// State is the position of a user inside a multi-step flow.
type State string

// StateIdle means the user is not inside any flow.
const StateIdle State = ""

const (
	StatePostSelectingType   State = "post.selecting_type"
	StatePostAwaitingText    State = "post.awaiting_text"
	StatePostAwaitingConfirm State = "post.awaiting_confirm"

	StateMovieAwaitingPoster       State = "movie.awaiting_poster"
	StateMovieAwaitingFirstConfirm State = "movie.awaiting_first_confirm"
	StateMovieAwaitingFile         State = "movie.awaiting_file"
	StateMovieAwaitingFinalConfirm State = "movie.awaiting_final_confirm"

	StateAdminMenu               State = "admin.menu"
	StateAdminAwaitingTypeName   State = "admin.awaiting_type_name"
	StateAdminAwaitingTypeBanner State = "admin.awaiting_type_banner"
	StateAdminAwaitingDeleteName State = "admin.awaiting_delete_name"
)

// Session is the conversation of one user together with the values collected so far.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	UserID    int64             `json:"user_id"`
	ChatID    int64             `json:"chat_id"`
	State     State             `json:"state"`
	Data      map[string]string `json:"data,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewSession(userID int64) *Session {
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Data:      map[string]string{},
		UpdatedAt: time.Now(),
	}
}

func (s *Session) Get(key string) string {
	return s.Data[key]
}

func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = map[string]string{}
	}
	s.Data[key] = value
}

// Idle reports whether the session is outside of any flow.
func (s *Session) Idle() bool {
	return s.State == StateIdle
}

// Reset ends the current flow and drops collected values. A new session id is assigned.
func (s *Session) Reset() {
	s.ID = uuid.New()
	s.State = StateIdle
	s.Data = map[string]string{}
	s.UpdatedAt = time.Now()
}

func (s *Session) clone() *Session {
	c := *s
	c.Data = make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		c.Data[k] = v
	}
	return &c
}

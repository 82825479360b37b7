// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

const MaxMessageLen = 1000

type (
	MessageID string
	Origin    string
)

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Message is immutable once created.
type Message struct {
	ID        MessageID `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLocalMessage trims text and validates it as user-authored input.
func NewLocalMessage(text string, now time.Time) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return Message{}, ErrMessageTooLong
	}
	return newMessage(text, OriginLocal, now), nil
}

func NewRemoteMessage(text string, now time.Time) Message {
	return newMessage(text, OriginRemote, now)
}

// ulid.Make draws from a process-wide monotonic entropy source, so ids made
// within the same millisecond still sort in creation order.
func newMessage(text string, origin Origin, now time.Time) Message {
	return Message{
		ID:        MessageID(ulid.Make().String()),
		Text:      text,
		Origin:    origin,
		CreatedAt: now,
	}
}

// Clock renders CreatedAt as 24-hour HH:MM.
func (m Message) Clock() string {
	return m.CreatedAt.Format("15:04")
}

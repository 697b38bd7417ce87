package domain

import "time"

// UserRegisteredEvent represents the payload for messaging.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	Username     string
	Phone        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// MessageSentEvent represents the payload for messaging.message.sent messages.
type MessageSentEvent struct {
	EventID      string
	MessageID    string
	FromUsername string
	ToUsername   string
	SentAt       time.Time
	Metadata     map[string]any
}

// MessageReadEvent represents the payload for messaging.message.read messages.
type MessageReadEvent struct {
	EventID    string
	MessageID  string
	ToUsername string
	ReadAt     time.Time
	Metadata   map[string]any
}

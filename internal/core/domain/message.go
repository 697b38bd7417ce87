package domain

import "time"

// Message mirrors the persisted representation in the messages table.
// ReadAt stays nil until the recipient marks the message as read and is set
// at most once after that.
type Message struct {
	ID           string
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

// IsParticipant reports whether username is the sender or the recipient.
func (m Message) IsParticipant(username string) bool {
	return m.FromUsername == username || m.ToUsername == username
}

// MessageDetail is a message with both parties expanded to their public
// summaries, as returned by single-message lookups.
type MessageDetail struct {
	ID       string
	Body     string
	SentAt   time.Time
	ReadAt   *time.Time
	FromUser UserSummary
	ToUser   UserSummary
}

// IsParticipant reports whether username is the sender or the recipient.
func (m MessageDetail) IsParticipant(username string) bool {
	return m.FromUser.Username == username || m.ToUser.Username == username
}

// ConversationEntry is one element of a user's sent or received message
// listing. Counterpart is the other party: the recipient for messages the
// user sent, the sender for messages the user received.
type ConversationEntry struct {
	ID          string
	Body        string
	SentAt      time.Time
	ReadAt      *time.Time
	Counterpart UserSummary
}
